package networking

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is the dialing side of the transport, used by AI client processes.
type Client struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// Dial connects to a game server. grant, when non-empty, is presented as an
// AI join grant during the handshake.
func Dial(ctx context.Context, serverAddr, grant string) (*Client, error) {
	header := http.Header{}
	if grant != "" {
		header.Set(GrantHeader, grant)
	}
	url := fmt.Sprintf("ws://%s/play", serverAddr)
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{ws: ws}, nil
}

// Send ships a message to the server.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

// Read blocks for the next message from the server.
func (c *Client) Read() (Message, error) {
	var msg Message
	if err := c.ws.ReadJSON(&msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	return c.ws.Close()
}
