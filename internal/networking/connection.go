package networking

import (
	"log"

	"github.com/google/uuid"
)

// Conn is the transport half of a player connection: something that can ship
// message envelopes to the peer and be closed.
type Conn interface {
	Send(msg Message) error
	Close() error
}

// PlayerConnection identifies one network peer. Before establishment it only
// has a transport key; EstablishPlayer binds the player ID, display name and
// host flag assigned by the session automaton.
type PlayerConnection struct {
	key         string
	conn        Conn
	id          int
	name        string
	host        bool
	established bool
	viaGrant    bool
}

// NewPlayerConnection wraps a transport connection that has not joined yet.
func NewPlayerConnection(conn Conn) *PlayerConnection {
	return &PlayerConnection{
		key:  uuid.NewString(),
		conn: conn,
		id:   InvalidPlayerID,
	}
}

// Key returns the transport identity assigned before establishment.
func (c *PlayerConnection) Key() string { return c.key }

// ID returns the assigned player ID, or InvalidPlayerID.
func (c *PlayerConnection) ID() int { return c.id }

// PlayerName returns the established display name.
func (c *PlayerConnection) PlayerName() string { return c.name }

// Host reports whether this connection is the session host.
func (c *PlayerConnection) Host() bool { return c.host }

// Established reports whether the automaton admitted this connection.
func (c *PlayerConnection) Established() bool { return c.established }

// ViaGrant reports whether the transport verified an AI join grant for this
// connection during the handshake.
func (c *PlayerConnection) ViaGrant() bool { return c.viaGrant }

// MarkViaGrant records that the handshake carried a verified join grant.
func (c *PlayerConnection) MarkViaGrant() { c.viaGrant = true }

// EstablishPlayer binds the player identity to this connection.
func (c *PlayerConnection) EstablishPlayer(id int, name string, host bool) {
	c.id = id
	c.name = name
	c.host = host
	c.established = true
}

// SendMessage ships a message to the peer. Send failures are logged rather
// than surfaced: a dying socket is reported through the read pump's
// disconnection event, which the automaton already handles.
func (c *PlayerConnection) SendMessage(msg Message) {
	if c.conn == nil {
		return
	}
	if err := c.conn.Send(msg); err != nil {
		log.Printf("send %s to player %d: %v", msg.Type, c.id, err)
	}
}

// Close shuts the underlying transport.
func (c *PlayerConnection) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		log.Printf("close connection %s: %v", c.key, err)
	}
}
