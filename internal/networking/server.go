package networking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// GrantHeader is the HTTP header AI clients use to present their join grant
// during the websocket handshake.
const GrantHeader = "X-Freeorion-Join-Grant"

// InboundKind classifies items on the inbound queue.
type InboundKind int

const (
	// InboundConnected announces a freshly accepted, unestablished peer.
	InboundConnected InboundKind = iota
	// InboundMessage carries one decoded envelope from a peer.
	InboundMessage
	// InboundClosed announces that a peer's socket died.
	InboundClosed
)

// Inbound is one item on the serialized event queue feeding the automaton.
type Inbound struct {
	Kind    InboundKind
	Conn    *PlayerConnection
	Message Message
}

// GrantVerifier validates AI join grants presented during the handshake.
type GrantVerifier interface {
	Verify(token string) error
}

// Server accepts websocket connections and serializes everything the peers
// do into a single inbound queue. It never touches the connection registry;
// the automaton goroutine owns all bookkeeping.
type Server struct {
	verifier GrantVerifier
	inbox    chan Inbound
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a websocket transport. verifier may be nil, in which
// case join grants are not accepted and all peers are treated as human.
func NewServer(verifier GrantVerifier) *Server {
	return &Server{
		verifier: verifier,
		inbox:    make(chan Inbound, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Inbox returns the serialized inbound queue.
func (s *Server) Inbox() <-chan Inbound {
	return s.inbox
}

// Addr returns the bound listen address once ListenAndServe has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ListenAndServe accepts peers on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/play", s.handlePlay)
	httpServer := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	viaGrant := false
	if token := r.Header.Get(GrantHeader); token != "" {
		if s.verifier == nil {
			http.Error(w, "join grants not accepted", http.StatusForbidden)
			return
		}
		if err := s.verifier.Verify(token); err != nil {
			log.Printf("reject join grant from %s: %v", r.RemoteAddr, err)
			http.Error(w, "invalid join grant", http.StatusForbidden)
			return
		}
		viaGrant = true
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade %s: %v", r.RemoteAddr, err)
		return
	}

	pc := NewPlayerConnection(&wsConn{ws: ws})
	if viaGrant {
		pc.MarkViaGrant()
	}
	s.inbox <- Inbound{Kind: InboundConnected, Conn: pc}

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			s.inbox <- Inbound{Kind: InboundClosed, Conn: pc}
			return
		}
		s.inbox <- Inbound{Kind: InboundMessage, Conn: pc, Message: msg}
	}
}

// wsConn adapts a gorilla websocket to the Conn interface. Gorilla permits
// one concurrent writer, so sends are serialized with a mutex.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
