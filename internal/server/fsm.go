package server

import (
	"context"
	"log"

	"github.com/swaqvalley/freeorion/internal/networking"
)

// state is one node of the session automaton. react returns the next state
// (nil to stay) and whether the event was consumed; entry actions run in the
// state constructors, so a transition is complete once react returns.
type state interface {
	stateName() string
	react(ev Event) (next state, consumed bool)
}

// FSM is the session automaton. It owns the current state and the shared
// session context, and processes one event at a time to completion.
type FSM struct {
	app     *App
	current state
}

// NewFSM creates the automaton in its initial Idle state.
func NewFSM(app *App) *FSM {
	return &FSM{app: app, current: &idleState{app: app}}
}

// StateName names the active state, for logs and tests.
func (f *FSM) StateName() string {
	return f.current.stateName()
}

// Handle dispatches one event to the active state.
//
// Disconnections not consumed by the active state fall back to the shared
// non-lobby handler. Anything else unconsumed is a protocol violation by the
// sender: it is logged and discarded, never crashing the server.
func (f *FSM) Handle(ev Event) {
	next, consumed := f.current.react(ev)
	if consumed {
		if next != nil && next != f.current {
			log.Printf("state %s -> %s", f.current.stateName(), next.stateName())
			f.current = next
		}
		return
	}

	if d, ok := ev.(Disconnection); ok {
		f.app.HandleNonLobbyDisconnection(d.Conn)
		return
	}
	log.Printf("state %s: illegal event %s ignored", f.current.stateName(), ev.eventName())
}

// Run consumes the transport's inbound queue until ctx is canceled.
//
// Connection bookkeeping happens here, on the automaton goroutine: accepted
// sockets enter the registry before any of their messages are seen, and a
// socket that dies before establishment is dropped without an event.
func (f *FSM) Run(ctx context.Context, inbox <-chan networking.Inbound) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-inbox:
			switch in.Kind {
			case networking.InboundConnected:
				f.app.registry.Add(in.Conn)

			case networking.InboundMessage:
				ev, err := ClassifyMessage(in.Conn, in.Message)
				if err != nil {
					log.Printf("classify message from %s: %v", in.Conn.Key(), err)
					continue
				}
				f.Handle(ev)

			case networking.InboundClosed:
				if in.Conn.Established() {
					f.Handle(Disconnection{Conn: in.Conn})
				} else {
					f.app.registry.Remove(in.Conn)
				}
			}
		}
	}
}
