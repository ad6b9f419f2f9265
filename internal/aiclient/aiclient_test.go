package aiclient

import (
	"testing"

	"github.com/swaqvalley/freeorion/internal/networking"
)

func TestHandleJoinAck(t *testing.T) {
	c := New("127.0.0.1:0", "AI_1", "")
	msg := networking.New(networking.TypeJoinAck, networking.HostPlayerID, 3,
		networking.AckPayload{PlayerID: 3})

	done, err := c.handle(msg)
	if err != nil {
		t.Fatalf("handle join ack: %v", err)
	}
	if done {
		t.Fatal("join ack ended the session")
	}
	if c.playerID != 3 {
		t.Fatalf("playerID = %d, want 3", c.playerID)
	}
}

func TestHandleServerDyingEndsSession(t *testing.T) {
	c := New("127.0.0.1:0", "AI_1", "")
	for _, typ := range []networking.Type{networking.TypeServerEndGame, networking.TypeServerDying} {
		done, err := c.handle(networking.New(typ, networking.HostPlayerID, 1, nil))
		if err != nil {
			t.Fatalf("handle %s: %v", typ, err)
		}
		if !done {
			t.Fatalf("%s did not end the session", typ)
		}
	}
}

func TestHandleIgnoresChat(t *testing.T) {
	c := New("127.0.0.1:0", "AI_1", "")
	msg := networking.New(networking.TypeChat, 0, 1, networking.ChatPayload{From: "alice", Text: "hi"})

	done, err := c.handle(msg)
	if err != nil || done {
		t.Fatalf("handle chat = (%v, %v), want silent ignore", done, err)
	}
}

func TestHandleBadPayloadSurfacesError(t *testing.T) {
	c := New("127.0.0.1:0", "AI_1", "")
	msg := networking.Message{Type: networking.TypeJoinAck, Payload: []byte("{")}

	if _, err := c.handle(msg); err == nil {
		t.Fatal("malformed join ack did not error")
	}
}
