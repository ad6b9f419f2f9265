package networking

import "testing"

type nullConn struct{}

func (nullConn) Send(Message) error { return nil }
func (nullConn) Close() error       { return nil }

func establish(r *Registry, id int, name string, host bool) *PlayerConnection {
	pc := NewPlayerConnection(nullConn{})
	r.Add(pc)
	pc.EstablishPlayer(id, name, host)
	return pc
}

func TestRegistryAssignsMonotonicIDs(t *testing.T) {
	r := NewRegistry()
	if got := r.GreatestPlayerID(); got != InvalidPlayerID {
		t.Fatalf("empty registry greatest id = %d, want %d", got, InvalidPlayerID)
	}

	establish(r, HostPlayerID, "host", true)
	alice := establish(r, r.GreatestPlayerID()+1, "alice", false)
	if alice.ID() != 1 {
		t.Fatalf("second player id = %d, want 1", alice.ID())
	}
	if got := r.GreatestPlayerID(); got != 1 {
		t.Fatalf("greatest id = %d, want 1", got)
	}
}

func TestRegistryEstablishedPreservesJoinOrder(t *testing.T) {
	r := NewRegistry()
	pending := NewPlayerConnection(nullConn{})
	r.Add(pending)
	establish(r, 0, "host", true)
	establish(r, 1, "alice", false)

	got := r.Established()
	if len(got) != 2 {
		t.Fatalf("established = %d, want 2", len(got))
	}
	if got[0].PlayerName() != "host" || got[1].PlayerName() != "alice" {
		t.Fatalf("order = [%s, %s], want [host, alice]", got[0].PlayerName(), got[1].PlayerName())
	}
	if r.NumEstablished() != 2 {
		t.Fatalf("num established = %d, want 2", r.NumEstablished())
	}
}

func TestRegistryBroadcastSkipsExceptions(t *testing.T) {
	r := NewRegistry()
	type record struct {
		sent []Type
	}
	recs := map[int]*record{}
	for id, name := range map[int]string{0: "host", 1: "alice", 2: "bob"} {
		rec := &record{}
		recs[id] = rec
		pc := NewPlayerConnection(recordConn{rec: &rec.sent})
		r.Add(pc)
		pc.EstablishPlayer(id, name, id == 0)
	}

	r.Broadcast(New(TypeServerLobbyExit, 1, Broadcast, nil), 1)
	if len(recs[1].sent) != 0 {
		t.Fatal("excepted player received broadcast")
	}
	if len(recs[0].sent) != 1 || len(recs[2].sent) != 1 {
		t.Fatalf("broadcast counts = %d, %d, want 1, 1", len(recs[0].sent), len(recs[2].sent))
	}
}

type recordConn struct {
	rec *[]Type
}

func (c recordConn) Send(msg Message) error {
	*c.rec = append(*c.rec, msg.Type)
	return nil
}

func (recordConn) Close() error { return nil }

func TestRegistryDisconnectAllEmpties(t *testing.T) {
	r := NewRegistry()
	establish(r, 0, "host", true)
	establish(r, 1, "alice", false)
	r.DisconnectAll()
	if !r.Empty() {
		t.Fatal("registry should be empty after DisconnectAll")
	}
}
