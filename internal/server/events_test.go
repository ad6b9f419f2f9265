package server

import (
	"encoding/json"
	"testing"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
)

func TestClassifyMessageUnknownType(t *testing.T) {
	pc := networking.NewPlayerConnection(&fakeConn{})
	if _, err := ClassifyMessage(pc, networking.Message{Type: "no_such_type"}); err == nil {
		t.Fatal("unknown message type did not error")
	}
}

func TestClassifySaveDataDegradesBrokenOrders(t *testing.T) {
	pc := networking.NewPlayerConnection(&fakeConn{})
	payload := map[string]json.RawMessage{
		"orders":  json.RawMessage(`{"1":{"kind":"no_such_order","data":{}}}`),
		"ui_data": json.RawMessage(`{"zoom":2}`),
	}
	msg := networking.New(networking.TypeClientSaveData, 1, networking.HostPlayerID, payload)

	ev, err := ClassifyMessage(pc, msg)
	if err != nil {
		t.Fatalf("classify save data: %v", err)
	}
	data, ok := ev.(ClientSaveData)
	if !ok {
		t.Fatalf("event = %T, want ClientSaveData", ev)
	}
	if len(data.Orders) != 0 {
		t.Fatalf("broken orders decoded to %d entries, want empty set", len(data.Orders))
	}
	if string(data.UIData) != `{"zoom":2}` {
		t.Fatalf("ui data = %s, want preserved snapshot", data.UIData)
	}
}

func TestClassifySaveDataEmptyPayload(t *testing.T) {
	pc := networking.NewPlayerConnection(&fakeConn{})
	msg := networking.Message{
		Type:    networking.TypeClientSaveData,
		Payload: json.RawMessage(`{}`),
	}

	ev, err := ClassifyMessage(pc, msg)
	if err != nil {
		t.Fatalf("classify save data: %v", err)
	}
	data := ev.(ClientSaveData)
	if len(data.Orders) != 0 {
		t.Fatalf("orders = %d entries, want none", len(data.Orders))
	}
	if data.UIData != nil {
		t.Fatalf("ui data = %s, want none", data.UIData)
	}
}

func TestClassifyTurnOrdersRoundTrip(t *testing.T) {
	pc := networking.NewPlayerConnection(&fakeConn{})
	orders := game.OrderSet{
		4: game.FleetMoveOrder{EmpireID: 2, FleetID: 9, DestinationID: 3},
	}
	msg := networking.New(networking.TypeTurnOrders, 2, networking.HostPlayerID, orders)

	ev, err := ClassifyMessage(pc, msg)
	if err != nil {
		t.Fatalf("classify turn orders: %v", err)
	}
	decoded, ok := ev.(TurnOrders)
	if !ok {
		t.Fatalf("event = %T, want TurnOrders", ev)
	}
	if decoded.Orders[4].IssuedBy() != 2 {
		t.Fatalf("issuer = %d, want 2", decoded.Orders[4].IssuedBy())
	}
}
