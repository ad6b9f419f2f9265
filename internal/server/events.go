package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
)

// Event is one typed occurrence dispatched to the active session state.
// Variants are closed: inbound messages are classified into exactly one of
// the types below, and connection loss arrives as Disconnection.
type Event interface {
	eventName() string
}

// HostMPGame asks the server to open a multiplayer lobby with the sender as host.
type HostMPGame struct {
	Conn       *networking.PlayerConnection
	PlayerName string
}

// HostSPGame asks the server to start a single-player game with the sender as host.
type HostSPGame struct {
	Conn  *networking.PlayerConnection
	Setup game.SinglePlayerSetupData
}

// JoinGame asks to join the lobby or the forming game.
type JoinGame struct {
	Conn       *networking.PlayerConnection
	PlayerName string
}

// LobbyUpdate carries a client's requested lobby mutation.
type LobbyUpdate struct {
	Conn *networking.PlayerConnection
	Data game.LobbyData
}

// LobbyChat relays pre-game chat, optionally to a single receiver.
type LobbyChat struct {
	Conn     *networking.PlayerConnection
	Receiver int
	Text     string
}

// LobbyHostAbort is the host tearing the lobby down.
type LobbyHostAbort struct {
	Conn *networking.PlayerConnection
}

// LobbyNonHostExit is a non-host player leaving the lobby gracefully.
type LobbyNonHostExit struct {
	Conn *networking.PlayerConnection
}

// StartMPGame is the host launching the negotiated multiplayer game.
type StartMPGame struct {
	Conn *networking.PlayerConnection
}

// TurnOrders is one empire's order batch for the current turn.
type TurnOrders struct {
	Conn   *networking.PlayerConnection
	Orders game.OrderSet
}

// RequestObjectID asks for a fresh unique universe object identifier.
type RequestObjectID struct {
	Conn *networking.PlayerConnection
}

// PlayerChat is in-game chat, possibly with a name-addressed prefix.
type PlayerChat struct {
	Conn *networking.PlayerConnection
	Text string
}

// LoadSPGame is the host restarting from a single-player save mid-session.
type LoadSPGame struct {
	Conn     *networking.PlayerConnection
	Filename string
}

// EndGame is the host ending the session gracefully.
type EndGame struct {
	Conn *networking.PlayerConnection
}

// SaveGameRequest is the host requesting a checkpoint.
type SaveGameRequest struct {
	Conn     *networking.PlayerConnection
	Filename string
}

// ClientSaveData is one client's answer to a save-data request.
type ClientSaveData struct {
	Conn   *networking.PlayerConnection
	Orders game.OrderSet
	UIData json.RawMessage
}

// Disconnection reports abrupt connection loss.
type Disconnection struct {
	Conn *networking.PlayerConnection
}

func (HostMPGame) eventName() string       { return "HostMPGame" }
func (HostSPGame) eventName() string       { return "HostSPGame" }
func (JoinGame) eventName() string         { return "JoinGame" }
func (LobbyUpdate) eventName() string      { return "LobbyUpdate" }
func (LobbyChat) eventName() string        { return "LobbyChat" }
func (LobbyHostAbort) eventName() string   { return "LobbyHostAbort" }
func (LobbyNonHostExit) eventName() string { return "LobbyNonHostExit" }
func (StartMPGame) eventName() string      { return "StartMPGame" }
func (TurnOrders) eventName() string       { return "TurnOrders" }
func (RequestObjectID) eventName() string  { return "RequestObjectID" }
func (PlayerChat) eventName() string       { return "PlayerChat" }
func (LoadSPGame) eventName() string       { return "LoadSPGame" }
func (EndGame) eventName() string          { return "EndGame" }
func (SaveGameRequest) eventName() string  { return "SaveGameRequest" }
func (ClientSaveData) eventName() string   { return "ClientSaveData" }
func (Disconnection) eventName() string    { return "Disconnection" }

// ClassifyMessage turns a wire envelope into a typed event. A payload that
// fails to decode yields an error and no event; the caller logs and discards.
func ClassifyMessage(conn *networking.PlayerConnection, msg networking.Message) (Event, error) {
	switch msg.Type {
	case networking.TypeHostMPGame:
		var payload networking.NamePayload
		if err := msg.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode host mp payload: %w", err)
		}
		return HostMPGame{Conn: conn, PlayerName: payload.PlayerName}, nil

	case networking.TypeHostSPGame:
		var setup game.SinglePlayerSetupData
		if err := msg.Decode(&setup); err != nil {
			return nil, fmt.Errorf("decode host sp payload: %w", err)
		}
		return HostSPGame{Conn: conn, Setup: setup}, nil

	case networking.TypeJoinGame:
		var payload networking.NamePayload
		if err := msg.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode join payload: %w", err)
		}
		return JoinGame{Conn: conn, PlayerName: payload.PlayerName}, nil

	case networking.TypeLobbyUpdate:
		var data game.LobbyData
		if err := msg.Decode(&data); err != nil {
			return nil, fmt.Errorf("decode lobby update payload: %w", err)
		}
		return LobbyUpdate{Conn: conn, Data: data}, nil

	case networking.TypeLobbyChat:
		var payload networking.TextPayload
		if err := msg.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode lobby chat payload: %w", err)
		}
		return LobbyChat{Conn: conn, Receiver: msg.Receiver, Text: payload.Text}, nil

	case networking.TypeLobbyHostAbort:
		return LobbyHostAbort{Conn: conn}, nil

	case networking.TypeLobbyExit:
		return LobbyNonHostExit{Conn: conn}, nil

	case networking.TypeStartMPGame:
		return StartMPGame{Conn: conn}, nil

	case networking.TypeTurnOrders:
		var orders game.OrderSet
		if err := msg.Decode(&orders); err != nil {
			return nil, fmt.Errorf("decode turn orders payload: %w", err)
		}
		return TurnOrders{Conn: conn, Orders: orders}, nil

	case networking.TypeRequestObjectID:
		return RequestObjectID{Conn: conn}, nil

	case networking.TypePlayerChat:
		var payload networking.TextPayload
		if err := msg.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode player chat payload: %w", err)
		}
		return PlayerChat{Conn: conn, Text: payload.Text}, nil

	case networking.TypeLoadSPGame:
		var payload networking.TextPayload
		if err := msg.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode load game payload: %w", err)
		}
		return LoadSPGame{Conn: conn, Filename: payload.Text}, nil

	case networking.TypeEndGame:
		return EndGame{Conn: conn}, nil

	case networking.TypeSaveGameRequest:
		var payload networking.TextPayload
		if err := msg.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode save request payload: %w", err)
		}
		return SaveGameRequest{Conn: conn, Filename: payload.Text}, nil

	case networking.TypeClientSaveData:
		// Decoded leniently: one client's broken bundle must not stall the
		// collective save. Broken orders degrade to an empty set, a broken
		// UI snapshot to none; the response still counts.
		var raw struct {
			Orders json.RawMessage `json:"orders"`
			UIData json.RawMessage `json:"ui_data"`
		}
		if err := msg.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode client save data payload: %w", err)
		}
		orders := game.OrderSet{}
		if len(raw.Orders) > 0 {
			if err := json.Unmarshal(raw.Orders, &orders); err != nil {
				log.Printf("discard save orders from %s: %v", conn.Key(), err)
				orders = game.OrderSet{}
			}
		}
		uiData := raw.UIData
		if len(uiData) > 0 && !json.Valid(uiData) {
			uiData = nil
		}
		return ClientSaveData{Conn: conn, Orders: orders, UIData: uiData}, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
}
