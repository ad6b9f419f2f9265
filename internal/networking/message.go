// Package networking provides the connection registry and the JSON message
// envelope exchanged with game clients. Wire framing is a single websocket
// text frame per message; the session automaton only ever sees decoded
// envelopes, serialized through one inbound queue.
package networking

import (
	"encoding/json"

	"github.com/swaqvalley/freeorion/internal/game"
)

// Type identifies a message category on the wire.
type Type string

// Client-to-server messages.
const (
	TypeHostMPGame      Type = "host_mp_game"
	TypeHostSPGame      Type = "host_sp_game"
	TypeJoinGame        Type = "join_game"
	TypeLobbyUpdate     Type = "lobby_update"
	TypeLobbyChat       Type = "lobby_chat"
	TypeLobbyHostAbort  Type = "lobby_host_abort"
	TypeLobbyExit       Type = "lobby_exit"
	TypeStartMPGame     Type = "start_mp_game"
	TypeTurnOrders      Type = "turn_orders"
	TypeRequestObjectID Type = "request_object_id"
	TypePlayerChat      Type = "player_chat"
	TypeLoadSPGame      Type = "load_sp_game"
	TypeEndGame         Type = "end_game"
	TypeSaveGameRequest Type = "save_game_request"
	TypeClientSaveData  Type = "client_save_data"
)

// Server-to-client messages.
const (
	TypeHostMPAck          Type = "host_mp_ack"
	TypeHostSPAck          Type = "host_sp_ack"
	TypeJoinAck            Type = "join_ack"
	TypeServerLobbyUpdate  Type = "server_lobby_update"
	TypeServerLobbyChat    Type = "server_lobby_chat"
	TypeServerLobbyAbort   Type = "server_lobby_host_abort"
	TypeServerLobbyExit    Type = "server_lobby_exit"
	TypeGameStart          Type = "game_start"
	TypeTurnProgress       Type = "turn_progress"
	TypeDispatchObjectID   Type = "dispatch_object_id"
	TypeServerSaveGame     Type = "server_save_game"
	TypeChat               Type = "chat"
	TypePlayerDisconnected Type = "player_disconnected"
	TypeServerEndGame      Type = "server_end_game"
	TypeServerDying        Type = "server_dying"
)

// Broadcast is the receiver value meaning "everyone except the sender".
const Broadcast = -1

// HostPlayerID is the player ID reserved for the session host.
const HostPlayerID = 0

// InvalidPlayerID marks a connection that has not been established yet.
const InvalidPlayerID = -1

// Message is the wire envelope for every exchange with a client.
type Message struct {
	Type     Type            `json:"type"`
	Sender   int             `json:"sender"`
	Receiver int             `json:"receiver"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// New builds a message, encoding the payload as JSON. A nil payload produces
// an empty envelope body.
func New(t Type, sender, receiver int, payload any) Message {
	msg := Message{Type: t, Sender: sender, Receiver: receiver}
	if payload != nil {
		data, _ := json.Marshal(payload)
		msg.Payload = data
	}
	return msg
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// NamePayload carries a single player name (host and join requests).
type NamePayload struct {
	PlayerName string `json:"player_name"`
}

// AckPayload carries the player ID assigned by the server.
type AckPayload struct {
	PlayerID int `json:"player_id"`
}

// TextPayload carries free-form text (chat, filenames).
type TextPayload struct {
	Text string `json:"text"`
}

// ChatPayload is a relayed chat line, tagged with the sender's empire color
// once the game is underway.
type ChatPayload struct {
	From    string     `json:"from"`
	Text    string     `json:"text"`
	Whisper bool       `json:"whisper,omitempty"`
	Color   game.Color `json:"color"`
}

// TurnProgressPayload signals a turn-phase change to clients.
type TurnProgressPayload struct {
	Phase string `json:"phase"`
	Turn  int    `json:"turn"`
}

// ObjectIDPayload carries a freshly allocated universe object ID.
type ObjectIDPayload struct {
	ObjectID int `json:"object_id"`
}

// ClientSaveDataPayload is a client's answer to a save-data request. UIData
// stays raw: a snapshot that fails to parse is dropped, not fatal.
type ClientSaveDataPayload struct {
	Orders game.OrderSet   `json:"orders"`
	UIData json.RawMessage `json:"ui_data,omitempty"`
}

// GameStartPayload hands a client everything it needs to enter active play:
// its empire, the universe, the current turn, and (after a load) the orders
// it had submitted when the game was saved.
type GameStartPayload struct {
	Turn         int            `json:"turn"`
	EmpireID     int            `json:"empire_id"`
	SinglePlayer bool           `json:"single_player"`
	Universe     *game.Universe `json:"universe"`
	Orders       game.OrderSet  `json:"orders,omitempty"`
}

// Turn-progress phases.
const (
	// WaitingForPlayers is sent after a player's orders were accepted while
	// other empires are still due.
	WaitingForPlayers = "waiting_for_players"
	// NewTurn is sent when all orders were processed and a new turn begins.
	NewTurn = "new_turn"
)
