package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Protocol errors
	CodeEventNotAllowed    Code = "EVENT_NOT_ALLOWED_IN_STATE"
	CodeNotHost            Code = "NOT_HOST"
	CodeOrderIssuerInvalid Code = "ORDER_ISSUER_INVALID"
	CodeJoinRefused        Code = "JOIN_REFUSED"
	CodeGrantInvalid       Code = "JOIN_GRANT_INVALID"
	CodeGrantMismatch      Code = "JOIN_GRANT_MISMATCH"

	// Session errors
	CodeHostLost      Code = "HOST_CONNECTION_LOST"
	CodeNoHumansLeft  Code = "NO_HUMAN_PLAYERS_LEFT"
	CodePlayerUnknown Code = "PLAYER_UNKNOWN"

	// Save/load errors
	CodeSaveFileInvalid Code = "SAVE_FILE_INVALID"
	CodeSaveIncomplete  Code = "SAVE_BUNDLE_INCOMPLETE"
	CodeUIDataInvalid   Code = "UI_DATA_INVALID"

	// Lobby errors
	CodeLobbyFieldImmutable Code = "LOBBY_FIELD_IMMUTABLE"
	CodeSaveIndexOutOfRange Code = "SAVE_INDEX_OUT_OF_RANGE"
)

// Disposition tells the session automaton how to treat a failure.
type Disposition int

const (
	// DiscardEvent logs the failure and drops the triggering event.
	DiscardEvent Disposition = iota
	// DropConnection forcibly disconnects the offending peer.
	DropConnection
	// EndSession terminates the whole game session.
	EndSession
)

// Disposition maps domain codes to the automaton's reaction.
//
// Protocol violations are fatal to the offending connection, host loss is
// fatal to the session, and everything else is logged and discarded.
func (c Code) Disposition() Disposition {
	switch c {
	case CodeNotHost,
		CodeOrderIssuerInvalid,
		CodeJoinRefused,
		CodeGrantInvalid,
		CodeGrantMismatch:
		return DropConnection

	case CodeHostLost,
		CodeNoHumansLeft:
		return EndSession

	default:
		return DiscardEvent
	}
}
