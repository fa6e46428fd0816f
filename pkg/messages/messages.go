package messages

import (
	"encoding/json"

	gametypes "github.com/colevans/resistance/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1024
)

// Message types
const (
	MessageTypeClientCreateSession = "create_session"
	MessageTypeClientJoinSession   = "join_session"
	MessageTypeClientAttachConsole = "attach_console"
	MessageTypeClientStartGame     = "start_game"
	MessageTypeClientProposeTeam   = "propose_team"
	MessageTypeClientCastVote      = "cast_vote"
	MessageTypeClientSubmitMission = "submit_mission"
	MessageTypeClientGetState      = "get_state"
	MessageTypeServerSessionUpdate = "session_update"
	MessageTypeServerError         = "error"
)

// Message represents a generic message for serialization/deserialization.
// ConnectionID is assigned by the server when the message is read off a
// connection; clients never set it themselves.
type Message struct {
	ConnectionID string          `json:"connectionId,omitempty"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// ClientCreateSession seeds a new session with the sender as host. The
// sender's connection becomes the session's console display.
type ClientCreateSession struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
}

// ClientJoinSession joins (or rejoins) a session as a named player.
type ClientJoinSession struct {
	SessionID   string `json:"sessionId"`
	PlayerName  string `json:"playerName"`
	ForceRejoin bool   `json:"forceRejoin,omitempty"`
}

// ClientAttachConsole binds the sender's connection as the session's
// shared display.
type ClientAttachConsole struct {
	SessionID string `json:"sessionId"`
}

// ClientStartGame starts the game once enough players have joined.
type ClientStartGame struct {
	SessionID string `json:"sessionId"`
}

// ClientProposeTeam is the captain's proposed mission team.
type ClientProposeTeam struct {
	SessionID string   `json:"sessionId"`
	Team      []string `json:"team"`
}

// ClientCastVote is a player's approve/reject vote on the proposed team.
type ClientCastVote struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
	Approve    bool   `json:"approve"`
}

// ClientSubmitMission is a team member's success/fail mission submission.
type ClientSubmitMission struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
	Success    bool   `json:"success"`
}

// ClientGetState requests a rebroadcast of the session state.
type ClientGetState struct {
	SessionID string `json:"sessionId"`
}

// ServerSessionUpdate carries a session snapshot to every connection in the
// session. Rerender tells the client to redraw from the snapshot.
type ServerSessionUpdate struct {
	Session  *gametypes.GameSession `json:"session"`
	Rerender bool                   `json:"rerender"`
}

// ServerError reports a failed action back to the sender.
type ServerError struct {
	Message string `json:"message"`
}
