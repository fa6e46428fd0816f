package state

import (
	gametypes "github.com/colevans/resistance/pkg/game/types"
)

// SessionManager provides shared access to game sessions.
// Implementations must be thread-safe and must apply mutations to a given
// session atomically: the read of current state and the write of the updated
// state happen under a per-session serialization discipline, so concurrent
// actions from different players never drop a vote or mission submission.
// Different sessions are independent and may be mutated in parallel.
type SessionManager interface {
	// Create adds a new session. It fails if the session id already exists.
	Create(session *gametypes.GameSession) error
	// Get returns a deep copy of the session, or ErrSessionNotFound.
	Get(sessionID string) (*gametypes.GameSession, error)
	// Apply runs fn against the live session under the session's lock and
	// returns a deep copy of the resulting state. If fn returns an error
	// the session is left unmodified.
	Apply(sessionID string, fn func(*gametypes.GameSession) error) (*gametypes.GameSession, error)
	// Delete removes a session.
	Delete(sessionID string)
	// SessionIDs returns the ids of all live sessions.
	SessionIDs() []string
}
