package types

import (
	"strings"
)

// Player is a named participant in a session. An empty ConnectionID means
// the player is temporarily disconnected, not removed.
type Player struct {
	Name         string `json:"name"`
	ConnectionID string `json:"connectionId,omitempty"`
	IsSpy        bool   `json:"isSpy"`
}

// GameSession is the root aggregate for one game instance. All mutations go
// through the engine operations and must be serialized per session by the
// caller (see pkg/state).
type GameSession struct {
	SessionID string `json:"sessionId"`
	// ConsoleID is the connection id of the session's shared display, if any.
	ConsoleID string `json:"consoleId,omitempty"`
	// Players in join order; the order fixes captain rotation once the game starts.
	Players           []*Player `json:"players"`
	Started           bool      `json:"started"`
	CaptainIndex      int       `json:"captainIndex"`
	Round             int       `json:"round"`
	FailedVoteCounter int       `json:"failedVoteCounter"`
	Resistance        []string  `json:"resistance"`
	Spies             []string  `json:"spies"`
	// Board holds the mission team size per round for this player count.
	Board           []int               `json:"board,omitempty"`
	MissionOutcomes [RoundCount]Outcome `json:"missionOutcomes"`
	Winner          Winner              `json:"winner,omitempty"`
	Phase           Phase               `json:"phase"`
}

// NewSession seeds a session with the host as its first player.
func NewSession(sessionID, hostConnectionID, hostName string) (*GameSession, error) {
	name, err := NormalizeName(hostName)
	if err != nil {
		return nil, err
	}
	return &GameSession{
		SessionID: sessionID,
		Players: []*Player{
			{Name: name, ConnectionID: hostConnectionID},
		},
		Phase: LobbyPhase(),
	}, nil
}

// NormalizeName uppercases a player name and rejects blank ones.
// Names are case-insensitive identifiers within a session.
func NormalizeName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", ErrNameBlank
	}
	return name, nil
}

// NumPlayers returns the number of players in the session.
func (s *GameSession) NumPlayers() int {
	return len(s.Players)
}

// PlayerNames returns the player names in join order.
func (s *GameSession) PlayerNames() []string {
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = p.Name
	}
	return names
}

// FindPlayer returns the player with the given name, matched case-insensitively.
func (s *GameSession) FindPlayer(name string) *Player {
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Captain returns the current captain.
func (s *GameSession) Captain() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	return s.Players[s.CaptainIndex]
}

// ConnectionIDs returns the connection ids of all currently connected
// players plus the session console, if attached.
func (s *GameSession) ConnectionIDs() []string {
	var ids []string
	if s.ConsoleID != "" {
		ids = append(ids, s.ConsoleID)
	}
	for _, p := range s.Players {
		if p.ConnectionID != "" {
			ids = append(ids, p.ConnectionID)
		}
	}
	return ids
}

// Clone returns a deep copy of the session. Engine callers hand copies to
// the persistence and broadcast layers so in-flight snapshots never alias
// the live session.
func (s *GameSession) Clone() *GameSession {
	copied := *s
	copied.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		player := *p
		copied.Players[i] = &player
	}
	copied.Resistance = append([]string(nil), s.Resistance...)
	copied.Spies = append([]string(nil), s.Spies...)
	copied.Board = append([]int(nil), s.Board...)
	copied.Phase = s.Phase.Clone()
	return &copied
}
