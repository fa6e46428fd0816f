package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTeamSize is returned when a proposed team does not match the required mission size
	ErrInvalidTeamSize = errors.New("invalid team size")
	// ErrUnknownPlayer is returned when a player name is not on the current ballot
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNotOnMission is returned when a player submitting a mission result is not on the team
	ErrNotOnMission = errors.New("player is not on the mission")
	// ErrWrongPhase is returned when an action does not match the session's current phase
	ErrWrongPhase = errors.New("action not valid in current phase")
	// ErrNameBlank is returned when a join request carries a blank player name
	ErrNameBlank = errors.New("player name is blank")
	// ErrAlreadyConnected is returned when joining as a player that already has a live connection
	ErrAlreadyConnected = errors.New("player is already connected")
	// ErrGameAlreadyStarted is returned when a new player tries to join after game start
	ErrGameAlreadyStarted = errors.New("game has already started")
	// ErrGameFull is returned when a session already holds the maximum number of players
	ErrGameFull = errors.New("game is full")
	// ErrNotEnoughPlayers is returned when starting a game with fewer than the minimum players
	ErrNotEnoughPlayers = errors.New("not enough players to start")
)

// UnsupportedPlayerCountError indicates a player count outside the 5-10 range
// the role and mission tables are defined for. This is a configuration error,
// not a game rule.
type UnsupportedPlayerCountError struct {
	Count int
}

func (e *UnsupportedPlayerCountError) Error() string {
	return fmt.Sprintf("unsupported player count: %d", e.Count)
}
