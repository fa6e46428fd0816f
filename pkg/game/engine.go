package game

import (
	"math/rand"
	"strings"
	"time"

	gametypes "github.com/colevans/resistance/pkg/game/types"
)

// Engine applies game operations to a session. It performs no I/O and holds
// no session state of its own; callers are responsible for serializing
// concurrent operations against the same session (see pkg/state).
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an Engine with a time-seeded random source.
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource creates an Engine with the given random source.
// Tests use this for deterministic role assignment.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// AddPlayer joins a player to the session. Names match case-insensitively.
// Rejoining a disconnected player reattaches its connection id; rejoining a
// connected player requires forceRejoin. New players are rejected once the
// game has started or the session is full.
func (e *Engine) AddPlayer(s *gametypes.GameSession, connectionID, name string, forceRejoin bool) error {
	name, err := gametypes.NormalizeName(name)
	if err != nil {
		return err
	}

	if existing := s.FindPlayer(name); existing != nil {
		if existing.ConnectionID != "" && !forceRejoin {
			return gametypes.ErrAlreadyConnected
		}
		existing.ConnectionID = connectionID
		return nil
	}

	if s.Started {
		return gametypes.ErrGameAlreadyStarted
	}
	if s.NumPlayers() >= gametypes.MaxPlayers {
		return gametypes.ErrGameFull
	}

	s.Players = append(s.Players, &gametypes.Player{Name: name, ConnectionID: connectionID})
	return nil
}

// AttachConsole binds a shared display connection to the session.
func (e *Engine) AttachConsole(s *gametypes.GameSession, connectionID string) {
	s.ConsoleID = connectionID
}

// StartGame assigns roles, picks a random starting captain and enters the
// RevealRoles phase. Player order is fixed from this point on.
func (e *Engine) StartGame(s *gametypes.GameSession) error {
	if s.Started {
		return gametypes.ErrGameAlreadyStarted
	}
	if s.NumPlayers() < gametypes.MinPlayers {
		return gametypes.ErrNotEnoughPlayers
	}

	if err := assignRoles(s, e.rng); err != nil {
		return err
	}
	sizes, err := gametypes.MissionSizes(s.NumPlayers())
	if err != nil {
		return err
	}
	s.Board = sizes[:]

	s.Started = true
	s.CaptainIndex = e.rng.Intn(s.NumPlayers())
	s.Round = 0
	s.FailedVoteCounter = 0
	s.Phase = gametypes.RevealRolesPhase()
	return nil
}

// ProposeTeam validates the captain's proposed mission team against the
// required size for the current round and opens a vote ballot keyed by
// every player's name.
func (e *Engine) ProposeTeam(s *gametypes.GameSession, names []string) error {
	if s.Phase.Kind != gametypes.PhaseBuildingTeam {
		return gametypes.ErrWrongPhase
	}

	required, err := gametypes.MissionSize(s.NumPlayers(), s.Round)
	if err != nil {
		return err
	}
	if len(names) != required {
		return gametypes.ErrInvalidTeamSize
	}

	team := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		player := s.FindPlayer(name)
		if player == nil {
			return gametypes.ErrUnknownPlayer
		}
		if seen[player.Name] {
			return gametypes.ErrInvalidTeamSize
		}
		seen[player.Name] = true
		team = append(team, player.Name)
	}

	s.Phase = gametypes.VotingPhase(team, s.PlayerNames())
	return nil
}

// CastVote records a player's approve/reject vote on the proposed team.
// Re-voting before the ballot completes overwrites the prior vote. Once
// every vote is in, the team is approved iff approvals strictly outnumber
// rejections, and the session enters the transient ShowVoteResults phase.
func (e *Engine) CastVote(s *gametypes.GameSession, playerName string, approve bool) error {
	if s.Phase.Kind != gametypes.PhaseVoting {
		return gametypes.ErrWrongPhase
	}

	vote := s.Phase.Vote
	key, ok := ballotKey(vote.Ballot, playerName)
	if !ok {
		return gametypes.ErrUnknownPlayer
	}
	if approve {
		vote.Ballot[key] = gametypes.VoteApprove
	} else {
		vote.Ballot[key] = gametypes.VoteReject
	}

	approvals, rejections := 0, 0
	for _, v := range vote.Ballot {
		switch v {
		case gametypes.VoteApprove:
			approvals++
		case gametypes.VoteReject:
			rejections++
		default:
			return nil // ballot incomplete, no phase change
		}
	}

	vote.Approved = approvals > rejections
	s.Phase.Kind = gametypes.PhaseShowVoteResults
	return nil
}

// SubmitMissionResult records a team member's success/fail submission.
// A mission succeeds iff no fails were submitted, except on the final round
// with 7 or more players, where a single fail is tolerated. Once every
// submission is in, the session enters the transient ShowMissionResults phase.
func (e *Engine) SubmitMissionResult(s *gametypes.GameSession, playerName string, success bool) error {
	if s.Phase.Kind != gametypes.PhaseConductingMission {
		return gametypes.ErrWrongPhase
	}

	mission := s.Phase.Mission
	key, ok := ballotKey(mission.Ballot, playerName)
	if !ok {
		return gametypes.ErrNotOnMission
	}
	if success {
		mission.Ballot[key] = gametypes.OutcomeSuccess
	} else {
		mission.Ballot[key] = gametypes.OutcomeFail
	}

	fails := 0
	for _, v := range mission.Ballot {
		switch v {
		case gametypes.OutcomeFail:
			fails++
		case gametypes.OutcomeUnset:
			return nil // submissions incomplete, no phase change
		}
	}

	tolerated := 0
	if s.Round == gametypes.RoundCount-1 && s.NumPlayers() >= 7 {
		tolerated = 1
	}
	if fails <= tolerated {
		mission.Outcome = gametypes.OutcomeSuccess
	} else {
		mission.Outcome = gametypes.OutcomeFail
	}
	s.Phase.Kind = gametypes.PhaseShowMissionResults
	return nil
}

// AdvanceDisplay moves the session out of a transient display phase. The
// collaborator layer calls this on a timer after the display delay; it is
// the only way forward out of RevealRoles, ShowVoteResults and
// ShowMissionResults.
func (e *Engine) AdvanceDisplay(s *gametypes.GameSession) error {
	switch s.Phase.Kind {
	case gametypes.PhaseRevealRoles:
		s.Phase = gametypes.BuildingTeamPhase()
		return nil
	case gametypes.PhaseShowVoteResults:
		vote := s.Phase.Vote
		if vote.Approved {
			s.FailedVoteCounter = 0
			s.Phase = gametypes.ConductingMissionPhase(vote.Team)
		} else {
			s.FailedVoteCounter++
			e.rotateCaptain(s)
			s.Phase = gametypes.BuildingTeamPhase()
		}
		return nil
	case gametypes.PhaseShowMissionResults:
		return e.completeMission(s)
	default:
		return gametypes.ErrWrongPhase
	}
}

// completeMission writes the mission outcome slot, evaluates the win
// condition and either ends the game or starts the next round.
func (e *Engine) completeMission(s *gametypes.GameSession) error {
	if s.MissionOutcomes[s.Round] != gametypes.OutcomeUnset {
		return gametypes.ErrWrongPhase
	}
	s.MissionOutcomes[s.Round] = s.Phase.Mission.Outcome

	if winner := evaluateWinner(s.MissionOutcomes); winner != gametypes.WinnerNone {
		s.Winner = winner
		s.Phase = gametypes.GameOverPhase()
		return nil
	}

	e.rotateCaptain(s)
	s.Round++
	s.FailedVoteCounter = 0
	s.Phase = gametypes.BuildingTeamPhase()
	return nil
}

// Disconnect clears the connection id of whichever player or console owns
// the connection. It reports whether the session changed. The player stays
// in the game and can rejoin later.
func (e *Engine) Disconnect(s *gametypes.GameSession, connectionID string) bool {
	changed := false
	if s.ConsoleID == connectionID {
		s.ConsoleID = ""
		changed = true
	}
	for _, p := range s.Players {
		if p.ConnectionID == connectionID {
			p.ConnectionID = ""
			changed = true
		}
	}
	return changed
}

// rotateCaptain advances the captain index with wraparound.
func (e *Engine) rotateCaptain(s *gametypes.GameSession) {
	s.CaptainIndex = (s.CaptainIndex + 1) % s.NumPlayers()
}

// evaluateWinner checks the cumulative mission outcomes for a three
// success or three fail terminus.
func evaluateWinner(outcomes [gametypes.RoundCount]gametypes.Outcome) gametypes.Winner {
	successes, fails := 0, 0
	for _, o := range outcomes {
		switch o {
		case gametypes.OutcomeSuccess:
			successes++
		case gametypes.OutcomeFail:
			fails++
		}
	}
	if successes >= 3 {
		return gametypes.WinnerResistance
	}
	if fails >= 3 {
		return gametypes.WinnerSpies
	}
	return gametypes.WinnerNone
}

// ballotKey resolves a player name to its canonical ballot key,
// matching case-insensitively.
func ballotKey[V any](ballot map[string]V, name string) (string, bool) {
	if _, ok := ballot[name]; ok {
		return name, true
	}
	for key := range ballot {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}
