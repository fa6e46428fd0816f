package types

// PhaseKind identifies the current stage of the per-session state machine.
type PhaseKind string

const (
	// PhaseLobby is the pre-game phase while players join
	PhaseLobby PhaseKind = "lobby"
	// PhaseRevealRoles is a transient phase showing each player their role
	PhaseRevealRoles PhaseKind = "reveal_roles"
	// PhaseBuildingTeam is when the captain proposes a mission team
	PhaseBuildingTeam PhaseKind = "building_team"
	// PhaseVoting is when all players approve or reject the proposed team
	PhaseVoting PhaseKind = "voting"
	// PhaseShowVoteResults is a transient phase displaying the final vote ballot
	PhaseShowVoteResults PhaseKind = "show_vote_results"
	// PhaseConductingMission is when team members submit success or fail
	PhaseConductingMission PhaseKind = "conducting_mission"
	// PhaseShowMissionResults is a transient phase displaying the mission ballot and outcome
	PhaseShowMissionResults PhaseKind = "show_mission_results"
	// PhaseGameOver is the terminal phase once a winner is decided
	PhaseGameOver PhaseKind = "game_over"
)

func (p PhaseKind) String() string {
	return string(p)
}

// IsTransient reports whether the phase is a display-only phase that
// auto-advances after a delay.
func (p PhaseKind) IsTransient() bool {
	switch p {
	case PhaseRevealRoles, PhaseShowVoteResults, PhaseShowMissionResults:
		return true
	}
	return false
}

// Vote is a single entry on a team vote ballot.
type Vote string

const (
	VoteUnset   Vote = ""
	VoteApprove Vote = "approve"
	VoteReject  Vote = "reject"
)

// Outcome is a mission result, used both for individual mission ballot
// entries and for the per-round mission outcome slots.
type Outcome string

const (
	OutcomeUnset   Outcome = ""
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
)

// Winner identifies which faction won the game.
type Winner string

const (
	WinnerNone       Winner = ""
	WinnerResistance Winner = "resistance"
	WinnerSpies      Winner = "spies"
)

// VoteState is the working state for the Voting and ShowVoteResults phases.
type VoteState struct {
	Team     []string        `json:"team"`
	Ballot   map[string]Vote `json:"ballot"`
	Approved bool            `json:"approved"` // decided when the phase moves to ShowVoteResults
}

// MissionState is the working state for the ConductingMission and
// ShowMissionResults phases.
type MissionState struct {
	Team    []string           `json:"team"`
	Ballot  map[string]Outcome `json:"ballot"`
	Outcome Outcome            `json:"outcome"` // decided when the phase moves to ShowMissionResults
}

// Phase is a tagged union: Kind selects the active variant and at most one
// of the state pointers is non-nil.
type Phase struct {
	Kind    PhaseKind     `json:"kind"`
	Vote    *VoteState    `json:"vote,omitempty"`
	Mission *MissionState `json:"mission,omitempty"`
}

func LobbyPhase() Phase {
	return Phase{Kind: PhaseLobby}
}

func RevealRolesPhase() Phase {
	return Phase{Kind: PhaseRevealRoles}
}

func BuildingTeamPhase() Phase {
	return Phase{Kind: PhaseBuildingTeam}
}

func VotingPhase(team []string, voters []string) Phase {
	ballot := make(map[string]Vote, len(voters))
	for _, name := range voters {
		ballot[name] = VoteUnset
	}
	return Phase{Kind: PhaseVoting, Vote: &VoteState{Team: team, Ballot: ballot}}
}

func ConductingMissionPhase(team []string) Phase {
	ballot := make(map[string]Outcome, len(team))
	for _, name := range team {
		ballot[name] = OutcomeUnset
	}
	return Phase{Kind: PhaseConductingMission, Mission: &MissionState{Team: team, Ballot: ballot}}
}

func GameOverPhase() Phase {
	return Phase{Kind: PhaseGameOver}
}

// Clone returns a deep copy of the phase working state.
func (p Phase) Clone() Phase {
	copied := Phase{Kind: p.Kind}
	if p.Vote != nil {
		ballot := make(map[string]Vote, len(p.Vote.Ballot))
		for k, v := range p.Vote.Ballot {
			ballot[k] = v
		}
		copied.Vote = &VoteState{
			Team:     append([]string(nil), p.Vote.Team...),
			Ballot:   ballot,
			Approved: p.Vote.Approved,
		}
	}
	if p.Mission != nil {
		ballot := make(map[string]Outcome, len(p.Mission.Ballot))
		for k, v := range p.Mission.Ballot {
			ballot[k] = v
		}
		copied.Mission = &MissionState{
			Team:    append([]string(nil), p.Mission.Team...),
			Ballot:  ballot,
			Outcome: p.Mission.Outcome,
		}
	}
	return copied
}
