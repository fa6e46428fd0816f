package types

const (
	// MinPlayers is the minimum number of players required to start a game
	MinPlayers = 5
	// MaxPlayers is the maximum number of players allowed in a session
	MaxPlayers = 10
	// RoundCount is the number of mission rounds in a game
	RoundCount = 5
)

// RoleCounts holds the number of resistance and spy roles for a player count.
type RoleCounts struct {
	Resistance int
	Spies      int
}

// roleTable maps player count to role counts.
var roleTable = map[int]RoleCounts{
	5:  {Resistance: 3, Spies: 2},
	6:  {Resistance: 4, Spies: 2},
	7:  {Resistance: 4, Spies: 3},
	8:  {Resistance: 5, Spies: 3},
	9:  {Resistance: 6, Spies: 3},
	10: {Resistance: 6, Spies: 4},
}

// missionTable maps player count to the mission team size for each round.
var missionTable = map[int][RoundCount]int{
	5:  {2, 3, 2, 3, 3},
	6:  {2, 3, 4, 3, 4},
	7:  {2, 3, 3, 4, 4},
	8:  {3, 4, 4, 5, 5},
	9:  {3, 4, 4, 5, 5},
	10: {3, 4, 4, 5, 5},
}

// RolesForPlayerCount returns the role counts for the given player count.
func RolesForPlayerCount(numPlayers int) (RoleCounts, error) {
	counts, ok := roleTable[numPlayers]
	if !ok {
		return RoleCounts{}, &UnsupportedPlayerCountError{Count: numPlayers}
	}
	return counts, nil
}

// MissionSizes returns the mission team sizes for all rounds for the given player count.
func MissionSizes(numPlayers int) ([RoundCount]int, error) {
	sizes, ok := missionTable[numPlayers]
	if !ok {
		return [RoundCount]int{}, &UnsupportedPlayerCountError{Count: numPlayers}
	}
	return sizes, nil
}

// MissionSize returns the mission team size for a single round.
func MissionSize(numPlayers, round int) (int, error) {
	sizes, err := MissionSizes(numPlayers)
	if err != nil {
		return 0, err
	}
	return sizes[round], nil
}
