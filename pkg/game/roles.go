package game

import (
	"math/rand"

	gametypes "github.com/colevans/resistance/pkg/game/types"
)

// assignRoles deals a uniformly random role assignment to the session's
// players and fills in the resistance and spy rosters. The shuffle is a
// Fisher-Yates permutation, so every assignment is equally likely.
func assignRoles(s *gametypes.GameSession, rng *rand.Rand) error {
	counts, err := gametypes.RolesForPlayerCount(s.NumPlayers())
	if err != nil {
		return err
	}

	roles := make([]bool, 0, s.NumPlayers())
	for i := 0; i < counts.Spies; i++ {
		roles = append(roles, true)
	}
	for i := 0; i < counts.Resistance; i++ {
		roles = append(roles, false)
	}
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	s.Resistance = nil
	s.Spies = nil
	for i, p := range s.Players {
		p.IsSpy = roles[i]
		if p.IsSpy {
			s.Spies = append(s.Spies, p.Name)
		} else {
			s.Resistance = append(s.Resistance, p.Name)
		}
	}
	return nil
}
