package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolesForPlayerCount(t *testing.T) {
	for numPlayers := MinPlayers; numPlayers <= MaxPlayers; numPlayers++ {
		counts, err := RolesForPlayerCount(numPlayers)
		assert.NoError(t, err)
		assert.Equal(t, numPlayers, counts.Resistance+counts.Spies, "role counts must sum to player count %d", numPlayers)
		assert.Greater(t, counts.Resistance, counts.Spies, "resistance must outnumber spies for %d players", numPlayers)
	}
}

func TestRolesForPlayerCountUnsupported(t *testing.T) {
	for _, numPlayers := range []int{0, 1, 4, 11, 100} {
		_, err := RolesForPlayerCount(numPlayers)
		assert.Error(t, err)
		countErr, ok := err.(*UnsupportedPlayerCountError)
		assert.True(t, ok, "expected UnsupportedPlayerCountError for %d players", numPlayers)
		assert.Equal(t, numPlayers, countErr.Count)
	}
}

func TestMissionSizes(t *testing.T) {
	for numPlayers := MinPlayers; numPlayers <= MaxPlayers; numPlayers++ {
		sizes, err := MissionSizes(numPlayers)
		assert.NoError(t, err)
		for round, size := range sizes {
			assert.Greater(t, size, 0, "mission size for %d players round %d", numPlayers, round)
			assert.LessOrEqual(t, size, numPlayers)
		}
	}
}

func TestMissionSizesUnsupported(t *testing.T) {
	_, err := MissionSizes(4)
	assert.Error(t, err)
	_, err = MissionSize(11, 0)
	assert.Error(t, err)
}

func TestMissionSizeValues(t *testing.T) {
	tests := []struct {
		numPlayers int
		round      int
		want       int
	}{
		{numPlayers: 5, round: 0, want: 2},
		{numPlayers: 5, round: 2, want: 2},
		{numPlayers: 6, round: 2, want: 4},
		{numPlayers: 7, round: 4, want: 4},
		{numPlayers: 8, round: 0, want: 3},
		{numPlayers: 10, round: 4, want: 5},
	}
	for _, tt := range tests {
		got, err := MissionSize(tt.numPlayers, tt.round)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "mission size for %d players round %d", tt.numPlayers, tt.round)
	}
}
