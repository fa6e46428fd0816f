package state

import (
	"errors"
	"sync"
	"testing"

	gametypes "github.com/colevans/resistance/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, sessionID string) *gametypes.GameSession {
	t.Helper()
	session, err := gametypes.NewSession(sessionID, "conn-host", "HOST")
	require.NoError(t, err)
	return session
}

func TestCreateAndGet(t *testing.T) {
	m := NewInMemorySessionManager()
	require.NoError(t, m.Create(newSession(t, "session-1")))

	got, err := m.Get("session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, "HOST", got.Players[0].Name)

	assert.Error(t, m.Create(newSession(t, "session-1")), "duplicate id rejected")
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewInMemorySessionManager()
	require.NoError(t, m.Create(newSession(t, "session-1")))

	got, err := m.Get("session-1")
	require.NoError(t, err)
	got.Players[0].Name = "TAMPERED"

	again, err := m.Get("session-1")
	require.NoError(t, err)
	assert.Equal(t, "HOST", again.Players[0].Name)
}

func TestGetUnknownSession(t *testing.T) {
	m := NewInMemorySessionManager()
	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApply(t *testing.T) {
	m := NewInMemorySessionManager()
	require.NoError(t, m.Create(newSession(t, "session-1")))

	snapshot, err := m.Apply("session-1", func(s *gametypes.GameSession) error {
		s.Round = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.Round)

	got, err := m.Get("session-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Round)
}

func TestApplyErrorLeavesSessionUnmodified(t *testing.T) {
	m := NewInMemorySessionManager()
	require.NoError(t, m.Create(newSession(t, "session-1")))

	boom := errors.New("boom")
	_, err := m.Apply("session-1", func(s *gametypes.GameSession) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := m.Get("session-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Round)
}

func TestApplySerializesConcurrentMutations(t *testing.T) {
	m := NewInMemorySessionManager()
	require.NoError(t, m.Create(newSession(t, "session-1")))

	const workers = 16
	const increments = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				_, err := m.Apply("session-1", func(s *gametypes.GameSession) error {
					s.FailedVoteCounter++
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := m.Get("session-1")
	require.NoError(t, err)
	assert.Equal(t, workers*increments, got.FailedVoteCounter, "no increment lost")
}

func TestDeleteAndSessionIDs(t *testing.T) {
	m := NewInMemorySessionManager()
	require.NoError(t, m.Create(newSession(t, "session-1")))
	require.NoError(t, m.Create(newSession(t, "session-2")))

	assert.ElementsMatch(t, []string{"session-1", "session-2"}, m.SessionIDs())

	m.Delete("session-1")
	assert.ElementsMatch(t, []string{"session-2"}, m.SessionIDs())

	_, err := m.Get("session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
