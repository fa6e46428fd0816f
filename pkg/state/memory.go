package state

import (
	"errors"
	"fmt"
	"sync"

	gametypes "github.com/colevans/resistance/pkg/game/types"
)

// ErrSessionNotFound is returned when a session id has no live session.
var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	lock    sync.Mutex
	session *gametypes.GameSession
}

// InMemorySessionManager holds all live sessions in process memory with a
// mutex per session. The sessions map itself is guarded separately so
// lookups never contend with in-flight game operations.
type InMemorySessionManager struct {
	lock     sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewInMemorySessionManager() *InMemorySessionManager {
	return &InMemorySessionManager{
		sessions: make(map[string]*sessionEntry),
	}
}

func (m *InMemorySessionManager) Create(session *gametypes.GameSession) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, exists := m.sessions[session.SessionID]; exists {
		return fmt.Errorf("session %s already exists", session.SessionID)
	}
	m.sessions[session.SessionID] = &sessionEntry{session: session}
	return nil
}

func (m *InMemorySessionManager) Get(sessionID string) (*gametypes.GameSession, error) {
	entry, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	entry.lock.Lock()
	defer entry.lock.Unlock()
	return entry.session.Clone(), nil
}

func (m *InMemorySessionManager) Apply(sessionID string, fn func(*gametypes.GameSession) error) (*gametypes.GameSession, error) {
	entry, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	entry.lock.Lock()
	defer entry.lock.Unlock()
	if err := fn(entry.session); err != nil {
		return nil, err
	}
	return entry.session.Clone(), nil
}

func (m *InMemorySessionManager) Delete(sessionID string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.sessions, sessionID)
}

func (m *InMemorySessionManager) SessionIDs() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (m *InMemorySessionManager) entry(sessionID string) (*sessionEntry, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	entry, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}
