package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gametypes "github.com/colevans/resistance/pkg/game/types"
	"github.com/colevans/resistance/pkg/log"
	"github.com/colevans/resistance/pkg/messages"
	"github.com/colevans/resistance/pkg/network"
	"github.com/colevans/resistance/pkg/queue"
	"github.com/colevans/resistance/pkg/state"
)

const (
	// DefaultDisplayDuration is how long transient display phases are shown
	// before the session auto-advances.
	DefaultDisplayDuration = 5 * time.Second
)

// Manager drives all sessions: it consumes client actions from the action
// queue, applies engine operations through the session manager and hands
// the resulting snapshots to the broadcast and save workers. Transient
// display phases are advanced by a scheduled task rather than a blocking
// wait, so the session lock is never held across the display delay.
type Manager struct {
	engine          *Engine
	sessionManager  state.SessionManager
	clientManager   *network.ClientManager
	actionQueue     queue.Queue
	snapshotChan    chan<- *gametypes.GameSession
	saveChan        chan<- *gametypes.GameSession
	displayDuration time.Duration
}

// NewManagerOptions contains options for creating a new Manager.
type NewManagerOptions struct {
	Engine          *Engine
	SessionManager  state.SessionManager
	ClientManager   *network.ClientManager
	ActionQueue     queue.Queue
	SnapshotChan    chan<- *gametypes.GameSession
	SaveChan        chan<- *gametypes.GameSession
	DisplayDuration time.Duration
}

func NewManager(opts NewManagerOptions) *Manager {
	displayDuration := opts.DisplayDuration
	if displayDuration <= 0 {
		displayDuration = DefaultDisplayDuration
	}
	return &Manager{
		engine:          opts.Engine,
		sessionManager:  opts.SessionManager,
		clientManager:   opts.ClientManager,
		actionQueue:     opts.ActionQueue,
		snapshotChan:    opts.SnapshotChan,
		saveChan:        opts.SaveChan,
		displayDuration: displayDuration,
	}
}

// disconnectEvent is queued when a connection closes.
type disconnectEvent struct {
	ConnectionID string
}

// advanceDisplayEvent is queued by the display timer to move a session out
// of a transient phase. From guards against a stale timer firing after the
// session has already moved on.
type advanceDisplayEvent struct {
	SessionID string
	From      gametypes.PhaseKind
}

// Start processes queued actions until the context is cancelled.
func (m *Manager) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-m.actionQueue.Events():
			switch event := item.(type) {
			case *messages.Message:
				m.handleClientMessage(ctx, event)
			case *disconnectEvent:
				m.handleDisconnect(ctx, event.ConnectionID)
			case *advanceDisplayEvent:
				m.handleAdvanceDisplay(ctx, event)
			default:
				log.Error("Unknown action type: %T", item)
			}
		}
	}
}

// HandleMessage enqueues a client message for processing.
func (m *Manager) HandleMessage(_ context.Context, msg *messages.Message) {
	if err := m.actionQueue.Enqueue(msg); err != nil {
		log.Error("Failed to enqueue client message: %v", err)
	}
}

// HandleDisconnect enqueues a disconnect event for processing.
func (m *Manager) HandleDisconnect(connectionID string) {
	if err := m.actionQueue.Enqueue(&disconnectEvent{ConnectionID: connectionID}); err != nil {
		log.Error("Failed to enqueue disconnect event: %v", err)
	}
}

func (m *Manager) handleClientMessage(ctx context.Context, msg *messages.Message) {
	var err error
	switch msg.Type {
	case messages.MessageTypeClientCreateSession:
		err = m.handleCreateSession(ctx, msg)
	case messages.MessageTypeClientJoinSession:
		err = m.handleJoinSession(ctx, msg)
	case messages.MessageTypeClientAttachConsole:
		err = m.handleAttachConsole(ctx, msg)
	case messages.MessageTypeClientStartGame:
		err = m.handleStartGame(ctx, msg)
	case messages.MessageTypeClientProposeTeam:
		err = m.handleProposeTeam(ctx, msg)
	case messages.MessageTypeClientCastVote:
		err = m.handleCastVote(ctx, msg)
	case messages.MessageTypeClientSubmitMission:
		err = m.handleSubmitMission(ctx, msg)
	case messages.MessageTypeClientGetState:
		err = m.handleGetState(ctx, msg)
	default:
		err = fmt.Errorf("unknown message type: %s", msg.Type)
	}
	if err != nil {
		log.Debug("Action %s from %s failed: %v", msg.Type, msg.ConnectionID, err)
		m.sendError(ctx, msg.ConnectionID, err)
	}
}

func (m *Manager) handleCreateSession(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientCreateSession{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal create session payload: %v", err)
	}

	session, err := gametypes.NewSession(payload.SessionID, msg.ConnectionID, payload.PlayerName)
	if err != nil {
		return err
	}
	// The creating connection doubles as the session's shared display.
	m.engine.AttachConsole(session, msg.ConnectionID)

	if err := m.sessionManager.Create(session); err != nil {
		return err
	}
	if err := m.clientManager.BindSession(msg.ConnectionID, session.SessionID); err != nil {
		return err
	}

	log.Info("Session %s created by %s", session.SessionID, msg.ConnectionID)
	m.publish(session.Clone())
	return nil
}

func (m *Manager) handleJoinSession(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientJoinSession{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal join session payload: %v", err)
	}

	snapshot, err := m.sessionManager.Apply(payload.SessionID, func(s *gametypes.GameSession) error {
		return m.engine.AddPlayer(s, msg.ConnectionID, payload.PlayerName, payload.ForceRejoin)
	})
	if err != nil {
		return err
	}
	if err := m.clientManager.BindSession(msg.ConnectionID, payload.SessionID); err != nil {
		return err
	}

	m.publish(snapshot)
	return nil
}

func (m *Manager) handleAttachConsole(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientAttachConsole{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal attach console payload: %v", err)
	}

	snapshot, err := m.sessionManager.Apply(payload.SessionID, func(s *gametypes.GameSession) error {
		m.engine.AttachConsole(s, msg.ConnectionID)
		return nil
	})
	if err != nil {
		return err
	}
	if err := m.clientManager.BindSession(msg.ConnectionID, payload.SessionID); err != nil {
		return err
	}

	m.publish(snapshot)
	return nil
}

func (m *Manager) handleStartGame(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientStartGame{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal start game payload: %v", err)
	}

	snapshot, err := m.sessionManager.Apply(payload.SessionID, func(s *gametypes.GameSession) error {
		return m.engine.StartGame(s)
	})
	if err != nil {
		return err
	}

	log.Info("Session %s started with %d players", snapshot.SessionID, snapshot.NumPlayers())
	m.publish(snapshot)
	m.scheduleAdvance(snapshot)
	return nil
}

func (m *Manager) handleProposeTeam(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientProposeTeam{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal propose team payload: %v", err)
	}

	snapshot, err := m.sessionManager.Apply(payload.SessionID, func(s *gametypes.GameSession) error {
		return m.engine.ProposeTeam(s, payload.Team)
	})
	if err != nil {
		return err
	}

	m.publish(snapshot)
	return nil
}

func (m *Manager) handleCastVote(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientCastVote{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal cast vote payload: %v", err)
	}

	snapshot, err := m.sessionManager.Apply(payload.SessionID, func(s *gametypes.GameSession) error {
		return m.engine.CastVote(s, payload.PlayerName, payload.Approve)
	})
	if err != nil {
		return err
	}

	m.publish(snapshot)
	m.scheduleAdvance(snapshot)
	return nil
}

func (m *Manager) handleSubmitMission(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientSubmitMission{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal submit mission payload: %v", err)
	}

	snapshot, err := m.sessionManager.Apply(payload.SessionID, func(s *gametypes.GameSession) error {
		return m.engine.SubmitMissionResult(s, payload.PlayerName, payload.Success)
	})
	if err != nil {
		return err
	}

	m.publish(snapshot)
	m.scheduleAdvance(snapshot)
	return nil
}

func (m *Manager) handleGetState(ctx context.Context, msg *messages.Message) error {
	payload := &messages.ClientGetState{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal get state payload: %v", err)
	}

	snapshot, err := m.sessionManager.Get(payload.SessionID)
	if err != nil {
		return err
	}

	m.snapshotChan <- snapshot
	return nil
}

func (m *Manager) handleDisconnect(ctx context.Context, connectionID string) {
	sessionID, ok := m.clientManager.SessionFor(connectionID)
	if !ok {
		return
	}

	snapshot, err := m.sessionManager.Apply(sessionID, func(s *gametypes.GameSession) error {
		if !m.engine.Disconnect(s, connectionID) {
			return fmt.Errorf("connection %s not attached to session %s", connectionID, sessionID)
		}
		return nil
	})
	if err != nil {
		log.Debug("Disconnect of %s from session %s: %v", connectionID, sessionID, err)
		return
	}

	log.Info("Connection %s disconnected from session %s", connectionID, sessionID)
	m.publish(snapshot)
}

func (m *Manager) handleAdvanceDisplay(ctx context.Context, event *advanceDisplayEvent) {
	snapshot, err := m.sessionManager.Apply(event.SessionID, func(s *gametypes.GameSession) error {
		if s.Phase.Kind != event.From {
			return gametypes.ErrWrongPhase
		}
		return m.engine.AdvanceDisplay(s)
	})
	if err != nil {
		log.Warn("Failed to advance session %s out of %s: %v", event.SessionID, event.From, err)
		return
	}

	if snapshot.Phase.Kind == gametypes.PhaseGameOver {
		log.Info("Session %s over, winner: %s", snapshot.SessionID, snapshot.Winner)
	}
	m.publish(snapshot)
	m.scheduleAdvance(snapshot)
}

// scheduleAdvance arms the display timer when the snapshot is in a
// transient phase. The timer enqueues an advance event instead of touching
// the session directly, so the session lock is not held while waiting.
func (m *Manager) scheduleAdvance(snapshot *gametypes.GameSession) {
	if !snapshot.Phase.Kind.IsTransient() {
		return
	}

	event := &advanceDisplayEvent{
		SessionID: snapshot.SessionID,
		From:      snapshot.Phase.Kind,
	}
	time.AfterFunc(m.displayDuration, func() {
		if err := m.actionQueue.Enqueue(event); err != nil {
			log.Error("Failed to enqueue display advance for session %s: %v", event.SessionID, err)
		}
	})
}

// publish hands a snapshot to the broadcast and save workers.
func (m *Manager) publish(snapshot *gametypes.GameSession) {
	m.snapshotChan <- snapshot
	m.saveChan <- snapshot.Clone()
}

func (m *Manager) sendError(ctx context.Context, connectionID string, actionErr error) {
	payload, err := json.Marshal(&messages.ServerError{Message: actionErr.Error()})
	if err != nil {
		log.Error("Failed to marshal error payload: %v", err)
		return
	}
	data, err := messages.SerializeMessage(&messages.Message{
		Type:    messages.MessageTypeServerError,
		Payload: payload,
	})
	if err != nil {
		log.Error("Failed to serialize error message: %v", err)
		return
	}
	if err := m.clientManager.SendToConnection(ctx, connectionID, data); err != nil {
		log.Debug("Failed to send error to %s: %v", connectionID, err)
	}
}
