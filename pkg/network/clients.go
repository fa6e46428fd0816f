package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Connection represents a connected client.
type Connection struct {
	ID        string
	SessionID string // empty until the connection joins or creates a session
	wsConn    *websocket.Conn
	writeLock sync.Mutex // serializes writes to the underlying conn
}

// ClientManager is the connection directory: it tracks live connections and
// their session bindings so broadcasts can be fanned out by connection id.
type ClientManager struct {
	connections map[string]*Connection
	lock        sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		connections: make(map[string]*Connection),
	}
}

// AddConnection registers a websocket connection and returns its new
// connection id.
func (cm *ClientManager) AddConnection(wsConn *websocket.Conn) string {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	connectionID := uuid.NewString()
	cm.connections[connectionID] = &Connection{
		ID:     connectionID,
		wsConn: wsConn,
	}
	return connectionID
}

// RemoveConnection removes a connection from the directory.
func (cm *ClientManager) RemoveConnection(connectionID string) {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	delete(cm.connections, connectionID)
}

// BindSession associates a connection with a session.
func (cm *ClientManager) BindSession(connectionID, sessionID string) error {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	conn, ok := cm.connections[connectionID]
	if !ok {
		return fmt.Errorf("unknown connection: %s", connectionID)
	}
	conn.SessionID = sessionID
	return nil
}

// SessionFor returns the session id a connection is bound to.
func (cm *ClientManager) SessionFor(connectionID string) (string, bool) {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	conn, ok := cm.connections[connectionID]
	if !ok || conn.SessionID == "" {
		return "", false
	}
	return conn.SessionID, true
}

// Exists reports whether a connection id is live.
func (cm *ClientManager) Exists(connectionID string) bool {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	_, ok := cm.connections[connectionID]
	return ok
}

// SendToConnection writes raw bytes to a single connection. Writes to the
// same connection are serialized.
func (cm *ClientManager) SendToConnection(ctx context.Context, connectionID string, data []byte) error {
	cm.lock.RLock()
	conn, ok := cm.connections[connectionID]
	cm.lock.RUnlock()
	if !ok {
		return fmt.Errorf("unknown connection: %s", connectionID)
	}

	conn.writeLock.Lock()
	defer conn.writeLock.Unlock()
	if err := conn.wsConn.Write(ctx, websocket.MessageBinary, data); err != nil {
		return fmt.Errorf("failed to write to connection %s: %v", connectionID, err)
	}
	return nil
}
