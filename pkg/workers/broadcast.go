package workers

import (
	"context"
	"encoding/json"
	"fmt"

	gametypes "github.com/colevans/resistance/pkg/game/types"
	"github.com/colevans/resistance/pkg/log"
	"github.com/colevans/resistance/pkg/messages"
	"github.com/colevans/resistance/pkg/network"
)

// BroadcastSnapshotWorker delivers session snapshots to every connection
// currently associated with the session, including the console display.
type BroadcastSnapshotWorker struct {
	clientManager *network.ClientManager
	snapshotChan  <-chan *gametypes.GameSession
}

type NewBroadcastSnapshotWorkerOptions struct {
	ClientManager *network.ClientManager
	SnapshotChan  <-chan *gametypes.GameSession
}

func NewBroadcastSnapshotWorker(opts NewBroadcastSnapshotWorkerOptions) *BroadcastSnapshotWorker {
	return &BroadcastSnapshotWorker{
		clientManager: opts.ClientManager,
		snapshotChan:  opts.SnapshotChan,
	}
}

func (w *BroadcastSnapshotWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot := <-w.snapshotChan:
			if err := w.broadcast(ctx, snapshot); err != nil {
				log.Error("Failed to broadcast session %s: %v", snapshot.SessionID, err)
			}
		}
	}
}

func (w *BroadcastSnapshotWorker) broadcast(ctx context.Context, snapshot *gametypes.GameSession) error {
	payload, err := json.Marshal(&messages.ServerSessionUpdate{
		Session:  snapshot,
		Rerender: true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session update: %v", err)
	}

	data, err := messages.SerializeMessage(&messages.Message{
		Type:    messages.MessageTypeServerSessionUpdate,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize session update: %v", err)
	}

	for _, connectionID := range snapshot.ConnectionIDs() {
		if err := w.clientManager.SendToConnection(ctx, connectionID, data); err != nil {
			// The connection may have dropped since the snapshot was taken.
			log.Debug("Failed to send session %s update to %s: %v", snapshot.SessionID, connectionID, err)
		}
	}
	return nil
}
