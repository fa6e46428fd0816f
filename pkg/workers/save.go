package workers

import (
	"context"
	"time"

	gametypes "github.com/colevans/resistance/pkg/game/types"
	"github.com/colevans/resistance/pkg/log"
	"github.com/colevans/resistance/pkg/repositories"
)

const (
	// saveMaxAttempts bounds retries of a transient store failure
	saveMaxAttempts = 3
	// saveRetryBackoff is the delay between save attempts
	saveRetryBackoff = 250 * time.Millisecond
)

// SaveSessionWorker persists session snapshots emitted by the game manager.
// Store failures are transient: the write is retried with the snapshot
// unchanged, and the engine state is never affected.
type SaveSessionWorker struct {
	repository repositories.Repository
	saveChan   <-chan *gametypes.GameSession
}

type NewSaveSessionWorkerOptions struct {
	Repository repositories.Repository
	SaveChan   <-chan *gametypes.GameSession
}

func NewSaveSessionWorker(opts NewSaveSessionWorkerOptions) *SaveSessionWorker {
	return &SaveSessionWorker{
		repository: opts.Repository,
		saveChan:   opts.SaveChan,
	}
}

func (w *SaveSessionWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot := <-w.saveChan:
			w.saveSession(ctx, snapshot)
		}
	}
}

func (w *SaveSessionWorker) saveSession(ctx context.Context, snapshot *gametypes.GameSession) {
	var err error
	for attempt := 1; attempt <= saveMaxAttempts; attempt++ {
		if err = w.repository.SaveSession(ctx, snapshot); err == nil {
			return
		}
		log.Warn("Failed to save session %s (attempt %d/%d): %v", snapshot.SessionID, attempt, saveMaxAttempts, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(saveRetryBackoff):
		}
	}
	log.Error("Giving up saving session %s: %v", snapshot.SessionID, err)
}
