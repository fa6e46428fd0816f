package repositories

import (
	"context"

	gametypes "github.com/colevans/resistance/pkg/game/types"
)

// Repository persists session snapshots keyed by session id. The engine
// never touches storage itself; the save worker writes snapshots after each
// successful mutation and retries transient failures.
type Repository interface {
	Close(ctx context.Context) error
	SaveSession(ctx context.Context, session *gametypes.GameSession) error
	LoadSession(ctx context.Context, sessionID string) (*gametypes.GameSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessionIDs(ctx context.Context) ([]string, error)
}
