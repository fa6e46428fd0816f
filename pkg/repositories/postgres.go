package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gametypes "github.com/colevans/resistance/pkg/game/types"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository creates a Repository backed by Postgres.
// It panics if it is unable to connect to the database.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) Repository {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		panic(fmt.Sprintf("Unable to connect to database: %v\n", err))
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		state JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`
	if _, err := conn.Exec(ctx, schema); err != nil {
		panic(fmt.Sprintf("Unable to create sessions table: %v\n", err))
	}

	return &PostgresRepository{
		conn: conn,
	}
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveSession(ctx context.Context, session *gametypes.GameSession) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	q := `
	INSERT INTO sessions (session_id, state, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (session_id) DO UPDATE SET state = $2, updated_at = $3;
	`
	if _, err := r.conn.Exec(ctx, q, session.SessionID, doc, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert session: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadSession(ctx context.Context, sessionID string) (*gametypes.GameSession, error) {
	var doc []byte
	q := `SELECT state FROM sessions WHERE session_id = $1;`
	if err := r.conn.QueryRow(ctx, q, sessionID).Scan(&doc); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query session: %v", err)
	}

	session := &gametypes.GameSession{}
	if err := json.Unmarshal(doc, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	return session, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	q := `DELETE FROM sessions WHERE session_id = $1;`
	if _, err := r.conn.Exec(ctx, q, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}

func (r *PostgresRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	rows, err := r.conn.Query(ctx, "SELECT session_id FROM sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %v", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
