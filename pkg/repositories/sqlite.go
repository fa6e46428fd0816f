package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	gametypes "github.com/colevans/resistance/pkg/game/types"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveSession(ctx context.Context, session *gametypes.GameSession) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	q := `
	INSERT OR REPLACE INTO sessions (session_id, state, updated_at)
	VALUES (?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, session.SessionID, string(doc), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to insert session: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadSession(ctx context.Context, sessionID string) (*gametypes.GameSession, error) {
	q := `SELECT state FROM sessions WHERE session_id = ?;`
	var doc string
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query session: %v", err)
	}

	session := &gametypes.GameSession{}
	if err := json.Unmarshal([]byte(doc), session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	return session, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, sessionID string) error {
	q := `DELETE FROM sessions WHERE session_id = ?;`
	if _, err := r.db.ExecContext(ctx, q, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT session_id FROM sessions")
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

	return ids, rows.Err()
}
