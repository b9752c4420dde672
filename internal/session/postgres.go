package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresManager keeps sessions in a bot_sessions table so conversation
// state survives process restarts.
type PostgresManager struct {
	db *sqlx.DB
}

// NewPostgresManager constructs a Manager backed by the given database handle.
func NewPostgresManager(db *sqlx.DB) *PostgresManager {
	return &PostgresManager{db: db}
}

// State returns the stored state for a user, or StateNone when absent.
func (m *PostgresManager) State(ctx context.Context, userID int64) (State, error) {
	var st string
	err := m.db.GetContext(ctx, &st,
		`SELECT state FROM bot_sessions WHERE telegram_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return StateNone, nil
	}
	if err != nil {
		return StateNone, fmt.Errorf("session state: %w", err)
	}
	return State(st), nil
}

// SetState upserts the session row for a user. Last write wins.
func (m *PostgresManager) SetState(ctx context.Context, userID int64, st State) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO bot_sessions (telegram_id, state, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (telegram_id)
		 DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		userID, string(st))
	if err != nil {
		return fmt.Errorf("session set state: %w", err)
	}
	return nil
}

// Clear deletes the session row for a user; clearing a missing session is not an error.
func (m *PostgresManager) Clear(ctx context.Context, userID int64) error {
	_, err := m.db.ExecContext(ctx,
		`DELETE FROM bot_sessions WHERE telegram_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
