package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, actor_id, target_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType,
		event.ActorID, event.TargetID, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EventType,
			&e.ActorID, &e.TargetID, &payloadStr,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload FROM events WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, sessionID, actorID string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload FROM events WHERE session_id = ? AND actor_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, actorID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload FROM events WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}

// Ensure SQLiteEventRepository implements EventRepository
var _ EventRepository = (*SQLiteEventRepository)(nil)

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot SessionSnapshot) error {
	query := `
		INSERT INTO snapshots (session_id, taken_at, mode, tutorial_step, balance, state_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			taken_at=excluded.taken_at,
			mode=excluded.mode,
			tutorial_step=excluded.tutorial_step,
			balance=excluded.balance,
			state_json=excluded.state_json
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.SessionID, snapshot.TakenAt, snapshot.Mode,
		snapshot.TutorialStep, snapshot.Balance, snapshot.StateJSON,
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	query := `SELECT session_id, taken_at, mode, tutorial_step, balance, state_json FROM snapshots WHERE session_id = ?`
	var s SessionSnapshot
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.SessionID, &s.TakenAt, &s.Mode, &s.TutorialStep, &s.Balance, &s.StateJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSnapshotRepository) GetLatest(ctx context.Context) (*SessionSnapshot, error) {
	query := `SELECT session_id, taken_at, mode, tutorial_step, balance, state_json FROM snapshots ORDER BY taken_at DESC LIMIT 1`
	var s SessionSnapshot
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.SessionID, &s.TakenAt, &s.Mode, &s.TutorialStep, &s.Balance, &s.StateJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Ensure SQLiteSnapshotRepository implements SnapshotRepository
var _ SnapshotRepository = (*SQLiteSnapshotRepository)(nil)
