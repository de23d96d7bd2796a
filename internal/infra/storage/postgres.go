package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
)

// InitPostgres opens a PostgreSQL connection pool and ensures the
// schema exists. Used when CAFE_POSTGRES_DSN is set; SQLite remains
// the default for single-device deployments.
func InitPostgres(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			payload JSONB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);`,
	}
	for _, q := range schemas {
		if _, err := db.Exec(q); err != nil {
			return nil, fmt.Errorf("failed to create postgres schema: %w", err)
		}
	}

	return db, nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, actor_id, target_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.SessionID,
		event.Timestamp,
		event.EventType,
		event.ActorID,
		event.TargetID,
		payloadJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// GetBySessionID retrieves all events for a session, oldest first.
func (r *PostgresEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error) {
	query := `
		SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload
		FROM events
		WHERE session_id = $1
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, sessionID)
}

// GetByActorID retrieves all events performed by an actor.
func (r *PostgresEventRepository) GetByActorID(ctx context.Context, sessionID, actorID string) ([]GameEvent, error) {
	query := `
		SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload
		FROM events
		WHERE session_id = $1 AND actor_id = $2
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, sessionID, actorID)
}

// GetByEventType retrieves all events of a specific type.
func (r *PostgresEventRepository) GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error) {
	query := `
		SELECT id, session_id, timestamp, event_type, actor_id, target_id, payload
		FROM events
		WHERE session_id = $1 AND event_type = $2
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, sessionID, eventType)
}

// queryEvents is a helper to execute queries and scan results.
func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadJSON []byte
		var targetID sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Timestamp,
			&e.EventType,
			&e.ActorID,
			&targetID,
			&payloadJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if targetID.Valid {
			e.TargetID = targetID.String
		}

		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)
