// Package storage provides the persistence layer for the cafe server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string      `json:"id" db:"id"`
	SessionID string      `json:"session_id" db:"session_id"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
	EventType string      `json:"event_type" db:"event_type"`
	ActorID   string      `json:"actor_id" db:"actor_id"`
	TargetID  string      `json:"target_id" db:"target_id"`
	Payload   interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetBySessionID retrieves all events for a session (for replay).
	GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error)

	// GetByActorID retrieves all events performed by an actor.
	GetByActorID(ctx context.Context, sessionID, actorID string) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error)
}

// SessionSnapshot is the latest saved state of one play session. The
// full simulation state travels as opaque JSON; the indexed columns
// exist for dashboards and quick lookups.
type SessionSnapshot struct {
	SessionID    string    `json:"session_id" db:"session_id"`
	TakenAt      time.Time `json:"taken_at" db:"taken_at"`
	Mode         string    `json:"mode" db:"mode"`
	TutorialStep int       `json:"tutorial_step" db:"tutorial_step"`
	Balance      int       `json:"balance" db:"balance"`
	StateJSON    string    `json:"state_json" db:"state_json"`
}

// SnapshotRepository defines the interface for session state snapshots.
type SnapshotRepository interface {
	// Upsert updates or inserts a session snapshot.
	Upsert(ctx context.Context, snapshot SessionSnapshot) error

	// GetBySessionID retrieves a specific session's snapshot.
	GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error)

	// GetLatest retrieves the most recently saved snapshot.
	GetLatest(ctx context.Context) (*SessionSnapshot, error)
}
