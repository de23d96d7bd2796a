// Package events provides the append-only event log for the cafe.
// Every state change in the simulation is recorded here, so a session
// can be audited or replayed after the fact.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a cafe event.
type EventType string

const (
	EventTypeGameOpened       EventType = "GAME_OPENED"
	EventTypeSessionStarted   EventType = "SESSION_STARTED"
	EventTypeTutorialAdvanced EventType = "TUTORIAL_ADVANCED"
	EventTypeCustomerArrived  EventType = "CUSTOMER_ARRIVED"
	EventTypeQueueAdvanced    EventType = "QUEUE_ADVANCED"
	EventTypeQueueRejected    EventType = "QUEUE_REJECTED"
	EventTypeItemDelivered    EventType = "ITEM_DELIVERED"
	EventTypeItemRejected     EventType = "ITEM_REJECTED"
	EventTypeOrderCompleted   EventType = "ORDER_COMPLETED"
	EventTypePaymentCollected EventType = "PAYMENT_COLLECTED"
	EventTypeCustomerLeft     EventType = "CUSTOMER_LEFT_ANGRY"
	EventTypeStainSpawned     EventType = "STAIN_SPAWNED"
	EventTypeStainCleaned     EventType = "STAIN_CLEANED"
	EventTypeTrashDisposal    EventType = "TRASH_DISPOSAL"
	EventTypeDecorPurchased   EventType = "DECOR_PURCHASED"
	EventTypeRushStarted      EventType = "RUSH_STARTED"
	EventTypeCalmPeriod       EventType = "CALM_PERIOD"
)

// DeliveryPayload holds the details of an item handed to a customer.
type DeliveryPayload struct {
	ItemKind  string `json:"item_kind"`
	Accepted  bool   `json:"accepted"`
	Remaining int    `json:"remaining"`
}

// EconomyPayload records a balance change.
type EconomyPayload struct {
	Amount  int `json:"amount"`
	Balance int `json:"balance"`
}

// GameEvent represents an immutable record of an action in the cafe.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`  // Who performed the action
	TargetID  string      `json:"target_id"` // Who was affected (optional)
	Payload   interface{} `json:"payload"`   // Event-specific data
	SessionID string      `json:"session_id"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of cafe events.
// Durable storage is optional and write-through.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write through to persistent storage off the hot path
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByActor returns all events performed by a specific actor.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of the given type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Len returns the number of logged events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// Replay returns the full history of events for session reconstruction.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Since returns events appended after the given index. Used by the
// broadcast poller to push only new events to clients.
func (el *EventLog) Since(index int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if index >= len(el.events) {
		return nil
	}
	out := make([]GameEvent, len(el.events)-index)
	copy(out, el.events[index:])
	return out
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
