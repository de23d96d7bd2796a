package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/holobarista/server/internal/engine"
	"github.com/holobarista/server/internal/events"
	"github.com/holobarista/server/internal/platform/logger"
	"github.com/holobarista/server/internal/platform/metrics"
	"github.com/holobarista/server/internal/platform/tuning"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	engine     *engine.Engine
	tuning     *tuning.Config
}

// NewHub initializes a new WebSocket Hub. Bind the engine before
// serving connections; the presenter only needs the hub, so the hub
// is built first to break the construction cycle.
func NewHub(log *logger.Logger, cfg *tuning.Config) *Hub {
	if cfg == nil {
		cfg = tuning.DefaultConfig()
	}
	return &Hub{
		broadcast:  make(chan []byte, cfg.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		tuning:     cfg,
	}
}

// BindEngine attaches the engine that player actions are routed to.
func (h *Hub) BindEngine(eng *engine.Engine) {
	h.engine = eng
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes a GameEvent and sends it to all connected
// clients. A full broadcast queue drops the frame rather than stall
// the simulation.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to serialize GameEvent for WebSocket broadcast: " + err.Error())
		return
	}
	h.broadcastBytes(payload)
}

func (h *Hub) broadcastBytes(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		metrics.Get().RecordWSError()
	}
}

// StartEventPoller spawns a goroutine that tails the EventLog and
// pushes new events to connected clients. The hub stays decoupled
// from the engine loop while seeing the same history.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		cursor := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fresh := eventLog.Since(cursor)
				for _, event := range fresh {
					h.BroadcastEvent(event)
				}
				cursor += len(fresh)
			}
		}
	}()
}
