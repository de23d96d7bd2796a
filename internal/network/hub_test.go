package network

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/domain/order"
	"github.com/holobarista/server/internal/engine"
	"github.com/holobarista/server/internal/events"
	"github.com/holobarista/server/internal/platform/logger"
	"github.com/holobarista/server/internal/platform/tuning"
)

func TestHubPresenterPushesFrames(t *testing.T) {
	hub := NewHub(logger.NewLogger(), tuning.LowResourceConfig())
	p := NewHubPresenter(hub)

	c := customer.New("c1", order.Fixed(order.ItemCoffee), time.Minute)
	p.CustomerSpeaks(c, "1 Coffee!")

	select {
	case raw := <-hub.broadcast:
		var f struct {
			Kind string                 `json:"kind"`
			Data map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if f.Kind != "customer_speaks" {
			t.Errorf("kind = %q, want customer_speaks", f.Kind)
		}
		if f.Data["text"] != "1 Coffee!" {
			t.Errorf("text = %v", f.Data["text"])
		}
	default:
		t.Fatal("no frame queued")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub(logger.NewLogger(), tuning.LowResourceConfig())

	ev := events.GameEvent{ID: "e1", Type: events.EventTypeCustomerArrived}
	// Overfill the buffer; the extra frames must drop, not block.
	for i := 0; i < hub.tuning.BroadcastChannelBuffer+5; i++ {
		hub.BroadcastEvent(ev)
	}
	if len(hub.broadcast) != hub.tuning.BroadcastChannelBuffer {
		t.Fatalf("queued = %d, want full buffer %d", len(hub.broadcast), hub.tuning.BroadcastChannelBuffer)
	}
}

func TestPlayerActionRouting(t *testing.T) {
	log := logger.NewLogger()
	hub := NewHub(log, tuning.LowResourceConfig())
	eng := engine.New(engine.DefaultConfig(), log, events.NewEventLog(nil), engine.SystemClock{}, rand.New(rand.NewSource(1)), NewHubPresenter(hub), 64)
	hub.BindEngine(eng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	c := &Client{hub: hub}

	place, _ := json.Marshal(map[string]interface{}{
		"prop_id": "register-1",
		"role":    "register",
		"pos":     map[string]float64{"x": 1, "y": 0, "z": 0},
	})
	c.handlePlayerAction(PlayerAction{Type: "PLACE_PROP", Payload: place})
	c.lastActionTime = time.Time{}

	move, _ := json.Marshal(map[string]interface{}{
		"prop_id": "register-1",
		"pos":     map[string]float64{"x": 2, "y": 0, "z": 0},
	})
	c.handlePlayerAction(PlayerAction{Type: "MOVE_OBJECT", Payload: move})

	var pos engine.Vec3
	eng.DoSync(func(g *engine.Game) {
		if p, ok := g.Prop("register-1"); ok {
			pos = p.Pos
		}
	})
	if pos.X != 2 {
		t.Fatalf("register position = %+v, want X=2", pos)
	}
}

func TestRateLimitBlocksBursts(t *testing.T) {
	log := logger.NewLogger()
	hub := NewHub(log, tuning.LowResourceConfig())
	eng := engine.New(engine.DefaultConfig(), log, events.NewEventLog(nil), engine.SystemClock{}, rand.New(rand.NewSource(1)), nil, 64)
	hub.BindEngine(eng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	c := &Client{hub: hub}
	c.handlePlayerAction(PlayerAction{Type: "OPEN_SHOP"})
	first := c.lastActionTime

	// Immediate follow-up is dropped and does not refresh the stamp.
	c.handlePlayerAction(PlayerAction{Type: "START_GAME"})
	if !c.lastActionTime.Equal(first) {
		t.Fatal("rate-limited action must not refresh the limiter")
	}
}
