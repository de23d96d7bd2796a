package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/holobarista/server/internal/domain/order"
	"github.com/holobarista/server/internal/events"
	"github.com/holobarista/server/internal/platform/logger"
)

// Engine owns the simulation goroutine. Every mutation of the Game
// runs as a queued command on that one goroutine, which is what lets
// the Game itself stay lock-free. Timer callbacks re-enter through
// the same queue.
type Engine struct {
	game  *Game
	log   *logger.Logger
	clock Clock
	cmds  chan func()
	quit  chan struct{}
}

// New builds an engine around a fresh Game. The engine itself is the
// Game's Scheduler.
func New(cfg *Config, log *logger.Logger, elog *events.EventLog, clock Clock, rng *rand.Rand, pres Presenter, cmdBuffer int) *Engine {
	e := &Engine{
		log:   log,
		clock: clock,
		cmds:  make(chan func(), cmdBuffer),
		quit:  make(chan struct{}),
	}
	e.game = NewGame(cfg, log, elog, e, rng, pres)
	return e
}

// Now implements Scheduler.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// After implements Scheduler: the callback fires on the engine
// goroutine, never on the timer's.
func (e *Engine) After(d time.Duration, fn func()) {
	e.clock.AfterFunc(d, func() { e.post(fn) })
}

func (e *Engine) post(fn func()) {
	select {
	case e.cmds <- fn:
	case <-e.quit:
	}
}

// Run processes commands until the context is cancelled. It also
// drives the proximity poll that turns object positions into game
// actions.
func (e *Engine) Run(ctx context.Context) {
	e.post(e.pollLoop)
	for {
		select {
		case <-ctx.Done():
			close(e.quit)
			if e.log != nil {
				e.log.Info("engine stopped")
			}
			return
		case fn := <-e.cmds:
			fn()
		}
	}
}

func (e *Engine) pollLoop() {
	e.game.PollProximity()
	e.After(e.game.cfg.PollInterval, e.pollLoop)
}

// Do queues work against the Game and returns immediately.
func (e *Engine) Do(fn func(*Game)) {
	e.post(func() { fn(e.game) })
}

// DoSync queues work and waits for it to run. Must not be called
// from a command already on the engine goroutine.
func (e *Engine) DoSync(fn func(*Game)) {
	done := make(chan struct{})
	e.post(func() {
		fn(e.game)
		close(done)
	})
	select {
	case <-done:
	case <-e.quit:
	}
}

// --- convenience operations for the transport layer ---

func (e *Engine) Open()      { e.Do(func(g *Game) { g.Open() }) }
func (e *Engine) StartGame() { e.Do(func(g *Game) { g.StartGame() }) }

func (e *Engine) DeliverItem(kind order.ItemKind) {
	e.Do(func(g *Game) { g.DeliverItem(kind) })
}

func (e *Engine) CollectPayment(custID string) {
	e.Do(func(g *Game) { g.CollectPayment(custID) })
}

func (e *Engine) TrashItem(id string) {
	e.Do(func(g *Game) { g.TrashItem(id) })
}

func (e *Engine) RegisterProp(p *Prop) {
	e.Do(func(g *Game) { g.RegisterProp(p) })
}

func (e *Engine) MoveProp(id string, pos Vec3) {
	e.Do(func(g *Game) { g.MoveProp(id, pos) })
}

func (e *Engine) Purchase(decorID string, cost int, pos Vec3) {
	e.Do(func(g *Game) { g.Purchase(decorID, cost, pos) })
}

// Snapshot captures session state synchronously.
func (e *Engine) Snapshot() *Snapshot {
	var snap *Snapshot
	e.DoSync(func(g *Game) { snap = g.Snapshot() })
	return snap
}

// Restore loads session state synchronously.
func (e *Engine) Restore(snap *Snapshot) {
	e.DoSync(func(g *Game) { g.Restore(snap) })
}
