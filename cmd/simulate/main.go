// Package main is a headless balance tool: it runs the cafe
// simulation at virtual speed with a scripted player and reports how
// the session went. Useful for tuning patience windows, event delays
// and prices without a headset.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/holobarista/server/internal/engine"
	"github.com/holobarista/server/internal/events"
)

// virtualScheduler runs scheduled callbacks in virtual time so a
// full shift simulates in milliseconds.
type virtualScheduler struct {
	now     time.Time
	seq     int
	pending []*pendingCall
}

type pendingCall struct {
	at  time.Time
	seq int
	fn  func()
}

func newVirtualScheduler() *virtualScheduler {
	return &virtualScheduler{now: time.Now()}
}

func (s *virtualScheduler) Now() time.Time { return s.now }

func (s *virtualScheduler) After(d time.Duration, fn func()) {
	s.seq++
	s.pending = append(s.pending, &pendingCall{at: s.now.Add(d), seq: s.seq, fn: fn})
}

func (s *virtualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		idx := -1
		for i, p := range s.pending {
			if p.at.After(target) {
				continue
			}
			if idx < 0 || p.at.Before(s.pending[idx].at) ||
				(p.at.Equal(s.pending[idx].at) && p.seq < s.pending[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		p := s.pending[idx]
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		s.now = p.at
		p.fn()
	}
	s.now = target
}

func main() {
	seed := flag.Int64("seed", 1, "RNG seed for a reproducible run")
	minutes := flag.Int("minutes", 10, "virtual session length in minutes")
	serveRate := flag.Float64("serve-rate", 0.5, "per-second chance the scripted player serves the next item")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	sched := newVirtualScheduler()
	elog := events.NewEventLog(nil)
	g := engine.NewGame(engine.DefaultConfig(), nil, elog, sched, rng, engine.NopPresenter{})
	g.StartGame()

	playerRng := rand.New(rand.NewSource(*seed + 1))
	steps := *minutes * 60

	bar := progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("simulating shift"),
		progressbar.OptionShowCount(),
	)

	for i := 0; i < steps; i++ {
		sched.Advance(time.Second)

		// The scripted player: sometimes serves the next wanted item,
		// and always cashes completed orders.
		if playerRng.Float64() < *serveRate {
			if c := g.Active(); c != nil && len(c.Order.Remaining) > 0 {
				g.DeliverItem(c.Order.Remaining[0])
			}
		}
		g.CollectPayment("")

		bar.Add(1)
	}
	fmt.Println()

	served := len(elog.GetByType(events.EventTypePaymentCollected))
	lost := len(elog.GetByType(events.EventTypeCustomerLeft))
	rejected := len(elog.GetByType(events.EventTypeQueueRejected))
	rushes := len(elog.GetByType(events.EventTypeRushStarted))
	stains := len(elog.GetByType(events.EventTypeStainSpawned))

	fmt.Printf("session %s over %d virtual minutes (seed %d)\n", g.SessionID(), *minutes, *seed)
	fmt.Printf("  balance:        %d\n", g.Balance())
	fmt.Printf("  served:         %d\n", served)
	fmt.Printf("  walked out:     %d\n", lost)
	fmt.Printf("  turned away:    %d\n", rejected)
	fmt.Printf("  rush hours:     %d\n", rushes)
	fmt.Printf("  stains spawned: %d (%d still on the floor)\n", stains, len(g.Stains()))
	fmt.Printf("  events logged:  %d\n", elog.Len())
}
