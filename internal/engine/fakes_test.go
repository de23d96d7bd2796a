package engine

import (
	"math/rand"
	"time"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/events"
)

// fakeScheduler drives scheduled callbacks deterministically. Advance
// moves virtual time forward and runs every due callback in order,
// including callbacks scheduled by other callbacks.
type fakeScheduler struct {
	now     time.Time
	seq     int
	pending []*pendingCall
}

type pendingCall struct {
	at  time.Time
	seq int
	fn  func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time { return s.now }

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.seq++
	s.pending = append(s.pending, &pendingCall{at: s.now.Add(d), seq: s.seq, fn: fn})
}

func (s *fakeScheduler) Advance(d time.Duration) {
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

// pendingCount reports how many callbacks are still armed.
func (s *fakeScheduler) pendingCount() int { return len(s.pending) }

// recordPresenter captures presentation cues for assertions.
type recordPresenter struct {
	NopPresenter
	speeches      []string
	notifications []string
	sounds        []string
	left          map[string]bool // customer ID -> angry
	balances      []int
}

func newRecordPresenter() *recordPresenter {
	return &recordPresenter{left: make(map[string]bool)}
}

func (p *recordPresenter) CustomerSpeaks(c *customer.Customer, text string) {
	p.speeches = append(p.speeches, text)
}

func (p *recordPresenter) CustomerLeft(c *customer.Customer, angry bool) {
	p.left[c.ID] = angry
}

func (p *recordPresenter) Notify(text string) {
	p.notifications = append(p.notifications, text)
}

func (p *recordPresenter) PlaySound(name string) {
	p.sounds = append(p.sounds, name)
}

func (p *recordPresenter) BalanceChanged(balance int) {
	p.balances = append(p.balances, balance)
}

func (p *recordPresenter) lastSpeech() string {
	if len(p.speeches) == 0 {
		return ""
	}
	return p.speeches[len(p.speeches)-1]
}

func newTestGame(seed int64) (*Game, *fakeScheduler, *recordPresenter) {
	sched := newFakeScheduler()
	pres := newRecordPresenter()
	g := NewGame(DefaultConfig(), nil, events.NewEventLog(nil), sched, rand.New(rand.NewSource(seed)), pres)
	return g, sched, pres
}
