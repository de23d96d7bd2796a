package engine

import (
	"time"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/domain/order"
)

// CustomerSnapshot captures one queued customer for persistence.
// Both the original order and what is still owed are kept so a
// half-served order survives a restart.
type CustomerSnapshot struct {
	ID        string           `json:"id"`
	Position  int              `json:"position"`
	State     customer.State   `json:"state"`
	Patience  float64          `json:"patience"`
	Deadline  time.Duration    `json:"deadline"`
	Items     []order.ItemKind `json:"items"`
	Remaining []order.ItemKind `json:"remaining"`
	Walking   bool             `json:"walking"`
}

// Snapshot is the full persistable state of a session.
type Snapshot struct {
	SessionID    string             `json:"session_id"`
	TakenAt      time.Time          `json:"taken_at"`
	Mode         Mode               `json:"mode"`
	TutorialStep int                `json:"tutorial_step"`
	Balance      int                `json:"balance"`
	CustomerSeq  int                `json:"customer_seq"`
	StainSeq     int                `json:"stain_seq"`
	Counter      Vec3               `json:"counter"`
	HasCounter   bool               `json:"has_counter"`
	Queue        []CustomerSnapshot `json:"queue"`
	Stains       []Stain            `json:"stains"`
	Props        []Prop             `json:"props"`
}

// Snapshot captures the current session state. Customers already on
// their way out are omitted; they would be gone moments later anyway.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		SessionID:    g.sessionID,
		TakenAt:      g.sched.Now(),
		Mode:         g.mode,
		TutorialStep: g.tutorialStep,
		Balance:      g.balance,
		CustomerSeq:  g.custSeq,
		StainSeq:     g.stainSeq,
		Counter:      g.counter,
		HasCounter:   g.hasCounter,
	}
	for _, c := range g.queue {
		if c.State == customer.StateServed || c.State == customer.StateLeftAngry {
			continue
		}
		s.Queue = append(s.Queue, CustomerSnapshot{
			ID:        c.ID,
			Position:  c.QueuePosition,
			State:     c.State,
			Patience:  c.Patience,
			Deadline:  c.Deadline,
			Items:     append([]order.ItemKind(nil), c.Order.Items...),
			Remaining: append([]order.ItemKind(nil), c.Order.Remaining...),
			Walking:   g.walking[c.ID],
		})
	}
	for _, st := range g.stains {
		s.Stains = append(s.Stains, *st)
	}
	for _, p := range g.props.props {
		s.Props = append(s.Props, *p)
	}
	return s
}

// Restore rebuilds the session from a snapshot. Timers do not
// survive persistence, so walk-ins restart their approach, the
// patience loop re-arms, and the director re-arms its next roll.
func (g *Game) Restore(s *Snapshot) {
	g.sessionID = s.SessionID
	g.mode = s.Mode
	g.tutorialStep = s.TutorialStep
	g.balance = s.Balance
	g.custSeq = s.CustomerSeq
	g.stainSeq = s.StainSeq
	g.counter = s.Counter
	g.hasCounter = s.HasCounter

	g.queue = nil
	g.walking = make(map[string]bool)
	g.custPos = make(map[string]Vec3)
	for _, cs := range s.Queue {
		c := customer.New(cs.ID, &order.Order{
			Items:     append([]order.ItemKind(nil), cs.Items...),
			Remaining: append([]order.ItemKind(nil), cs.Remaining...),
		}, cs.Deadline)
		c.State = cs.State
		c.QueuePosition = cs.Position
		c.Patience = cs.Patience
		g.queue = append(g.queue, c)
		g.custPos[c.ID] = g.queueSlotPos(cs.Position)
		g.pres.CustomerSpawned(c)
		if cs.Walking {
			g.walking[c.ID] = true
			id := c.ID
			g.sched.After(g.cfg.WalkInDuration, func() { g.arrive(id) })
		}
	}

	g.stains = make(map[string]*Stain)
	for i := range s.Stains {
		st := s.Stains[i]
		g.stains[st.ID] = &st
		g.pres.StainSpawned(st.ID, st.Pos)
	}

	g.props = newPropRegistry()
	for i := range s.Props {
		p := s.Props[i]
		g.props.put(&p)
	}

	g.pres.BalanceChanged(g.balance)
	g.tickRunning = false
	g.startPatienceLoop()
	if g.mode == ModePlaying {
		g.ScheduleNextEvent()
	}
}
