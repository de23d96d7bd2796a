// Package engine contains the cafe simulation core: the customer
// queue, patience decay, the random event director, floor stains and
// the shop economy. All Game methods must run on a single goroutine;
// the Engine wrapper serializes external calls onto it.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/domain/order"
	"github.com/holobarista/server/internal/domain/rules"
	"github.com/holobarista/server/internal/events"
	"github.com/holobarista/server/internal/platform/logger"
	"github.com/holobarista/server/internal/platform/metrics"
)

// Mode tracks the coarse phase of a session.
type Mode string

const (
	ModeClosed   Mode = "closed"
	ModeTutorial Mode = "tutorial"
	ModePlaying  Mode = "playing"
)

// queueSlotSpacing is the gap between waiting customers, in meters
// behind the service position.
const queueSlotSpacing = 0.8

// Game is the single-threaded simulation aggregate. It never spins
// goroutines or real timers itself; all future work goes through the
// Scheduler so tests can drive time deterministically.
type Game struct {
	cfg   *Config
	log   *logger.Logger
	elog  *events.EventLog
	sched Scheduler
	rng   *rand.Rand
	pres  Presenter
	met   *metrics.Collector

	sessionID    string
	mode         Mode
	tutorialStep int

	queue   []*customer.Customer // index 0 is (or will be) the one served
	walking map[string]bool      // spawned but not yet at their slot
	custPos map[string]Vec3
	custSeq int

	balance int

	stains   map[string]*Stain
	stainSeq int

	props      *propRegistry
	counter    Vec3
	hasCounter bool

	eventGen    int // invalidates stale director timers
	tickRunning bool
}

// NewGame wires a fresh simulation. The presenter and metrics
// collector may be nil; safe defaults are substituted.
func NewGame(cfg *Config, log *logger.Logger, elog *events.EventLog, sched Scheduler, rng *rand.Rand, pres Presenter) *Game {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if pres == nil {
		pres = NopPresenter{}
	}
	return &Game{
		cfg:       cfg,
		log:       log,
		elog:      elog,
		sched:     sched,
		rng:       rng,
		pres:      pres,
		met:       metrics.Get(),
		sessionID: uuid.NewString(),
		mode:      ModeClosed,
		walking:   make(map[string]bool),
		custPos:   make(map[string]Vec3),
		stains:    make(map[string]*Stain),
		props:     newPropRegistry(),
	}
}

// SessionID identifies this run in events and snapshots.
func (g *Game) SessionID() string { return g.sessionID }

// Mode returns the current session phase.
func (g *Game) Mode() Mode { return g.mode }

// Balance returns the current earnings.
func (g *Game) Balance() int { return g.balance }

// Queue returns the live customer queue, service position first.
func (g *Game) Queue() []*customer.Customer { return g.queue }

// record appends a structured event to the log and the audit trail.
func (g *Game) record(t events.EventType, actorID, targetID string, payload interface{}) {
	g.elog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: g.sched.Now(),
		Type:      t,
		ActorID:   actorID,
		TargetID:  targetID,
		Payload:   payload,
		SessionID: g.sessionID,
	})
	if g.log != nil {
		g.log.Event(string(t), actorID, targetID)
	}
}

// Open transitions a closed shop into the tutorial.
func (g *Game) Open() {
	if g.mode != ModeClosed {
		return
	}
	g.mode = ModeTutorial
	g.tutorialStep = tutorialStepCleanFloor
	g.record(events.EventTypeGameOpened, "player", "", nil)
	g.beginTutorial()
}

// StartGame leaves the tutorial (or closed state) and opens for
// business: initial stains appear shortly, and the random event
// director fires its first roll after a fixed grace period.
func (g *Game) StartGame() {
	if g.mode == ModePlaying {
		return
	}
	g.mode = ModePlaying
	g.record(events.EventTypeSessionStarted, "player", "", nil)
	if g.log != nil {
		g.log.Info("session started: shop is open")
	}

	g.sched.After(g.cfg.InitialStainWait, func() {
		if g.mode != ModePlaying {
			return
		}
		for i := 0; i < g.cfg.InitialStains; i++ {
			g.SpawnStain(g.randomFloorPos())
		}
	})
	g.scheduleNextIn(g.cfg.FirstEventWait)
}

// --- customers ---

// SpawnCustomer adds a visitor to the back of the queue. Returns nil
// when the shop is at capacity; the arrival is recorded as rejected
// and the would-be customer never enters.
func (g *Game) SpawnCustomer() *customer.Customer {
	if len(g.queue) >= g.cfg.QueueCapacity {
		g.record(events.EventTypeQueueRejected, "director", "", nil)
		if g.log != nil {
			g.log.Warn("queue full, arrival dropped")
		}
		return nil
	}

	g.custSeq++
	id := fmt.Sprintf("cust-%d", g.custSeq)
	deadline := g.cfg.SampleDeadline(g.rng.Float64)
	c := customer.New(id, order.New(g.rng), deadline)
	return g.admit(c)
}

// SpawnTutorialCustomer adds the scripted single-coffee visitor. Their
// patience is effectively infinite so the tutorial cannot be failed.
func (g *Game) SpawnTutorialCustomer() *customer.Customer {
	g.custSeq++
	id := fmt.Sprintf("cust-%d", g.custSeq)
	c := customer.New(id, order.Fixed(order.ItemCoffee), 24*time.Hour)
	return g.admit(c)
}

func (g *Game) admit(c *customer.Customer) *customer.Customer {
	c.QueuePosition = len(g.queue)
	g.queue = append(g.queue, c)
	g.walking[c.ID] = true
	g.custPos[c.ID] = g.queueSlotPos(c.QueuePosition)

	g.record(events.EventTypeCustomerArrived, c.ID, "", c.Order.Items)
	g.met.RecordCustomerSpawned()
	g.pres.CustomerSpawned(c)

	id := c.ID
	g.sched.After(g.cfg.WalkInDuration, func() { g.arrive(id) })
	return c
}

// arrive completes a walk-in: the customer is now standing at their
// slot. Patience holds at full until they reach the service position.
func (g *Game) arrive(id string) {
	c := g.find(id)
	if c == nil {
		return
	}
	delete(g.walking, id)
	if c.QueuePosition == 0 && c.State == customer.StateWaiting {
		g.beginService(c)
	}
}

func (g *Game) find(id string) *customer.Customer {
	for _, c := range g.queue {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Active returns the customer currently being served, if any.
func (g *Game) Active() *customer.Customer {
	if len(g.queue) == 0 {
		return nil
	}
	c := g.queue[0]
	if c.Active() {
		return c
	}
	return nil
}

func (g *Game) beginService(c *customer.Customer) {
	if !c.BeginService() {
		return
	}
	g.pres.CustomerSpeaks(c, c.Order.Label())
	g.startPatienceLoop()
}

// DeliverItem hands a drink to the customer being served. A wanted
// kind shrinks the order; an unwanted one is rejected without any
// state change. Completing the order drops a bill for collection.
func (g *Game) DeliverItem(kind order.ItemKind) bool {
	c := g.Active()
	if c == nil {
		g.pres.Notify("No customer to serve")
		return false
	}

	if !c.Order.TryFulfill(kind) {
		g.record(events.EventTypeItemRejected, "player", c.ID, events.DeliveryPayload{
			ItemKind:  string(kind),
			Accepted:  false,
			Remaining: len(c.Order.Remaining),
		})
		g.pres.CustomerSpeaks(c, "Wrong item! I wanted "+c.Order.WantedLabel())
		return false
	}

	g.record(events.EventTypeItemDelivered, "player", c.ID, events.DeliveryPayload{
		ItemKind:  string(kind),
		Accepted:  true,
		Remaining: len(c.Order.Remaining),
	})

	if c.Order.IsComplete() {
		g.completeOrder(c)
	} else {
		g.pres.CustomerSpeaks(c, c.Order.RemainingLabel())
	}
	return true
}

// completeOrder moves the customer to the payment phase and drops
// their bill near the register.
func (g *Game) completeOrder(c *customer.Customer) {
	if !c.AwaitPayment() {
		return
	}
	g.record(events.EventTypeOrderCompleted, c.ID, "", nil)
	g.pres.CustomerSpeaks(c, "Thanks!")
	g.pres.PlaySound("order_complete")

	// The bill drops where the customer stands; the player carries
	// it to the register to cash it.
	g.props.put(&Prop{
		ID:    uuid.NewString(),
		Role:  RoleDollar,
		Pos:   g.custPos[c.ID],
		Owner: c.ID,
	})

	if g.mode == ModeTutorial && g.tutorialStep == tutorialStepServeCustomer {
		g.advanceTutorial()
	}
}

// CollectPayment cashes in the bill of an awaiting customer. Credit is
// the full order size times the item price; the customer leaves happy
// and the queue advances after a short delay.
func (g *Game) CollectPayment(custID string) bool {
	c := g.find(custID)
	if c == nil && custID == "" {
		for _, q := range g.queue {
			if q.State == customer.StateAwaitingPayment {
				c = q
				break
			}
		}
	}
	if c == nil || !c.MarkServed() {
		return false
	}

	amount := c.Order.Size() * g.cfg.ItemPrice
	g.credit(amount)
	g.record(events.EventTypePaymentCollected, "player", c.ID, events.EconomyPayload{
		Amount:  amount,
		Balance: g.balance,
	})
	g.met.RecordCustomerServed()
	g.pres.CustomerLeft(c, false)
	g.pres.PlaySound("cash")

	if g.mode == ModeTutorial && g.tutorialStep == tutorialStepCollectBill {
		g.advanceTutorial()
	}

	id := c.ID
	g.sched.After(g.cfg.AdvanceDelay, func() { g.removeCustomer(id) })
	return true
}

// walkout handles a customer whose patience ran out.
func (g *Game) walkout(c *customer.Customer) {
	if !c.MarkLeftAngry() {
		return
	}
	g.debit(g.cfg.WalkoutPenalty)
	g.record(events.EventTypeCustomerLeft, c.ID, "", events.EconomyPayload{
		Amount:  -g.cfg.WalkoutPenalty,
		Balance: g.balance,
	})
	g.met.RecordCustomerLost()
	if g.log != nil {
		g.log.Warn("customer " + c.ID + " left angry")
	}
	g.pres.CustomerLeft(c, true)
	g.pres.PlaySound("angry")

	id := c.ID
	g.sched.After(g.cfg.AngryWalkDuration, func() { g.removeCustomer(id) })
}

// removeCustomer drops a customer from the queue and shifts everyone
// behind them forward.
func (g *Game) removeCustomer(id string) {
	idx := -1
	for i, c := range g.queue {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	g.queue = append(g.queue[:idx], g.queue[idx+1:]...)
	delete(g.walking, id)
	delete(g.custPos, id)

	for i, c := range g.queue {
		if c.QueuePosition != i {
			c.QueuePosition = i
			g.custPos[c.ID] = g.queueSlotPos(i)
			g.pres.CustomerMoved(c)
		}
	}
	if len(g.queue) > 0 {
		g.record(events.EventTypeQueueAdvanced, g.queue[0].ID, "", nil)
		head := g.queue[0]
		if !g.walking[head.ID] && head.State == customer.StateWaiting {
			g.beginService(head)
		}
	}
}

// --- patience ---

// startPatienceLoop begins the periodic decay tick if it is not
// already running. The loop stops itself once no customer needs it.
func (g *Game) startPatienceLoop() {
	if g.tickRunning {
		return
	}
	g.tickRunning = true
	g.sched.After(g.cfg.PatienceTick, g.patienceTick)
}

// patienceTick drains the customer at the service position. Customers
// waiting behind them keep full patience until they step up.
func (g *Game) patienceTick() {
	started := time.Now()

	decaying := false
	if c := g.Active(); c != nil {
		decaying = true
		c.DrainPatience(rules.PatienceDecrement(c.Deadline, g.cfg.PatienceTick))
		g.pres.PatienceChanged(c, rules.BarWidth(c.Patience), rules.BarColorHex(c.Patience))
		if c.Patience <= 0 {
			g.walkout(c)
		}
	}

	g.met.RecordTick(time.Since(started))

	if !decaying {
		g.tickRunning = false
		return
	}
	g.sched.After(g.cfg.PatienceTick, g.patienceTick)
}

// --- economy ---

func (g *Game) credit(amount int) {
	g.balance += amount
	g.pres.BalanceChanged(g.balance)
}

// debit lowers the balance, clamped at zero. Earnings never go
// negative.
func (g *Game) debit(amount int) {
	g.balance -= amount
	if g.balance < 0 {
		g.balance = 0
	}
	g.pres.BalanceChanged(g.balance)
}

// Purchase buys a decor item if funds allow and registers it as a
// world prop.
func (g *Game) Purchase(decorID string, cost int, pos Vec3) bool {
	if cost < 0 || g.balance < cost {
		g.pres.Notify("Not enough funds")
		return false
	}
	g.balance -= cost
	g.pres.BalanceChanged(g.balance)
	g.props.put(&Prop{ID: decorID, Role: RoleDecor, Pos: pos})
	g.record(events.EventTypeDecorPurchased, "player", decorID, events.EconomyPayload{
		Amount:  -cost,
		Balance: g.balance,
	})
	return true
}

// --- props ---

// RegisterProp adds or replaces a tracked world object. Placing the
// register anchors the queue; tutorial placement steps advance here.
func (g *Game) RegisterProp(p *Prop) {
	g.props.put(p)
	if p.Role == RoleRegister {
		g.counter = p.Pos
		g.hasCounter = true
		if g.mode == ModeTutorial && g.tutorialStep == tutorialStepPlaceRegister {
			g.advanceTutorial()
		}
	}
	if p.Role == RoleCoffeeMachine && g.mode == ModeTutorial && g.tutorialStep == tutorialStepPlaceMachine {
		g.advanceTutorial()
	}
}

// MoveProp updates a tracked object's position.
func (g *Game) MoveProp(id string, pos Vec3) bool {
	return g.props.move(id, pos)
}

// Prop looks up a tracked object.
func (g *Game) Prop(id string) (*Prop, bool) {
	return g.props.get(id)
}

// TrashItem disposes of a carryable near the trash can: the prop is
// removed from the world. The dustpan disposal advances the tutorial.
func (g *Game) TrashItem(id string) bool {
	p, ok := g.props.get(id)
	if !ok {
		return false
	}
	g.props.remove(id)
	g.record(events.EventTypeTrashDisposal, "player", id, nil)
	g.pres.PlaySound("trash")

	if p.Role == RoleDustpan && g.mode == ModeTutorial && g.tutorialStep == tutorialStepTrashDustpan {
		g.advanceTutorial()
	}
	return true
}

// queueSlotPos computes where a queue slot stands relative to the
// register, falling back to the origin before the counter exists.
func (g *Game) queueSlotPos(index int) Vec3 {
	base := g.counter
	base.Z += queueSlotSpacing * float64(index+1)
	return base
}

// randomFloorPos picks a spot for a spawned stain within the play
// area around the counter.
func (g *Game) randomFloorPos() Vec3 {
	return Vec3{
		X: g.counter.X + (g.rng.Float64()-0.5)*3,
		Y: 0,
		Z: g.counter.Z + (g.rng.Float64()-0.5)*3,
	}
}
