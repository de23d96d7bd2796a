package engine

import (
	"testing"
	"time"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/domain/order"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g, sched, _ := newTestGame(1)
	g.mode = ModePlaying
	g.credit(35)
	g.RegisterProp(&Prop{ID: "register-1", Role: RoleRegister, Pos: Vec3{X: 2}})

	// One half-served customer and one still walking in.
	c1 := customer.New("c1", order.Fixed(order.ItemCoffee, order.ItemWater), 20*time.Second)
	g.admit(c1)
	sched.Advance(g.cfg.WalkInDuration)
	g.DeliverItem(order.ItemCoffee)
	sched.Advance(time.Second)

	c2 := customer.New("c2", order.Fixed(order.ItemWater), 15*time.Second)
	g.admit(c2)

	g.SpawnStain(Vec3{X: 1, Z: 1})

	snap := g.Snapshot()

	g2, sched2, _ := newTestGame(9)
	g2.Restore(snap)

	if g2.Balance() != 35 {
		t.Fatalf("balance = %d, want 35", g2.Balance())
	}
	if g2.Mode() != ModePlaying {
		t.Fatalf("mode = %v, want playing", g2.Mode())
	}
	if g2.SessionID() != g.SessionID() {
		t.Fatal("session ID must survive")
	}
	if len(g2.Queue()) != 2 {
		t.Fatalf("queue = %d, want 2", len(g2.Queue()))
	}

	r1 := g2.find("c1")
	if r1 == nil || r1.State != customer.StateBeingServed {
		t.Fatalf("c1 not restored in service: %+v", r1)
	}
	if len(r1.Order.Remaining) != 1 || r1.Order.Remaining[0] != order.ItemWater {
		t.Fatalf("c1 remaining = %v, want one water", r1.Order.Remaining)
	}
	if r1.Patience >= customer.PatienceStart {
		t.Fatal("c1 partial patience must survive")
	}
	if r1.Patience != c1.Patience {
		t.Fatalf("c1 patience = %v, want %v", r1.Patience, c1.Patience)
	}

	if len(g2.stains) != 1 {
		t.Fatalf("stains = %d, want 1", len(g2.stains))
	}
	if _, ok := g2.Prop("register-1"); !ok {
		t.Fatal("register prop must survive")
	}

	// The restored walk-in completes and c2 takes a slot.
	if !g2.walking["c2"] {
		t.Fatal("c2 should still be walking in")
	}
	sched2.Advance(g2.cfg.WalkInDuration)
	if g2.walking["c2"] {
		t.Fatal("c2 walk-in should have completed")
	}

	// Patience decay resumes after restore.
	before := r1.Patience
	sched2.Advance(time.Second)
	if r1.Patience >= before {
		t.Fatalf("patience did not resume decaying: %v -> %v", before, r1.Patience)
	}
}

func TestSnapshotOmitsDepartingCustomers(t *testing.T) {
	g, sched, _ := newTestGame(1)

	c := customer.New("c1", order.Fixed(order.ItemCoffee), time.Second)
	g.admit(c)
	sched.Advance(g.cfg.WalkInDuration + time.Second)

	if c.State != customer.StateLeftAngry {
		t.Fatalf("state = %v, want LeftAngry", c.State)
	}
	snap := g.Snapshot()
	if len(snap.Queue) != 0 {
		t.Fatalf("departing customer must not be persisted, queue = %d", len(snap.Queue))
	}
}

func TestRestoreRearmsDirector(t *testing.T) {
	g, _, _ := newTestGame(1)
	g.mode = ModePlaying
	snap := g.Snapshot()

	g2, sched2, _ := newTestGame(2)
	g2.Restore(snap)

	if g2.eventGen == 0 {
		t.Fatal("director should be rearmed after restore")
	}
	if sched2.pendingCount() == 0 {
		t.Fatal("restore should leave timers armed")
	}
}
