package engine

import (
	"testing"
	"time"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/domain/order"
	"github.com/holobarista/server/internal/events"
)

func TestCupInDeliveryZoneIsHandedOver(t *testing.T) {
	g, sched, _ := newTestGame(1)

	c := customer.New("c1", order.Fixed(order.ItemCoffee), time.Hour)
	g.admit(c)
	sched.Advance(g.cfg.WalkInDuration)

	target := g.custPos["c1"]
	g.props.put(&Prop{ID: "cup-1", Role: RoleCup, Kind: "coffee", Pos: Vec3{X: target.X + 0.3, Y: target.Y + 1, Z: target.Z}})

	g.PollProximity()

	if _, ok := g.Prop("cup-1"); ok {
		t.Fatal("delivered cup should be consumed")
	}
	if c.State != customer.StateAwaitingPayment {
		t.Fatalf("state = %v, want AwaitingPayment", c.State)
	}

	// Repeat polls are harmless: the cup is gone.
	g.PollProximity()
	if countType(g.elog, events.EventTypeItemDelivered) != 1 {
		t.Fatal("delivery must only count once")
	}
}

func TestCupOutOfRangeIsIgnored(t *testing.T) {
	g, sched, _ := newTestGame(1)

	c := customer.New("c1", order.Fixed(order.ItemCoffee), time.Hour)
	g.admit(c)
	sched.Advance(g.cfg.WalkInDuration)

	target := g.custPos["c1"]
	g.props.put(&Prop{ID: "cup-1", Role: RoleCup, Kind: "coffee", Pos: Vec3{X: target.X + 2, Z: target.Z}})

	g.PollProximity()
	if _, ok := g.Prop("cup-1"); !ok {
		t.Fatal("distant cup must stay put")
	}
	if c.State != customer.StateBeingServed {
		t.Fatalf("state = %v, want BeingServed", c.State)
	}
}

func TestBillAtRegisterCollectsPaymentOnce(t *testing.T) {
	g, sched, _ := newTestGame(1)
	g.RegisterProp(&Prop{ID: "register-1", Role: RoleRegister, Pos: Vec3{}})

	c := customer.New("c1", order.Fixed(order.ItemCoffee), time.Hour)
	g.admit(c)
	sched.Advance(g.cfg.WalkInDuration)
	g.DeliverItem(order.ItemCoffee)

	bills := g.props.byRole(RoleDollar)
	if len(bills) != 1 {
		t.Fatalf("expected one bill, got %d", len(bills))
	}

	// Bill dropped at the customer is out of register range.
	g.PollProximity()
	if g.Balance() != 0 {
		t.Fatal("bill must not cash itself from the queue")
	}

	// Carry it to the register.
	g.MoveProp(bills[0].ID, Vec3{X: 0.1})
	g.PollProximity()
	g.PollProximity()

	if g.Balance() != g.cfg.ItemPrice {
		t.Fatalf("balance = %d, want %d", g.Balance(), g.cfg.ItemPrice)
	}
	if countType(g.elog, events.EventTypePaymentCollected) != 1 {
		t.Fatal("payment must only count once")
	}
}

func TestCupInTrashIsDisposed(t *testing.T) {
	g, _, _ := newTestGame(1)
	g.RegisterProp(&Prop{ID: "trash-1", Role: RoleTrashCan, Pos: Vec3{X: 5, Z: 5}})
	g.props.put(&Prop{ID: "cup-1", Role: RoleCup, Kind: "water", Pos: Vec3{X: 5.2, Z: 5}})

	g.PollProximity()

	if _, ok := g.Prop("cup-1"); ok {
		t.Fatal("cup in trash range should be disposed")
	}
	if countType(g.elog, events.EventTypeTrashDisposal) != 1 {
		t.Fatal("disposal must be logged")
	}
}

func TestBroomScrubsStainToNothing(t *testing.T) {
	g, _, _ := newTestGame(1)
	s := g.SpawnStain(Vec3{X: 1, Z: 1})
	g.props.put(&Prop{ID: "broom-1", Role: RoleBroom, Pos: Vec3{X: 1.2, Y: 0.2, Z: 1}})

	// 100 health at 5 per touching poll.
	polls := int(g.cfg.StainHealth / g.cfg.ScrubDecrement)
	for i := 0; i < polls-1; i++ {
		g.PollProximity()
	}
	if _, ok := g.stains[s.ID]; !ok {
		t.Fatal("stain should survive until the last scrub")
	}
	g.PollProximity()
	if _, ok := g.stains[s.ID]; ok {
		t.Fatal("stain should be gone")
	}
	if countType(g.elog, events.EventTypeStainCleaned) != 1 {
		t.Fatal("cleaning must be logged")
	}
}

func TestBroomOutOfReachDoesNothing(t *testing.T) {
	g, _, _ := newTestGame(1)
	s := g.SpawnStain(Vec3{X: 1, Z: 1})
	g.props.put(&Prop{ID: "broom-1", Role: RoleBroom, Pos: Vec3{X: 3, Z: 3}})

	g.PollProximity()
	if g.stains[s.ID].Health != g.cfg.StainHealth {
		t.Fatal("distant broom must not scrub")
	}
}
