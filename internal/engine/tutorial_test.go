package engine

import (
	"testing"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/domain/order"
)

func scrubUntilGone(g *Game, id string) {
	for i := 0; i < 50; i++ {
		if _, ok := g.stains[id]; !ok {
			return
		}
		g.ScrubStain(id)
	}
}

func TestTutorialFullRun(t *testing.T) {
	g, sched, _ := newTestGame(2)

	g.Open()
	if g.TutorialStep() != tutorialStepCleanFloor {
		t.Fatalf("step = %d, want clean-floor", g.TutorialStep())
	}
	if len(g.stains) != 1 {
		t.Fatalf("tutorial starts with one stain, got %d", len(g.stains))
	}

	// Step 1: clean the stain.
	var stainID string
	for id := range g.stains {
		stainID = id
	}
	scrubUntilGone(g, stainID)
	if g.TutorialStep() != tutorialStepTrashDustpan {
		t.Fatalf("step = %d, want trash-dustpan", g.TutorialStep())
	}

	// Step 2: dispose of the dustpan.
	g.TrashItem("dustpan-1")
	if g.TutorialStep() != tutorialStepPlaceRegister {
		t.Fatalf("step = %d, want place-register", g.TutorialStep())
	}

	// Steps 3 and 4: furnish the counter.
	g.RegisterProp(&Prop{ID: "register-1", Role: RoleRegister, Pos: Vec3{}})
	if g.TutorialStep() != tutorialStepPlaceMachine {
		t.Fatalf("step = %d, want place-machine", g.TutorialStep())
	}
	g.RegisterProp(&Prop{ID: "machine-1", Role: RoleCoffeeMachine, Pos: Vec3{X: 0.5}})
	if g.TutorialStep() != tutorialStepServeCustomer {
		t.Fatalf("step = %d, want serve-customer", g.TutorialStep())
	}

	// Step 5: the scripted customer wants exactly one coffee.
	if len(g.Queue()) != 1 {
		t.Fatalf("tutorial customer should have spawned, queue = %d", len(g.Queue()))
	}
	c := g.Queue()[0]
	if len(c.Order.Items) != 1 || c.Order.Items[0] != order.ItemCoffee {
		t.Fatalf("tutorial order = %v, want one coffee", c.Order.Items)
	}
	sched.Advance(g.cfg.WalkInDuration)
	if c.State != customer.StateBeingServed {
		t.Fatalf("tutorial customer state = %v", c.State)
	}
	if !g.DeliverItem(order.ItemCoffee) {
		t.Fatal("coffee delivery should succeed")
	}
	if g.TutorialStep() != tutorialStepCollectBill {
		t.Fatalf("step = %d, want collect-bill", g.TutorialStep())
	}

	// Step 6: cash the bill.
	if !g.CollectPayment(c.ID) {
		t.Fatal("payment should succeed")
	}
	if g.TutorialStep() != tutorialStepDone {
		t.Fatalf("step = %d, want done", g.TutorialStep())
	}

	// Step 7: the shop opens on its own shortly after.
	sched.Advance(g.cfg.FirstEventWait)
	if g.Mode() != ModePlaying {
		t.Fatalf("mode = %v, want playing", g.Mode())
	}
}

func TestTutorialStepZeroOutsideTutorial(t *testing.T) {
	g, _, _ := newTestGame(2)
	if g.TutorialStep() != 0 {
		t.Fatalf("closed shop tutorial step = %d, want 0", g.TutorialStep())
	}
}

func TestCleaningStainOutsideTutorialDoesNotAdvance(t *testing.T) {
	g, _, _ := newTestGame(2)
	g.mode = ModePlaying

	s := g.SpawnStain(Vec3{X: 1})
	scrubUntilGone(g, s.ID)
	if g.tutorialStep != 0 {
		t.Fatalf("tutorial step moved outside tutorial: %d", g.tutorialStep)
	}
}
