package engine

import (
	"fmt"

	"github.com/holobarista/server/internal/events"
)

// Tutorial steps, in order. Each step's completion trigger lives with
// the mechanic it teaches (stain cleaning, trash disposal, prop
// placement, serving, payment).
const (
	tutorialStepCleanFloor    = 1
	tutorialStepTrashDustpan  = 2
	tutorialStepPlaceRegister = 3
	tutorialStepPlaceMachine  = 4
	tutorialStepServeCustomer = 5
	tutorialStepCollectBill   = 6
	tutorialStepDone          = 7
)

// tutorialHints is what the player is told at each step.
var tutorialHints = map[int]string{
	tutorialStepCleanFloor:    "Clean up that stain with the broom",
	tutorialStepTrashDustpan:  "Empty the dustpan into the trash can",
	tutorialStepPlaceRegister: "Place the cash register on the counter",
	tutorialStepPlaceMachine:  "Set up the coffee machine",
	tutorialStepServeCustomer: "Your first customer! Make their coffee",
	tutorialStepCollectBill:   "Collect the payment at the register",
	tutorialStepDone:          "You're ready. Opening for business...",
}

// TutorialStep returns the current step, or 0 outside the tutorial.
func (g *Game) TutorialStep() int {
	if g.mode != ModeTutorial {
		return 0
	}
	return g.tutorialStep
}

// beginTutorial sets up step one: a single stain to clean, plus the
// dustpan the cleaning produces for step two.
func (g *Game) beginTutorial() {
	g.SpawnStain(Vec3{X: g.counter.X + 1, Y: 0, Z: g.counter.Z + 1})
	g.props.put(&Prop{ID: "dustpan-1", Role: RoleDustpan, Pos: Vec3{X: g.counter.X + 1, Z: g.counter.Z + 1}})
	g.pres.Notify(tutorialHints[tutorialStepCleanFloor])
}

// advanceTutorial moves to the next step and runs its entry actions.
func (g *Game) advanceTutorial() {
	if g.mode != ModeTutorial || g.tutorialStep >= tutorialStepDone {
		return
	}
	g.tutorialStep++
	g.record(events.EventTypeTutorialAdvanced, "player", fmt.Sprintf("step-%d", g.tutorialStep), nil)
	g.pres.Notify(tutorialHints[g.tutorialStep])
	if g.log != nil {
		g.log.Info(fmt.Sprintf("tutorial advanced to step %d", g.tutorialStep))
	}

	switch g.tutorialStep {
	case tutorialStepServeCustomer:
		g.SpawnTutorialCustomer()
	case tutorialStepDone:
		g.sched.After(g.cfg.FirstEventWait, func() {
			if g.mode == ModeTutorial {
				g.StartGame()
			}
		})
	}
}
