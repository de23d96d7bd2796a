package engine

import (
	"fmt"

	"github.com/holobarista/server/internal/events"
)

// Stain is a floor mess the player scrubs away with the broom. Health
// drains a fixed amount per scrub poll that touches it.
type Stain struct {
	ID     string  `json:"id"`
	Pos    Vec3    `json:"pos"`
	Health float64 `json:"health"`
}

// SpawnStain drops a new stain on the floor at full health.
func (g *Game) SpawnStain(pos Vec3) *Stain {
	g.stainSeq++
	s := &Stain{
		ID:     fmt.Sprintf("stain-%d", g.stainSeq),
		Pos:    pos,
		Health: g.cfg.StainHealth,
	}
	g.stains[s.ID] = s
	g.record(events.EventTypeStainSpawned, "director", s.ID, pos)
	g.pres.StainSpawned(s.ID, pos)
	return s
}

// ScrubStain applies one scrub's worth of cleaning. The stain is gone
// once its health reaches zero; cleaning the tutorial stain advances
// the tutorial.
func (g *Game) ScrubStain(id string) {
	s, ok := g.stains[id]
	if !ok {
		return
	}
	s.Health -= g.cfg.ScrubDecrement
	if s.Health > 0 {
		g.pres.StainProgress(id, s.Health)
		return
	}

	delete(g.stains, id)
	g.record(events.EventTypeStainCleaned, "player", id, nil)
	g.met.RecordStainCleaned()
	g.pres.StainRemoved(id)
	g.pres.PlaySound("sparkle")

	if g.mode == ModeTutorial && g.tutorialStep == tutorialStepCleanFloor {
		g.advanceTutorial()
	}
}

// Stains returns the live stains by ID.
func (g *Game) Stains() map[string]*Stain {
	return g.stains
}
