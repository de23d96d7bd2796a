package engine

import (
	"time"

	"github.com/holobarista/server/internal/events"
)

// Director roll partition. One uniform draw decides what the next
// ambient event is:
//
//	[0.00, 0.15)  calm period, nothing happens
//	[0.15, 0.55)  1-2 customers arrive, staggered
//	[0.55, 0.80)  1-2 stains appear immediately
//	[0.80, 1.00)  rush: 3-4 customers arrive, staggered
const (
	rollCalmMax  = 0.15
	rollWaveMax  = 0.55
	rollStainMax = 0.80
)

// ScheduleNextEvent arms the director for one future roll. Calling it
// again before the timer fires replaces the pending roll; there is
// never more than one armed at a time.
func (g *Game) ScheduleNextEvent() {
	g.scheduleNextIn(g.cfg.SampleEventDelay(g.rng.Float64))
}

func (g *Game) scheduleNextIn(d time.Duration) {
	g.eventGen++
	gen := g.eventGen
	g.sched.After(d, func() { g.directorFire(gen) })
}

// directorFire is the armed roll going off. Stale generations are
// timers that were superseded before firing; they do nothing.
func (g *Game) directorFire(gen int) {
	if gen != g.eventGen || g.mode != ModePlaying {
		return
	}
	g.met.RecordSchedulerFire()

	r := g.rng.Float64()
	switch {
	case r < rollCalmMax:
		g.record(events.EventTypeCalmPeriod, "director", "", nil)
		if g.log != nil {
			g.log.Info("director: calm period")
		}
	case r < rollWaveMax:
		g.spawnWave(1 + g.rng.Intn(2))
		return // the wave re-arms after its last spawn
	case r < rollStainMax:
		n := 1 + g.rng.Intn(2)
		for i := 0; i < n; i++ {
			g.SpawnStain(g.randomFloorPos())
		}
	default:
		g.record(events.EventTypeRushStarted, "director", "", nil)
		g.pres.Notify("Rush hour!")
		g.spawnWave(3 + g.rng.Intn(2))
		return
	}

	g.ScheduleNextEvent()
}

// spawnWave brings n customers through the door one at a time, the
// first at once and the rest a few seconds apart. The director stays
// unarmed until the last one is in; a rejected arrival aborts the
// rest of the wave and re-arms immediately.
func (g *Game) spawnWave(n int) {
	if g.mode != ModePlaying {
		return
	}
	if g.SpawnCustomer() == nil || n <= 1 {
		g.ScheduleNextEvent()
		return
	}
	g.sched.After(g.cfg.SampleStagger(g.rng.Float64), func() { g.spawnWave(n - 1) })
}
