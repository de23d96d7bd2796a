package engine

import "time"

// Scheduler is how the simulation core arranges future work. The
// engine loop implements it with real timers; tests substitute a
// deterministic fake. Callbacks always run on the engine goroutine.
type Scheduler interface {
	// After runs fn once the duration elapses.
	After(d time.Duration, fn func())
	// Now returns the scheduler's current time.
	Now() time.Time
}

// Clock abstracts wall time for the engine loop.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
