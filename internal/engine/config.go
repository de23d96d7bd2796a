package engine

import "time"

// Config holds every tunable of the cafe simulation. All durations
// and radii default to the values the game was balanced with.
type Config struct {
	// Queue
	QueueCapacity int // includes the customer being served

	// Patience
	PatienceTick        time.Duration
	PatienceDeadlineMin time.Duration
	PatienceDeadlineMax time.Duration

	// Economy
	ItemPrice      int // credit per ordered item on payment
	WalkoutPenalty int

	// Random event director
	EventDelayMin  time.Duration
	EventDelayMax  time.Duration
	FirstEventWait time.Duration
	StaggerMin     time.Duration
	StaggerMax     time.Duration

	// Movement and transitions
	WalkInDuration    time.Duration
	AngryWalkDuration time.Duration
	AdvanceDelay      time.Duration

	// Stains
	StainHealth      float64
	ScrubDecrement   float64
	InitialStains    int
	InitialStainWait time.Duration

	// Proximity detection
	PollInterval     time.Duration
	DeliveryRadiusXZ float64
	DeliveryRadiusY  float64
	RegisterRadius   float64
	TrashRadius      float64
	BroomRadiusXZ    float64
	BroomRadiusY     float64
}

// DefaultConfig returns the balanced production parameters.
func DefaultConfig() *Config {
	return &Config{
		QueueCapacity: 4,

		PatienceTick:        200 * time.Millisecond,
		PatienceDeadlineMin: 15 * time.Second,
		PatienceDeadlineMax: 25 * time.Second,

		ItemPrice:      5,
		WalkoutPenalty: 5,

		EventDelayMin:  10 * time.Second,
		EventDelayMax:  25 * time.Second,
		FirstEventWait: 3 * time.Second,
		StaggerMin:     3 * time.Second,
		StaggerMax:     5 * time.Second,

		WalkInDuration:    2500 * time.Millisecond,
		AngryWalkDuration: 2 * time.Second,
		AdvanceDelay:      2 * time.Second,

		StainHealth:      100,
		ScrubDecrement:   5,
		InitialStains:    4,
		InitialStainWait: 2 * time.Second,

		PollInterval:     50 * time.Millisecond,
		DeliveryRadiusXZ: 0.6,
		DeliveryRadiusY:  2.0,
		RegisterRadius:   0.4,
		TrashRadius:      0.4,
		BroomRadiusXZ:    0.4,
		BroomRadiusY:     0.5,
	}
}

// SampleDeadline draws a patience deadline uniformly from the
// configured range.
func (c *Config) SampleDeadline(randFloat func() float64) time.Duration {
	span := c.PatienceDeadlineMax - c.PatienceDeadlineMin
	return c.PatienceDeadlineMin + time.Duration(randFloat()*float64(span))
}

// SampleEventDelay draws the wait before the next random event.
func (c *Config) SampleEventDelay(randFloat func() float64) time.Duration {
	span := c.EventDelayMax - c.EventDelayMin
	return c.EventDelayMin + time.Duration(randFloat()*float64(span))
}

// SampleStagger draws the gap between consecutive arrivals in one wave.
func (c *Config) SampleStagger(randFloat func() float64) time.Duration {
	span := c.StaggerMax - c.StaggerMin
	return c.StaggerMin + time.Duration(randFloat()*float64(span))
}
