// Package customer defines the core domain entity for cafe customers.
// This package is PURE and must NOT import any infrastructure packages.
package customer

import (
	"time"

	"github.com/holobarista/server/internal/domain/order"
)

// State identifies where a customer is in their service lifecycle.
type State string

const (
	StateWaiting         State = "Waiting"
	StateBeingServed     State = "BeingServed"
	StateAwaitingPayment State = "AwaitingPayment"
	StateServed          State = "Served"
	StateLeftAngry       State = "LeftAngry"
)

// Patience bounds. The deadline is sampled once at creation and fixed
// for the customer's lifetime.
const (
	PatienceDeadlineMin = 15 * time.Second
	PatienceDeadlineMax = 25 * time.Second
	PatienceStart       = 100.0
)

// Customer represents one visitor to the cafe.
type Customer struct {
	ID            string        `json:"id"`
	QueuePosition int           `json:"queue_position"` // 0 = being served
	Order         *order.Order  `json:"order"`
	Patience      float64       `json:"patience"` // 0-100, only decays
	Deadline      time.Duration `json:"deadline"` // full patience runs out after this
	State         State         `json:"state"`
}

// New creates a fresh waiting customer with the given order and
// patience deadline.
func New(id string, ord *order.Order, deadline time.Duration) *Customer {
	return &Customer{
		ID:       id,
		Order:    ord,
		Patience: PatienceStart,
		Deadline: deadline,
		State:    StateWaiting,
	}
}

// BeginService moves the customer to the service position.
// Only valid from Waiting.
func (c *Customer) BeginService() bool {
	if c.State != StateWaiting {
		return false
	}
	c.State = StateBeingServed
	c.QueuePosition = 0
	return true
}

// AwaitPayment marks the order complete and the bill pending.
// Only valid from BeingServed.
func (c *Customer) AwaitPayment() bool {
	if c.State != StateBeingServed {
		return false
	}
	c.State = StateAwaitingPayment
	return true
}

// MarkServed finalizes a paid customer. Only valid from AwaitingPayment.
func (c *Customer) MarkServed() bool {
	if c.State != StateAwaitingPayment {
		return false
	}
	c.State = StateServed
	return true
}

// MarkLeftAngry records a patience walk-out. Terminal states are
// left untouched.
func (c *Customer) MarkLeftAngry() bool {
	if c.State == StateServed || c.State == StateLeftAngry {
		return false
	}
	c.State = StateLeftAngry
	return true
}

// DrainPatience lowers patience by the given amount, clamped to zero.
// Patience never increases.
func (c *Customer) DrainPatience(amount float64) {
	c.Patience -= amount
	if c.Patience < 0 {
		c.Patience = 0
	}
}

// Active reports whether the customer is the one at the service
// position, eligible for deliveries.
func (c *Customer) Active() bool {
	return c.State == StateBeingServed
}
