package customer

import (
	"testing"
	"time"

	"github.com/holobarista/server/internal/domain/order"
)

func newTestCustomer() *Customer {
	return New("cust-1", order.Fixed(order.ItemCoffee), 20*time.Second)
}

func TestLifecycleHappyPath(t *testing.T) {
	c := newTestCustomer()

	if c.State != StateWaiting {
		t.Fatalf("fresh customer state = %v, want Waiting", c.State)
	}
	if !c.BeginService() {
		t.Fatal("BeginService from Waiting should succeed")
	}
	if !c.Active() {
		t.Fatal("customer should be active while being served")
	}
	if !c.AwaitPayment() {
		t.Fatal("AwaitPayment from BeingServed should succeed")
	}
	if !c.MarkServed() {
		t.Fatal("MarkServed from AwaitingPayment should succeed")
	}
	if c.State != StateServed {
		t.Fatalf("final state = %v, want Served", c.State)
	}
}

func TestInvalidTransitionsRejected(t *testing.T) {
	c := newTestCustomer()

	if c.AwaitPayment() {
		t.Error("AwaitPayment from Waiting must fail")
	}
	if c.MarkServed() {
		t.Error("MarkServed from Waiting must fail")
	}

	c.BeginService()
	if c.BeginService() {
		t.Error("BeginService twice must fail")
	}
}

func TestMarkLeftAngryNotFromTerminalStates(t *testing.T) {
	c := newTestCustomer()
	c.BeginService()
	c.AwaitPayment()
	c.MarkServed()

	if c.MarkLeftAngry() {
		t.Error("served customer must not become angry")
	}

	c2 := newTestCustomer()
	if !c2.MarkLeftAngry() {
		t.Error("waiting customer can leave angry")
	}
	if c2.MarkLeftAngry() {
		t.Error("MarkLeftAngry twice must fail")
	}
}

func TestDrainPatienceClampsAtZero(t *testing.T) {
	c := newTestCustomer()
	c.DrainPatience(60)
	if c.Patience != 40 {
		t.Errorf("patience = %v, want 40", c.Patience)
	}
	c.DrainPatience(60)
	if c.Patience != 0 {
		t.Errorf("patience = %v, want 0 after clamp", c.Patience)
	}
}
