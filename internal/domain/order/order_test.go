package order

import (
	"math/rand"
	"testing"
)

func TestNewOrderBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		o := New(rng)
		if o.Size() < MinItems || o.Size() > MaxItems {
			t.Fatalf("order size %d out of bounds", o.Size())
		}
		if len(o.Remaining) != len(o.Items) {
			t.Fatalf("fresh order remaining %d != items %d", len(o.Remaining), len(o.Items))
		}
		for _, k := range o.Items {
			if k != ItemCoffee && k != ItemWater {
				t.Fatalf("unexpected item kind %q", k)
			}
		}
	}
}

func TestTryFulfillRemovesOneInstance(t *testing.T) {
	o := Fixed(ItemCoffee, ItemCoffee)

	if !o.TryFulfill(ItemCoffee) {
		t.Fatal("expected first coffee to be accepted")
	}
	if len(o.Remaining) != 1 {
		t.Fatalf("expected 1 remaining, got %d", len(o.Remaining))
	}
	if o.IsComplete() {
		t.Fatal("order should not be complete with one coffee left")
	}
	if !o.TryFulfill(ItemCoffee) {
		t.Fatal("expected second coffee to be accepted")
	}
	if !o.IsComplete() {
		t.Fatal("order should be complete")
	}
}

func TestTryFulfillRejectsUnwantedKind(t *testing.T) {
	o := Fixed(ItemCoffee)

	if o.TryFulfill(ItemWater) {
		t.Fatal("water should be rejected for a coffee-only order")
	}
	if len(o.Remaining) != 1 {
		t.Fatalf("rejection must not mutate order, remaining=%d", len(o.Remaining))
	}
}

func TestRemainingIsSubMultisetOfItems(t *testing.T) {
	o := Fixed(ItemCoffee, ItemWater)
	o.TryFulfill(ItemWater)

	counts := map[ItemKind]int{}
	for _, k := range o.Items {
		counts[k]++
	}
	for _, k := range o.Remaining {
		counts[k]--
		if counts[k] < 0 {
			t.Fatalf("remaining has more %q than ordered", k)
		}
	}
}

func TestLabels(t *testing.T) {
	cases := []struct {
		items []ItemKind
		label string
	}{
		{[]ItemKind{ItemCoffee}, "1 Coffee!"},
		{[]ItemKind{ItemCoffee, ItemCoffee}, "2 Coffees!"},
		{[]ItemKind{ItemWater}, "1 Water!"},
		{[]ItemKind{ItemCoffee, ItemWater}, "1 Coffee + 1 Water!"},
	}
	for _, tc := range cases {
		o := Fixed(tc.items...)
		if got := o.Label(); got != tc.label {
			t.Errorf("Label(%v) = %q, want %q", tc.items, got, tc.label)
		}
	}
}

func TestRemainingLabelAfterPartialDelivery(t *testing.T) {
	o := Fixed(ItemCoffee, ItemWater)
	o.TryFulfill(ItemCoffee)

	if got := o.RemainingLabel(); got != "1 Water left" {
		t.Errorf("RemainingLabel() = %q, want %q", got, "1 Water left")
	}
	if got := o.WantedLabel(); got != "water" {
		t.Errorf("WantedLabel() = %q, want %q", got, "water")
	}
}

func TestWantedLabelJoinsKinds(t *testing.T) {
	o := Fixed(ItemCoffee, ItemWater)
	if got := o.WantedLabel(); got != "coffee & water" {
		t.Errorf("WantedLabel() = %q, want %q", got, "coffee & water")
	}
}
