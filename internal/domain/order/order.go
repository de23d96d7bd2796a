// Package order defines the drink order domain model.
// This package is PURE and must NOT import any infrastructure packages.
package order

import (
	"fmt"
	"math/rand"
	"strings"
)

// ItemKind represents the kind of drinkable item a customer can order.
type ItemKind string

const (
	ItemCoffee ItemKind = "coffee"
	ItemWater  ItemKind = "water"
)

// Order drawing parameters. Each slot is independently a coffee with
// probability CoffeeChance, otherwise a water.
const (
	MinItems     = 1
	MaxItems     = 2
	CoffeeChance = 0.6
)

// Order is a multiset of item kinds requested by one customer.
// Remaining shrinks as correct items are delivered; it is always a
// sub-multiset of Items.
type Order struct {
	Items     []ItemKind `json:"items"`
	Remaining []ItemKind `json:"remaining"`
}

// New draws a random order: 1-2 items, each coffee (p=0.6) or water.
func New(rng *rand.Rand) *Order {
	count := MinItems + rng.Intn(MaxItems-MinItems+1)
	items := make([]ItemKind, 0, count)
	for i := 0; i < count; i++ {
		if rng.Float64() < CoffeeChance {
			items = append(items, ItemCoffee)
		} else {
			items = append(items, ItemWater)
		}
	}
	return Fixed(items...)
}

// Fixed builds an order with exactly the given items. Used by the
// tutorial (always one coffee) and by snapshot restore.
func Fixed(items ...ItemKind) *Order {
	remaining := make([]ItemKind, len(items))
	copy(remaining, items)
	return &Order{Items: items, Remaining: remaining}
}

// TryFulfill removes one matching instance of kind from the remaining
// order. Returns false without mutation when the kind is not wanted.
func (o *Order) TryFulfill(kind ItemKind) bool {
	for i, k := range o.Remaining {
		if k == kind {
			o.Remaining = append(o.Remaining[:i], o.Remaining[i+1:]...)
			return true
		}
	}
	return false
}

// IsComplete reports whether every ordered item has been delivered.
func (o *Order) IsComplete() bool {
	return len(o.Remaining) == 0
}

// Size returns the total number of ordered items.
func (o *Order) Size() int {
	return len(o.Items)
}

// Delivered returns how many items have been correctly delivered so far.
func (o *Order) Delivered() int {
	return len(o.Items) - len(o.Remaining)
}

// Label renders the order for the customer's speech bubble,
// e.g. "1 Coffee + 1 Water!".
func (o *Order) Label() string {
	return countLabel(o.Items) + "!"
}

// RemainingLabel renders what is still wanted, e.g. "1 Water left".
func (o *Order) RemainingLabel() string {
	return countLabel(o.Remaining) + " left"
}

// WantedLabel joins the raw remaining kinds for the wrong-item
// rejection message, e.g. "coffee & water".
func (o *Order) WantedLabel() string {
	parts := make([]string, len(o.Remaining))
	for i, k := range o.Remaining {
		parts[i] = string(k)
	}
	return strings.Join(parts, " & ")
}

func countLabel(items []ItemKind) string {
	coffees, waters := 0, 0
	for _, k := range items {
		if k == ItemCoffee {
			coffees++
		} else {
			waters++
		}
	}
	var parts []string
	if coffees > 0 {
		plural := ""
		if coffees > 1 {
			plural = "s"
		}
		parts = append(parts, fmt.Sprintf("%d Coffee%s", coffees, plural))
	}
	if waters > 0 {
		parts = append(parts, fmt.Sprintf("%d Water", waters))
	}
	return strings.Join(parts, " + ")
}
