// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"fmt"
	"time"
)

// PatienceDecrement computes the constant linear decay applied each
// tick so patience reaches exactly zero at the deadline, regardless of
// the chosen tick rate.
func PatienceDecrement(deadline, tick time.Duration) float64 {
	if deadline <= 0 || tick <= 0 {
		return 100
	}
	return 100 / (float64(deadline) / float64(tick))
}

// BarWidth maps patience to the visual bar width fraction [0,1].
func BarWidth(patience float64) float64 {
	return clampPct(patience / 100)
}

// BarColor interpolates the patience bar from green (full) to red
// (empty): r = 510*(1-pct), g = 510*pct, both clamped to [0,255].
func BarColor(patience float64) (r, g, b int) {
	pct := clampPct(patience / 100)
	r = clampByte(int(510 * (1 - pct)))
	g = clampByte(int(510 * pct))
	return r, g, 0
}

// BarColorHex renders BarColor as a "#rrggbb" string for clients.
func BarColorHex(patience float64) string {
	r, g, b := BarColor(patience)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clampPct(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
