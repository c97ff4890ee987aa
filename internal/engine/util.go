package engine

import "math"

// round2 rounds to two decimals for price-facing output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
