// Package mathx holds the small integer helpers shared by the drivers and
// services. Everything here is allocation free and safe on the MCU.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Integer](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min[T constraints.Integer](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs for signed integers. Abs of the most negative value overflows.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Percent maps x from the calibrated range [lo, hi] onto 0..100, truncating.
// Readings outside the range saturate. A degenerate range reads as 0.
func Percent(x, lo, hi uint16) uint8 {
	if hi <= lo || x <= lo {
		return 0
	}
	if x >= hi {
		return 100
	}
	return uint8(uint32(x-lo) * 100 / uint32(hi-lo))
}
