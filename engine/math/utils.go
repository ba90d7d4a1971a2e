package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// MinOf returns the smallest of the given values. The second result is false
// when no value is given.
func MinOf[T constraints.Ordered](values ...T) (T, bool) {
	var lowest T
	if len(values) == 0 {
		return lowest, false
	}
	lowest = values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest, true
}

// AlignUp rounds `v` up to the next multiple of `alignment`, which must be
// a power of two.
func AlignUp[T constraints.Unsigned](v, alignment T) T {
	if alignment == 0 {
		return v
	}
	return (v + alignment - 1) &^ (alignment - 1)
}
