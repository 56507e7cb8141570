package vmath

import "math"

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates from a to b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Wrap maps v into [0, period)
func Wrap(v, period float64) float64 {
	if period <= 0 {
		return 0
	}
	r := math.Mod(v, period)
	if r < 0 {
		r += period
	}
	return r
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
