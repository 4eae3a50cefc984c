// Package vmath provides the scalar and vector helpers shared by the
// interaction core. All quantities are float64 in meters and seconds;
// vectors are gonum r3.Vec, orientations are gonum unit quaternions.
package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// MapRange maps x from [inLo, inHi] to [outLo, outHi], clamping to the
// output endpoints for inputs outside the domain.
func MapRange(x, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	t := Clamp01((x - inLo) / (inHi - inLo))
	return outLo + t*(outHi-outLo)
}

// ClampMagnitude limits the magnitude of v to maxMag.
func ClampMagnitude(v r3.Vec, maxMag float64) r3.Vec {
	mag := r3.Norm(v)
	if mag <= maxMag || mag == 0 {
		return v
	}
	return r3.Scale(maxMag/mag, v)
}

// SafeNormalize returns the unit vector of v, or the zero vector when v is
// zero or non-finite.
func SafeNormalize(v r3.Vec) r3.Vec {
	mag := r3.Norm(v)
	if mag == 0 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return r3.Vec{}
	}
	return r3.Scale(1/mag, v)
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}
