package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeNormalize returns the unit vector of v and false when v is too short
// to have a direction. cp.Vector.Normalize yields NaN for the zero vector.
func SafeNormalize(v cp.Vector) (cp.Vector, bool) {
	l := v.Length()
	if l < Epsilon || math.IsNaN(l) {
		return cp.Vector{}, false
	}
	return v.Mult(1 / l), true
}

// Angle returns the heading of v in radians.
func Angle(v cp.Vector) float64 {
	return math.Atan2(v.Y, v.X)
}

// ApproachAngle rotates current toward target by at most step radians,
// taking the short way around.
func ApproachAngle(current, target, step float64) float64 {
	diff := math.Remainder(target-current, 2*math.Pi)
	if math.Abs(diff) <= step {
		return target
	}
	if diff > 0 {
		return current + step
	}
	return current - step
}
