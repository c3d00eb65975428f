package geom

import "math"

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180.0 / math.Pi }

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180.0 }

func SinDeg(d float64) float64 { return math.Sin(Rad(d)) }
func CosDeg(d float64) float64 { return math.Cos(Rad(d)) }

// AsinDeg is asin in degrees with the argument clamped to [-1, 1].
func AsinDeg(x float64) float64 {
	if x >= 1 {
		return 90
	}
	if x <= -1 {
		return -90
	}
	return Deg(math.Asin(x))
}

// NormalizeDeg wraps an angle to [-180, 180).
func NormalizeDeg(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

// AngleDiff returns the absolute difference between two directions, in [0, 180].
func AngleDiff(a, b float64) float64 {
	return math.Abs(NormalizeDeg(a - b))
}

// TurnToward rotates heading toward target by at most maxStep degrees.
func TurnToward(heading, target, maxStep float64) float64 {
	diff := NormalizeDeg(target - heading)
	if math.Abs(diff) <= maxStep {
		return NormalizeDeg(target)
	}
	if diff > 0 {
		return NormalizeDeg(heading + maxStep)
	}
	return NormalizeDeg(heading - maxStep)
}
