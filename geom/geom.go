// Package geom holds the small scalar and vector helpers shared by the
// simulation packages. Positions and headings are float64; headings are
// radians with 0 pointing along +X.
package geom

import "math"

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
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp interpolates linearly between a and b by t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Mod returns the positive modulo (Go's % can return negative).
func Mod(a, b float64) float64 {
	return math.Mod(math.Mod(a, b)+b, b)
}

// NormalizeAngle wraps an angle to [-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleLerp interpolates between two angles along the shortest arc.
func AngleLerp(a, b, t float64) float64 {
	return NormalizeAngle(a + NormalizeAngle(b-a)*t)
}

// DistSq returns the squared distance between two points.
func DistSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between two points.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistSq(x1, y1, x2, y2))
}

// Heading returns the angle of the vector (dx, dy), or 0 for the zero vector.
func Heading(dx, dy float64) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx)
}

// Unit scales (dx, dy) to length 1. The zero vector stays zero.
func Unit(dx, dy float64) (float64, float64) {
	m := math.Sqrt(dx*dx + dy*dy)
	if m == 0 {
		return 0, 0
	}
	return dx / m, dy / m
}

// Mag returns the magnitude of the vector (dx, dy).
func Mag(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}
