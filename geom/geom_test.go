package geom

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"below", -1, 0, 100, 0},
		{"above", 150, 0, 100, 100},
		{"inside", 42, 0, 100, 42},
		{"at lo", 0, 0, 100, 0},
		{"at hi", 100, 0, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"positive", 7, 5, 2},
		{"negative", -3, 5, 2},
		{"zero", 0, 5, 0},
		{"wraps full turn", 11, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mod(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Mod(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		a    float64
		want float64
	}{
		{"already normal", 1, 1},
		{"just over pi", math.Pi + 0.5, -math.Pi + 0.5},
		{"just under -pi", -math.Pi - 0.5, math.Pi - 0.5},
		{"two turns", 4 * math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAngle(tt.a); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.a, got, tt.want)
			}
		})
	}
}

func TestAngleLerpShortestArc(t *testing.T) {
	// Crossing the -pi/pi seam must go the short way.
	a := 3.0
	b := -3.0
	got := AngleLerp(a, b, 0.5)
	want := math.Pi // midpoint of the short arc through the seam
	if math.Abs(math.Abs(got)-want) > 1e-9 {
		t.Errorf("AngleLerp(%v, %v, 0.5) = %v, want +/-%v", a, b, got, want)
	}
}

func TestDist(t *testing.T) {
	if got := Dist(0, 0, 3, 4); math.Abs(got-5) > 1e-9 {
		t.Errorf("Dist = %v, want 5", got)
	}
	if got := DistSq(1, 1, 4, 5); math.Abs(got-25) > 1e-9 {
		t.Errorf("DistSq = %v, want 25", got)
	}
}

func TestUnit(t *testing.T) {
	dx, dy := Unit(3, 4)
	if math.Abs(dx-0.6) > 1e-9 || math.Abs(dy-0.8) > 1e-9 {
		t.Errorf("Unit(3, 4) = (%v, %v), want (0.6, 0.8)", dx, dy)
	}

	dx, dy = Unit(0, 0)
	if dx != 0 || dy != 0 {
		t.Errorf("Unit(0, 0) = (%v, %v), want (0, 0)", dx, dy)
	}
}

func TestHeading(t *testing.T) {
	if got := Heading(0, 1); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Heading(0, 1) = %v, want pi/2", got)
	}
	if got := Heading(0, 0); got != 0 {
		t.Errorf("Heading(0, 0) = %v, want 0", got)
	}
}
