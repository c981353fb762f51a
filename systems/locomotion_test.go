package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/terrarium/components"
)

func TestLocomotionModifiers(t *testing.T) {
	tests := []struct {
		name string
		loco components.Locomotion
		want Modifiers
	}{
		{"walking", components.LocomotionWalking, Modifiers{1.0, 1.0}},
		{"swimming", components.LocomotionSwimming, Modifiers{1.2, 0.3}},
		{"flying", components.LocomotionFlying, Modifiers{1.5, 0.2}},
		{"hopping", components.LocomotionHopping, Modifiers{0.9, 1.0}},
		{"slithering", components.LocomotionSlithering, Modifiers{0.7, 1.0}},
		{"burrowing", components.LocomotionBurrowing, Modifiers{0.5, 1.0}},
		{"floating", components.LocomotionFloating, Modifiers{0.6, 0.1}},
		{"crawling", components.LocomotionCrawling, Modifiers{0.4, 1.0}},
		{"gliding", components.LocomotionGliding, Modifiers{1.3, 0.3}},
		{"sessile", components.LocomotionSessile, Modifiers{0, 0}},
		{"unknown", components.LocomotionUnknown, Modifiers{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocomotionModifiers(tt.loco); got != tt.want {
				t.Errorf("LocomotionModifiers(%v) = %+v, want %+v", tt.loco, got, tt.want)
			}
		})
	}
}

func TestOscillationDeterministic(t *testing.T) {
	for _, loco := range []components.Locomotion{
		components.LocomotionFlying, components.LocomotionHopping,
		components.LocomotionSwimming, components.LocomotionWalking,
	} {
		ox1, oy1 := Oscillation(loco, 37, 1.2)
		ox2, oy2 := Oscillation(loco, 37, 1.2)
		if ox1 != ox2 || oy1 != oy2 {
			t.Errorf("%v oscillation not reproducible", loco)
		}
	}
}

func TestOscillationShapes(t *testing.T) {
	// Walkers have no cosmetic offset.
	if ox, oy := Oscillation(components.LocomotionWalking, 10, 0); ox != 0 || oy != 0 {
		t.Errorf("walking oscillation = (%v, %v), want zero", ox, oy)
	}

	// Fliers bob vertically, never laterally.
	sawVertical := false
	for frame := 0; frame < 60; frame++ {
		ox, oy := Oscillation(components.LocomotionFlying, frame, 0)
		if ox != 0 {
			t.Fatalf("flying lateral offset at frame %d: %v", frame, ox)
		}
		if math.Abs(oy) > 0.01 {
			sawVertical = true
		}
	}
	if !sawVertical {
		t.Error("flying never bobbed")
	}

	// Swimmers sway laterally, never vertically.
	for frame := 0; frame < 60; frame++ {
		_, oy := Oscillation(components.LocomotionSwimming, frame, 0)
		if oy != 0 {
			t.Fatalf("swimming vertical offset at frame %d: %v", frame, oy)
		}
	}

	// A hop window's deltas cancel out: the arc lands back at ground level.
	sum := 0.0
	hopped := false
	for frame := 0; frame < 1000; frame++ {
		_, oy := Oscillation(components.LocomotionHopping, frame, 0)
		sum += oy
		if oy != 0 {
			hopped = true
		}
	}
	if !hopped {
		t.Error("hopper never left the ground")
	}
	if math.Abs(sum) > hopAmp*4 {
		t.Errorf("hop deltas accumulate drift: net %v", sum)
	}
}
