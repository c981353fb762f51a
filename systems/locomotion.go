package systems

import (
	"math"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/geom"
)

// Modifiers scales an organism's kinematics by its locomotion mode.
type Modifiers struct {
	SpeedMult   float64 // applied to the policy displacement
	GravitySens float64 // applied to the world gravity pull
}

var locomotionTable = map[components.Locomotion]Modifiers{
	components.LocomotionWalking:    {1.0, 1.0},
	components.LocomotionSwimming:   {1.2, 0.3},
	components.LocomotionFlying:     {1.5, 0.2},
	components.LocomotionHopping:    {0.9, 1.0},
	components.LocomotionSlithering: {0.7, 1.0},
	components.LocomotionBurrowing:  {0.5, 1.0},
	components.LocomotionFloating:   {0.6, 0.1},
	components.LocomotionCrawling:   {0.4, 1.0},
	components.LocomotionGliding:    {1.3, 0.3},
	components.LocomotionSessile:    {0, 0},
}

// LocomotionModifiers returns the kinematic scaling for a locomotion tag.
// Unknown tags are neutral: full speed, full gravity.
func LocomotionModifiers(l components.Locomotion) Modifiers {
	if m, ok := locomotionTable[l]; ok {
		return m
	}
	return Modifiers{1, 1}
}

// Cosmetic oscillation amplitudes. Offsets integrate into position each
// tick, so the visible sway stays small relative to organism sizes.
const (
	bobAmp  = 0.5  // vertical bob for fliers and gliders
	hopAmp  = 0.9  // hop arc height driver
	swayAmp = 0.35 // lateral drift for swimmers and floaters
)

// Oscillation returns the cosmetic displacement offset for a locomotion
// mode. It is a pure function of the frame counter and the organism's
// animation phase, so identical runs produce identical motion.
func Oscillation(l components.Locomotion, frame int, phase float64) (ox, oy float64) {
	switch l {
	case components.LocomotionFlying, components.LocomotionGliding:
		return 0, -math.Sin(float64(frame)*0.15+phase) * bobAmp
	case components.LocomotionHopping:
		// Rising-then-falling arc during the first half of the phase
		// window; grounded for the second half. The cosine deltas over
		// one window sum to zero, so hops land where they started.
		t := geom.Mod(float64(frame)*0.25+phase, 2*math.Pi)
		if t < math.Pi {
			return 0, -math.Cos(t) * hopAmp
		}
		return 0, 0
	case components.LocomotionSwimming, components.LocomotionFloating:
		return math.Sin(float64(frame)*0.1+phase) * swayAmp, 0
	default:
		return 0, 0
	}
}
