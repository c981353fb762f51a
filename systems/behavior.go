package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/geom"
)

// View is the read-only per-tick snapshot of one organism handed to the
// steering policies and the interaction scan. Views are rebuilt every tick
// in registry iteration order; that order decides nearest-ties and
// who-moves-first, which is accepted nondeterminism.
type View struct {
	Entity   ecs.Entity
	ID       string
	Species  string
	Type     components.OrganismType
	Behavior components.Behavior
	Flocking bool
	X, Y     float64
	Heading  float64
	Speed    float64
	Size     float64
	Energy   float64
	Seed     uint32
}

// Steer computes the per-tick displacement for one organism before
// locomotion scaling. Policies only read the snapshot; the single sanctioned
// state write is the grazing wander target on mot.
func Steer(self *View, others []View, tick int, rng *rand.Rand, mot *components.Motion) (dx, dy float64) {
	switch self.Behavior {
	case components.BehaviorPassive:
		return steerWander(self, rng)
	case components.BehaviorAggressive:
		return steerAggressive(self, others, rng)
	case components.BehaviorAmbush:
		return steerAmbush(self, others)
	case components.BehaviorTerritorial:
		return steerTerritorial(self, tick)
	case components.BehaviorSocial, components.BehaviorSchooling:
		return steerFlock(self, others, rng)
	case components.BehaviorGrazing:
		return steerGrazing(self, rng, mot)
	case components.BehaviorSolitary:
		return steerSolitary(self, others, rng)
	case components.BehaviorMigratory:
		return steerMigratory(self, tick)
	default:
		// Unrecognized behavior steers nowhere.
		return 0, 0
	}
}

// steerWander picks a uniformly random direction at full speed. Shared
// fallback for every policy that loses its target.
func steerWander(self *View, rng *rand.Rand) (float64, float64) {
	a := rng.Float64() * 2 * math.Pi
	return math.Cos(a) * self.Speed, math.Sin(a) * self.Speed
}

// preysOn reports whether an organism of type t hunts type v.
func preysOn(t, v components.OrganismType) bool {
	switch t {
	case components.TypeCarnivore:
		return v == components.TypeHerbivore || v == components.TypeOmnivore
	case components.TypeOmnivore:
		return v == components.TypeHerbivore
	default:
		return false
	}
}

// nearestPrey returns the closest organism self preys on, or nil. Ties are
// broken by iteration order: the first organism found at the minimal
// distance wins.
func nearestPrey(self *View, others []View) (*View, float64) {
	var best *View
	bestSq := math.MaxFloat64
	for i := range others {
		o := &others[i]
		if o.ID == self.ID || !preysOn(self.Type, o.Type) {
			continue
		}
		d := geom.DistSq(self.X, self.Y, o.X, o.Y)
		if d < bestSq {
			bestSq = d
			best = o
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, math.Sqrt(bestSq)
}

func steerAggressive(self *View, others []View, rng *rand.Rand) (float64, float64) {
	prey, _ := nearestPrey(self, others)
	if prey == nil {
		return steerWander(self, rng)
	}
	ux, uy := geom.Unit(prey.X-self.X, prey.Y-self.Y)
	f := config.Cfg().Movement.PursuitFactor
	return ux * self.Speed * f, uy * self.Speed * f
}

func steerAmbush(self *View, others []View) (float64, float64) {
	prey, dist := nearestPrey(self, others)
	if prey == nil || dist > config.Cfg().Movement.AmbushRadius {
		// Hold position until something worth bursting at comes close.
		return 0, 0
	}
	ux, uy := geom.Unit(prey.X-self.X, prey.Y-self.Y)
	f := config.Cfg().Movement.AmbushBurst
	return ux * self.Speed * f, uy * self.Speed * f
}

// patrolBase derives a stable heading from the organism's stored seed.
func patrolBase(seed uint32) float64 {
	return float64(seed%6283) / 1000
}

func steerTerritorial(self *View, tick int) (float64, float64) {
	cfg := config.Cfg().Movement
	h := patrolBase(self.Seed) + math.Sin(float64(tick)*0.05+float64(self.Seed%628)/100)*cfg.PatrolSway
	s := self.Speed * cfg.PatrolFactor
	return math.Cos(h) * s, math.Sin(h) * s
}

func steerFlock(self *View, others []View, rng *rand.Rand) (float64, float64) {
	cfg := config.Cfg().Movement
	radiusSq := cfg.FlockRadius * cfg.FlockRadius
	sepDist := 2 * self.Size

	var cx, cy, hx, hy float64
	var sepX, sepY float64
	n := 0
	for i := range others {
		o := &others[i]
		if o.ID == self.ID || o.Species != self.Species {
			continue
		}
		dSq := geom.DistSq(self.X, self.Y, o.X, o.Y)
		if dSq > radiusSq {
			continue
		}
		n++
		cx += o.X
		cy += o.Y
		hx += math.Cos(o.Heading)
		hy += math.Sin(o.Heading)
		if d := math.Sqrt(dSq); d < sepDist && d > 0 {
			sepX += (self.X - o.X) / d
			sepY += (self.Y - o.Y) / d
		}
	}
	if n == 0 {
		return steerWander(self, rng)
	}

	cohX, cohY := geom.Unit(cx/float64(n)-self.X, cy/float64(n)-self.Y)
	alignX, alignY := geom.Unit(hx, hy)
	vx := cohX*cfg.CohesionWeight + alignX*cfg.AlignWeight + sepX*cfg.SeparationWeight
	vy := cohY*cfg.CohesionWeight + alignY*cfg.AlignWeight + sepY*cfg.SeparationWeight
	ux, uy := geom.Unit(vx, vy)
	return ux * self.Speed, uy * self.Speed
}

func steerGrazing(self *View, rng *rand.Rand, mot *components.Motion) (float64, float64) {
	cfg := config.Cfg().Movement
	if !mot.HasTarget || rng.Float64() < cfg.GrazeRetarget {
		mot.TargetX = self.X + (rng.Float64()*2-1)*cfg.GrazeRange
		mot.TargetY = self.Y + (rng.Float64()*2-1)*cfg.GrazeRange
		mot.HasTarget = true
	}
	dx := mot.TargetX - self.X
	dy := mot.TargetY - self.Y
	if geom.Mag(dx, dy) < 1 {
		return 0, 0
	}
	ux, uy := geom.Unit(dx, dy)
	s := self.Speed * cfg.GrazeFactor
	return ux * s, uy * s
}

func steerSolitary(self *View, others []View, rng *rand.Rand) (float64, float64) {
	var nearest *View
	bestSq := math.MaxFloat64
	for i := range others {
		o := &others[i]
		if o.ID == self.ID {
			continue
		}
		d := geom.DistSq(self.X, self.Y, o.X, o.Y)
		if d < bestSq {
			bestSq = d
			nearest = o
		}
	}
	r := config.Cfg().Movement.SolitaryRadius
	if nearest == nil || bestSq > r*r {
		return steerWander(self, rng)
	}
	ux, uy := geom.Unit(self.X-nearest.X, self.Y-nearest.Y)
	return ux * self.Speed, uy * self.Speed
}

func steerMigratory(self *View, tick int) (float64, float64) {
	h := patrolBase(self.Seed) + float64(tick)*config.Cfg().Movement.MigrateDrift
	return math.Cos(h) * self.Speed, math.Sin(h) * self.Speed
}
