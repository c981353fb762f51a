package sim

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/geom"
)

// SpawnSpec describes one organism to insert into the registry. Zero
// values on optional fields mean "use the configured default"; positions
// and headings carry explicit presence flags because zero is a legal value
// for them.
type SpawnSpec struct {
	ID         string // "" = assigned
	Name       string // "" = same as id
	Species    string // "" = same as name
	Generation int
	Ancestry   []string

	Type       components.OrganismType
	Diet       string
	Behavior   components.Behavior
	Locomotion components.Locomotion // unknown = inferred from type/biome/behavior

	X, Y        float64
	HasPosition bool
	Heading     float64
	HasHeading  bool
	Phase       float64
	HasPhase    bool

	Speed     float64 // units/tick, 0 = default
	Size      float64 // 0 = default
	Energy    float64 // 0 = default
	Age       int
	MaxAge    int     // 0 = default
	ReproRate float64 // 0 = default
	Color     string  // "" = default
	Accent    string
}

// InferLocomotion picks a locomotion mode for an organism that arrived
// without one. The rules run in order; the first match wins.
func InferLocomotion(t components.OrganismType, biome components.Biome, b components.Behavior) components.Locomotion {
	switch {
	case t == components.TypePlant:
		return components.LocomotionSessile
	case t == components.TypeMicrobe:
		return components.LocomotionFloating
	case biome == components.BiomeOcean:
		return components.LocomotionSwimming
	case b == components.BehaviorMigratory:
		return components.LocomotionFlying
	case t == components.TypeDecomposer:
		return components.LocomotionBurrowing
	default:
		return components.LocomotionWalking
	}
}

// spawn inserts one organism, defaulting every missing optional field.
// Callers hold s.mu; never call during an open query.
func (s *Session) spawn(spec SpawnSpec) ecs.Entity {
	sp := config.Cfg().Spawn

	if spec.ID == "" {
		s.nextID++
		spec.ID = fmt.Sprintf("org-%d", s.nextID)
	}
	if spec.Name == "" {
		spec.Name = spec.ID
	}
	if spec.Species == "" {
		spec.Species = spec.Name
	}
	if spec.Locomotion == components.LocomotionUnknown {
		spec.Locomotion = InferLocomotion(spec.Type, s.env.Biome, spec.Behavior)
	}
	if spec.Speed == 0 {
		spec.Speed = sp.Speed
	}
	if spec.Size == 0 {
		spec.Size = sp.Size
	}
	if spec.Energy == 0 {
		spec.Energy = sp.Energy
	}
	if spec.MaxAge == 0 {
		spec.MaxAge = sp.MaxAge
	}
	if spec.ReproRate == 0 {
		spec.ReproRate = sp.ReproRate
	}
	if spec.Color == "" {
		spec.Color = sp.Color
	}

	if !spec.HasPosition {
		spec.X = s.rng.Float64() * s.env.Width
		spec.Y = s.rng.Float64() * s.env.Height
	}
	pad := spec.Size / 2
	x := geom.Clamp(spec.X, pad, s.env.Width-pad)
	y := geom.Clamp(spec.Y, pad, s.env.Height-pad)

	heading := spec.Heading
	if !spec.HasHeading {
		heading = s.rng.Float64() * 2 * math.Pi
	}
	phase := spec.Phase
	if !spec.HasPhase {
		phase = s.rng.Float64() * 2 * math.Pi
	}

	ident := components.Identity{
		ID:         spec.ID,
		Name:       spec.Name,
		Species:    spec.Species,
		Generation: spec.Generation,
		Ancestry:   spec.Ancestry,
	}
	tax := components.Taxonomy{
		Type:       spec.Type,
		Diet:       spec.Diet,
		Behavior:   spec.Behavior,
		Locomotion: spec.Locomotion,
	}
	pos := components.Position{X: x, Y: y}
	mot := components.Motion{Heading: heading, Speed: spec.Speed}
	vit := components.Vitals{
		Energy:    geom.Clamp(spec.Energy, 0, 100),
		Age:       spec.Age,
		MaxAge:    spec.MaxAge,
		Size:      spec.Size,
		ReproRate: spec.ReproRate,
	}
	vis := components.Visual{
		Color:  spec.Color,
		Accent: spec.Accent,
		Phase:  phase,
		Seed:   s.rng.Uint32(),
	}

	entity := s.mapper.NewEntity(&ident, &tax, &pos, &mot, &vit, &vis)
	s.alive++
	return entity
}
