package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
)

// ParticleKind identifies what spawned an effect particle.
type ParticleKind uint8

const (
	ParticleMovement ParticleKind = iota
	ParticleAmbient
	ParticleInteraction
	ParticleBirth
	ParticleDeath
)

// Particle is one short-lived visual effect record.
type Particle struct {
	X, Y       float64
	VelX, VelY float64
	Color      string
	Size       float64
	Alpha      float64
	Life       int
	MaxLife    int
	Kind       ParticleKind
}

// ParticleSystem manages the bounded effect pool. Purely cosmetic: it never
// errors and never blocks the simulation state.
type ParticleSystem struct {
	particles []Particle
	cap       int
}

// NewParticleSystem creates a pool bounded at the given capacity.
func NewParticleSystem(capacity int) *ParticleSystem {
	if capacity < 1 {
		capacity = 300
	}
	return &ParticleSystem{
		particles: make([]Particle, 0, capacity),
		cap:       capacity,
	}
}

// Spawn appends a particle, evicting the oldest entry when the pool is full.
func (s *ParticleSystem) Spawn(p Particle) {
	p.MaxLife = p.Life
	p.Alpha = 1
	if len(s.particles) >= s.cap {
		// Survivors keep insertion order, so index 0 is the oldest.
		copy(s.particles, s.particles[1:])
		s.particles[len(s.particles)-1] = p
		return
	}
	s.particles = append(s.particles, p)
}

// Update advances every particle by its velocity, fades alpha with the
// remaining-life fraction, and compacts expired entries in place.
func (s *ParticleSystem) Update() {
	alive := 0
	for i := range s.particles {
		p := &s.particles[i]
		p.Life--
		if p.Life <= 0 {
			continue
		}
		p.X += p.VelX
		p.Y += p.VelY
		p.Alpha = float64(p.Life) / float64(p.MaxLife)
		s.particles[alive] = s.particles[i]
		alive++
	}
	s.particles = s.particles[:alive]
}

// Count returns the current number of active particles.
func (s *ParticleSystem) Count() int {
	return len(s.particles)
}

// Particles returns the live pool for snapshot building.
func (s *ParticleSystem) Particles() []Particle {
	return s.particles
}

// movement particle tints per locomotion family
var movementTints = map[components.Locomotion]string{
	components.LocomotionSwimming: "#9fd8ff",
	components.LocomotionFloating: "#9fd8ff",
	components.LocomotionFlying:   "#e8f4ff",
	components.LocomotionGliding:  "#e8f4ff",
	components.LocomotionHopping:  "#d9c8a0",
	components.LocomotionWalking:  "#c7b899",
}

// EmitMovement probabilistically leaves a trail particle behind a moving
// organism. The caller supplies the post-move position.
func (s *ParticleSystem) EmitMovement(rng *rand.Rand, x, y, size float64, loco components.Locomotion) {
	cfg := config.Cfg().Particles
	if rng.Float64() > cfg.MoveEmitChance {
		return
	}
	tint, ok := movementTints[loco]
	if !ok {
		tint = "#c7b899"
	}
	life := cfg.LifeMin + rng.Intn(cfg.LifeMax-cfg.LifeMin+1)
	s.Spawn(Particle{
		X:     x + (rng.Float64()-0.5)*size,
		Y:     y + (rng.Float64()-0.5)*size,
		VelX:  (rng.Float64() - 0.5) * 0.2,
		VelY:  (rng.Float64() - 0.5) * 0.2,
		Color: tint,
		Size:  1 + rng.Float64()*1.5,
		Life:  life / 2,
		Kind:  ParticleMovement,
	})
}

// ambientProfile describes the biome's idle particle style.
type ambientProfile struct {
	color      string
	vyLo, vyHi float64
	vxSpread   float64
}

var ambientProfiles = map[components.Biome]ambientProfile{
	components.BiomeForest:    {"#7a9b4e", 0.1, 0.35, 0.25},   // falling leaves
	components.BiomeDesert:    {"#d8c07a", -0.05, 0.05, 0.8},  // wind-blown dust
	components.BiomeOcean:     {"#bfe3ff", -0.35, -0.1, 0.15}, // rising bubbles
	components.BiomeTundra:    {"#f4f8ff", 0.05, 0.2, 0.3},    // drifting snow
	components.BiomeSwamp:     {"#a8d08d", -0.1, 0.1, 0.2},    // spores
	components.BiomeGrassland: {"#e8e26a", -0.05, 0.08, 0.45}, // pollen
}

// EmitAmbient probabilistically spawns one biome-flavored particle at a
// random point, with the lateral drift shaped by the noise field so nearby
// spawns share a wind direction.
func (s *ParticleSystem) EmitAmbient(rng *rand.Rand, width, height float64, biome components.Biome, noise *PerlinNoise, frame int) {
	cfg := config.Cfg().Particles
	if rng.Float64() > cfg.AmbientChance {
		return
	}
	prof, ok := ambientProfiles[biome]
	if !ok {
		prof = ambientProfiles[components.BiomeForest]
	}
	x := rng.Float64() * width
	y := rng.Float64() * height
	drift := 0.0
	if noise != nil {
		drift = noise.Noise3D(x*0.005, y*0.005, float64(frame)*0.002) * prof.vxSpread
	}
	life := cfg.LifeMin + rng.Intn(cfg.LifeMax-cfg.LifeMin+1)
	s.Spawn(Particle{
		X:     x,
		Y:     y,
		VelX:  drift + (rng.Float64()-0.5)*prof.vxSpread*0.5,
		VelY:  prof.vyLo + rng.Float64()*(prof.vyHi-prof.vyLo),
		Color: prof.color,
		Size:  1 + rng.Float64()*2,
		Life:  life,
		Kind:  ParticleAmbient,
	})
}

// EmitBurst spawns a radial burst of count particles, used for interaction,
// birth, and death effects.
func (s *ParticleSystem) EmitBurst(rng *rand.Rand, x, y float64, count int, color string, kind ParticleKind) {
	cfg := config.Cfg().Particles
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := 0.4 + rng.Float64()*0.8
		life := cfg.LifeMin/2 + rng.Intn(cfg.LifeMin/2+1)
		s.Spawn(Particle{
			X:     x + (rng.Float64()-0.5)*4,
			Y:     y + (rng.Float64()-0.5)*4,
			VelX:  math.Cos(angle) * speed,
			VelY:  math.Sin(angle) * speed,
			Color: color,
			Size:  1.5 + rng.Float64()*1.5,
			Life:  life,
			Kind:  kind,
		})
	}
}
