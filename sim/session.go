// Package sim owns the simulation session: the ark-backed organism
// registry, the per-tick update, and the scheduler that drives it. One
// Session is one run; a finished session idles for ambient visuals until
// it is discarded and is never restarted.
package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/systems"
	"github.com/pthm-cable/terrarium/telemetry"
)

// World is the read-only environment descriptor for a run. Bounds must be
// positive; the scenario loader rejects degenerate worlds at the boundary
// and the tick loop does not re-check them.
type World struct {
	Width   float64
	Height  float64
	Gravity float64 // scalar multiplier, 1.0 = baseline
	Biome   components.Biome
}

// Mode is the scheduler state of a session.
type Mode uint8

const (
	ModeRunning Mode = iota
	ModePaused
	ModeFinishedActive
	ModeFinishedIdle
)

func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	case ModeFinishedActive:
		return "finished-active"
	case ModeFinishedIdle:
		return "finished-idle"
	}
	return "unknown"
}

// Options configures a new session.
type Options struct {
	World     World
	TickLimit int                      // 0 = config default
	Seed      int64                    // 0 = derive from wall clock
	Hooks     Hooks                    // may be nil
	Output    *telemetry.OutputManager // may be nil
}

// Session owns the authoritative organism registry and all per-run state.
// The registry is mutated only on the tick goroutine; the public query
// surface serializes against whole ticks with a mutex, never against
// individual organisms.
type Session struct {
	mu sync.Mutex

	world  *ecs.World
	mapper *ecs.Map6[components.Identity, components.Taxonomy, components.Position, components.Motion, components.Vitals, components.Visual]
	filter *ecs.Filter6[components.Identity, components.Taxonomy, components.Position, components.Motion, components.Vitals, components.Visual]

	taxMap *ecs.Map1[components.Taxonomy]
	posMap *ecs.Map1[components.Position]
	motMap *ecs.Map1[components.Motion]
	vitMap *ecs.Map1[components.Vitals]
	visMap *ecs.Map1[components.Visual]

	env   World
	rng   *rand.Rand
	seed  int64
	hooks Hooks

	particles *systems.ParticleSystem
	noise     *systems.PerlinNoise
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	out       *telemetry.OutputManager
	windows   []telemetry.WindowStats

	mode      Mode
	tick      int // authoritative tick, frozen at the limit
	frame     int // cosmetic time base, keeps advancing in idle mode
	tickLimit int
	alive     int
	nextID    int
}

// NewSession builds a session for one run and spawns the initial
// population. Organisms with missing optional fields are defaulted, never
// rejected.
func NewSession(opts Options, specs []SpawnSpec) *Session {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	limit := opts.TickLimit
	if limit == 0 {
		limit = cfg.Clock.TickLimit
	}
	env := opts.World
	if env.Width == 0 || env.Height == 0 {
		env = World{
			Width:   cfg.World.Width,
			Height:  cfg.World.Height,
			Gravity: cfg.World.Gravity,
			Biome:   components.ParseBiome(cfg.World.Biome),
		}
	}

	world := ecs.NewWorld()
	s := &Session{
		world: world,
		mapper: ecs.NewMap6[
			components.Identity,
			components.Taxonomy,
			components.Position,
			components.Motion,
			components.Vitals,
			components.Visual,
		](world),
		filter: ecs.NewFilter6[
			components.Identity,
			components.Taxonomy,
			components.Position,
			components.Motion,
			components.Vitals,
			components.Visual,
		](world),
		taxMap: ecs.NewMap1[components.Taxonomy](world),
		posMap: ecs.NewMap1[components.Position](world),
		motMap: ecs.NewMap1[components.Motion](world),
		vitMap: ecs.NewMap1[components.Vitals](world),
		visMap: ecs.NewMap1[components.Visual](world),

		env:   env,
		rng:   rand.New(rand.NewSource(seed)),
		seed:  seed,
		hooks: opts.Hooks,

		particles: systems.NewParticleSystem(cfg.Particles.PoolCap),
		noise:     systems.NewPerlinNoise(seed),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		out:       opts.Output,

		tickLimit: limit,
	}

	for _, spec := range specs {
		s.spawn(spec)
	}

	return s
}

// Seed returns the effective RNG seed of the run.
func (s *Session) Seed() int64 {
	return s.seed
}

// WorldDescriptor returns the environment of the run.
func (s *Session) WorldDescriptor() World {
	return s.env
}

// Tick returns the current authoritative tick count.
func (s *Session) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Mode returns the current scheduler state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ParticleCount returns the number of live effect particles.
func (s *Session) ParticleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.particles.Count()
}

// Organisms returns a snapshot of the live population.
func (s *Session) Organisms() []telemetry.OrganismState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Windows returns the flushed telemetry windows of the run so far.
func (s *Session) Windows() []telemetry.WindowStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]telemetry.WindowStats, len(s.windows))
	copy(out, s.windows)
	return out
}

// Snapshot exports the full session state for persistence.
func (s *Session) Snapshot() *telemetry.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        s.seed,
		Tick:        s.tick,
		WorldWidth:  s.env.Width,
		WorldHeight: s.env.Height,
		Gravity:     s.env.Gravity,
		Biome:       s.env.Biome.String(),
		Organisms:   s.snapshotLocked(),
	}
}

// Pause suspends active ticking. Only a running session can pause.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeRunning {
		return false
	}
	s.mode = ModePaused
	return true
}

// Resume returns a paused session to running.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModePaused {
		return false
	}
	s.mode = ModeRunning
	return true
}

// StopActive tears down the active run and enters idle mode without firing
// the completion hook. The organism list stays valid. There is no way back
// to running; a new run needs a new session.
func (s *Session) StopActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeRunning && s.mode != ModePaused {
		return false
	}
	s.mode = ModeFinishedIdle
	return true
}

// Click forwards an external pointer interaction on an organism to the
// hooks. An unknown id is a silent no-op.
func (s *Session) Click(id string) {
	s.mu.Lock()
	var found *telemetry.OrganismState
	query := s.filter.Query()
	for query.Next() {
		ident, tax, pos, mot, vit, vis := query.Get()
		if ident.ID != id {
			continue
		}
		state := organismState(ident, tax, pos, mot, vit, vis)
		found = &state
	}
	hooks := s.hooks
	s.mu.Unlock()

	if found != nil && hooks != nil {
		hooks.OnOrganismClick(*found)
	}
}

// snapshotLocked builds the exportable organism list in registry iteration
// order. Callers hold s.mu.
func (s *Session) snapshotLocked() []telemetry.OrganismState {
	out := make([]telemetry.OrganismState, 0, s.alive)
	query := s.filter.Query()
	for query.Next() {
		ident, tax, pos, mot, vit, vis := query.Get()
		out = append(out, organismState(ident, tax, pos, mot, vit, vis))
	}
	return out
}

func organismState(
	ident *components.Identity,
	tax *components.Taxonomy,
	pos *components.Position,
	mot *components.Motion,
	vit *components.Vitals,
	vis *components.Visual,
) telemetry.OrganismState {
	var ancestry []string
	if len(ident.Ancestry) > 0 {
		ancestry = append([]string(nil), ident.Ancestry...)
	}
	return telemetry.OrganismState{
		ID:         ident.ID,
		Name:       ident.Name,
		Species:    ident.Species,
		Generation: ident.Generation,
		Ancestry:   ancestry,
		Type:       tax.Type.String(),
		Diet:       tax.Diet,
		Behavior:   tax.Behavior.String(),
		Locomotion: tax.Locomotion.String(),
		X:          pos.X,
		Y:          pos.Y,
		Heading:    mot.Heading,
		Speed:      mot.Speed,
		Energy:     vit.Energy,
		Age:        vit.Age,
		MaxAge:     vit.MaxAge,
		Size:       vit.Size,
		ReproRate:  vit.ReproRate,
		Color:      vis.Color,
		Accent:     vis.Accent,
	}
}
