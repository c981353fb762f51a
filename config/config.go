// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Clock       ClockConfig       `yaml:"clock"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Energy      EnergyConfig      `yaml:"energy"`
	Interaction InteractionConfig `yaml:"interaction"`
	Movement    MovementConfig    `yaml:"movement"`
	Particles   ParticlesConfig   `yaml:"particles"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Observer    ObserverConfig    `yaml:"observer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the fallback world used when no scenario file supplies one.
type WorldConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Gravity float64 `yaml:"gravity"` // scalar multiplier, 1.0 = baseline
	Biome   string  `yaml:"biome"`
}

// ClockConfig holds tick scheduling parameters.
type ClockConfig struct {
	TickHz    int `yaml:"tick_hz"`    // active simulation rate
	IdleHz    int `yaml:"idle_hz"`    // reduced rate after completion
	TickLimit int `yaml:"tick_limit"` // ticks until the run completes
}

// SpawnConfig holds defaults applied to organisms that arrive with
// missing optional fields, and the population limit.
type SpawnConfig struct {
	PopulationCap int     `yaml:"population_cap"`
	Energy        float64 `yaml:"energy"`
	Speed         float64 `yaml:"speed"`
	Size          float64 `yaml:"size"`
	MaxAge        int     `yaml:"max_age"`
	ReproRate     float64 `yaml:"repro_rate"`
	Color         string  `yaml:"color"`
}

// EnergyConfig holds the per-tick energy economy and reproduction triggers.
type EnergyConfig struct {
	Decay           float64 `yaml:"decay"`            // drain per tick for non-plants
	Photosynthesis  float64 `yaml:"photosynthesis"`   // gain per tick for plants
	ReproThreshold  float64 `yaml:"repro_threshold"`  // minimum energy to attempt reproduction
	ReproChance     float64 `yaml:"repro_chance"`     // per-tick probability scalar (x repro_rate)
	ReproCost       float64 `yaml:"repro_cost"`       // parent energy paid per birth
	OffspringEnergy float64 `yaml:"offspring_energy"` // newborn starting energy
	OffspringJitter float64 `yaml:"offspring_jitter"` // +/- fraction applied to size and speed
	SpawnSpread     float64 `yaml:"spawn_spread"`     // birth position jitter, multiples of parent size
}

// InteractionConfig holds contact-rule energy deltas.
type InteractionConfig struct {
	PredationGain   float64 `yaml:"predation_gain"`   // predator gain per feeding contact
	PredationDamage float64 `yaml:"predation_damage"` // animal victim loss
	PlantDamage     float64 `yaml:"plant_damage"`     // plant victim loss (predation or grazing)
	GrazeGain       float64 `yaml:"graze_gain"`       // herbivore gain per grazing contact
	SocialTrickle   float64 `yaml:"social_trickle"`   // both-sides gain for flocking same-species pairs
}

// MovementConfig holds steering-policy tuning.
type MovementConfig struct {
	PursuitFactor    float64 `yaml:"pursuit_factor"`    // aggressive chase speed multiplier
	AmbushRadius     float64 `yaml:"ambush_radius"`     // prey detection radius for ambushers
	AmbushBurst      float64 `yaml:"ambush_burst"`      // burst speed multiplier (>= 2)
	PatrolFactor     float64 `yaml:"patrol_factor"`     // territorial speed multiplier
	PatrolSway       float64 `yaml:"patrol_sway"`       // radians of patrol heading oscillation
	FlockRadius      float64 `yaml:"flock_radius"`      // cohesion/alignment neighborhood
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	AlignWeight      float64 `yaml:"align_weight"`
	SeparationWeight float64 `yaml:"separation_weight"`
	GrazeFactor      float64 `yaml:"graze_factor"`    // grazing speed multiplier
	GrazeRange       float64 `yaml:"graze_range"`     // wander target re-roll spread
	GrazeRetarget    float64 `yaml:"graze_retarget"`  // per-tick re-roll probability
	SolitaryRadius   float64 `yaml:"solitary_radius"` // flee trigger distance
	MigrateDrift     float64 `yaml:"migrate_drift"`   // heading drift per tick for migrators
	GravityPull      float64 `yaml:"gravity_pull"`    // sink per tick at gravity 1.0, sensitivity 1.0
	PhaseRate        float64 `yaml:"phase_rate"`      // animation phase advance per tick
}

// ParticlesConfig holds the effect-pool tuning.
type ParticlesConfig struct {
	PoolCap          int     `yaml:"pool_cap"`
	MoveEmitChance   float64 `yaml:"move_emit_chance"`  // per moving organism per tick
	AmbientChance    float64 `yaml:"ambient_chance"`    // per tick
	InteractionBurst int     `yaml:"interaction_burst"` // particles per resolved feeding
	BirthBurst       int     `yaml:"birth_burst"`
	DeathBurst       int     `yaml:"death_burst"`
	LifeMin          int     `yaml:"life_min"` // ticks
	LifeMax          int     `yaml:"life_max"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per aggregation window
	PerfWindow  int `yaml:"perf_window"`  // ticks averaged for phase timings
}

// ObserverConfig holds the streaming server parameters.
type ObserverConfig struct {
	Addr string `yaml:"addr"` // listen address, empty disables the server
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval time.Duration // from Clock.TickHz
	IdleInterval time.Duration // from Clock.IdleHz
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Clock.TickHz < 1 {
		c.Clock.TickHz = 20
	}
	if c.Clock.IdleHz < 1 {
		c.Clock.IdleHz = c.Clock.TickHz / 2
		if c.Clock.IdleHz < 1 {
			c.Clock.IdleHz = 1
		}
	}
	c.Derived.TickInterval = time.Second / time.Duration(c.Clock.TickHz)
	c.Derived.IdleInterval = time.Second / time.Duration(c.Clock.IdleHz)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
