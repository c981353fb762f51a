// Package components defines the ECS components carried by every organism
// entity, plus the closed tag enums that drive behavior and locomotion
// dispatch. Persisted, exportable state (Identity, Taxonomy, Position,
// Vitals) is kept separate from runtime kinematic and animation state
// (Motion, Visual) so snapshots never need to special-case transient fields.
package components

// Identity names an organism and records its lineage.
type Identity struct {
	ID         string   // unique within a session
	Name       string
	Species    string   // species group tag, used for flocking and the social trickle
	Generation int      // 0 for the seeded population
	Ancestry   []string // ancestor names, oldest first
}

// Taxonomy classifies an organism for the interaction and movement rules.
type Taxonomy struct {
	Type       OrganismType
	Diet       string // descriptive only, carried through to snapshots
	Behavior   Behavior
	Locomotion Locomotion
}

// Position is the authoritative world-space location.
type Position struct {
	X, Y float64
}

// Motion is runtime kinematic state: the current heading, per-individual
// speed, and the grazing wander target. Reconstructible, but exported in
// snapshots for observability.
type Motion struct {
	Heading   float64 // radians, 0 along +X
	Speed     float64 // units per tick before locomotion scaling
	TargetX   float64 // grazing wander target, valid when HasTarget
	TargetY   float64
	HasTarget bool
}

// Vitals holds the lifecycle state. Energy is clamped to [0, 100] on every
// write; Age is ticks since birth.
type Vitals struct {
	Energy    float64
	Age       int
	MaxAge    int
	Size      float64 // radius proxy, also the interaction contact scale
	ReproRate float64 // probability scalar, see the reproduction phase
}

// Visual carries colors and the free-running animation state. Seed is the
// per-organism random seed assigned at creation; territorial and migratory
// steering derive their deterministic headings from it.
type Visual struct {
	Color  string // primary color, hex
	Accent string // optional secondary color, hex
	Phase  float64
	Seed   uint32
}
