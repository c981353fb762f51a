// Package scenario is the external input boundary: JSON documents holding
// a world descriptor, an initial organism list, and a tick limit. Documents
// are validated against an embedded JSON Schema before parsing. Validation
// is structural only; enum-tagged strings inside a valid document parse
// leniently to their unknown values and never reject.
package scenario

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/sim"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("scenario/schema.json", schemaJSON)

// Scenario is a parsed, ready-to-run document.
type Scenario struct {
	World     sim.World
	Organisms []sim.SpawnSpec
	TickLimit int   // 0 = config default
	Seed      int64 // 0 = derive from wall clock
}

// Pointer fields separate "absent" from a legal zero; zero is a valid
// coordinate and a valid heading.
type worldDoc struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Gravity *float64 `json:"gravity"`
	Biome   string   `json:"biome"`
}

type organismDoc struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Species    string   `json:"species"`
	Generation int      `json:"generation"`
	Ancestry   []string `json:"ancestry"`

	Type       string `json:"type"`
	Diet       string `json:"diet"`
	Behavior   string `json:"behavior"`
	Locomotion string `json:"locomotion"`

	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Heading *float64 `json:"heading"`

	Speed     float64 `json:"speed"`
	Size      float64 `json:"size"`
	Energy    float64 `json:"energy"`
	Age       int     `json:"age"`
	MaxAge    int     `json:"maxAge"`
	ReproRate float64 `json:"reproRate"`
	Color     string  `json:"color"`
	Accent    string  `json:"accent"`
}

type document struct {
	World     worldDoc      `json:"world"`
	TickLimit int           `json:"tickLimit"`
	Seed      int64         `json:"seed"`
	Organisms []organismDoc `json:"organisms"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse validates a scenario document against the schema and converts it
// into spawn specs.
func Parse(data []byte) (*Scenario, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	gravity := 1.0
	if doc.World.Gravity != nil {
		gravity = *doc.World.Gravity
	}
	sc := &Scenario{
		World: sim.World{
			Width:   doc.World.Width,
			Height:  doc.World.Height,
			Gravity: gravity,
			Biome:   components.ParseBiome(doc.World.Biome),
		},
		TickLimit: doc.TickLimit,
		Seed:      doc.Seed,
		Organisms: make([]sim.SpawnSpec, 0, len(doc.Organisms)),
	}

	for _, o := range doc.Organisms {
		spec := sim.SpawnSpec{
			ID:         o.ID,
			Name:       o.Name,
			Species:    o.Species,
			Generation: o.Generation,
			Ancestry:   o.Ancestry,

			Type:       components.ParseType(o.Type),
			Diet:       o.Diet,
			Behavior:   components.ParseBehavior(o.Behavior),
			Locomotion: components.ParseLocomotion(o.Locomotion),

			Speed:     o.Speed,
			Size:      o.Size,
			Energy:    o.Energy,
			Age:       o.Age,
			MaxAge:    o.MaxAge,
			ReproRate: o.ReproRate,
			Color:     o.Color,
			Accent:    o.Accent,
		}
		if o.X != nil && o.Y != nil {
			spec.X, spec.Y = *o.X, *o.Y
			spec.HasPosition = true
		}
		if o.Heading != nil {
			spec.Heading = *o.Heading
			spec.HasHeading = true
		}
		sc.Organisms = append(sc.Organisms, spec)
	}
	return sc, nil
}
