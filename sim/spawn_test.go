package sim

import (
	"testing"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
)

func init() {
	// Embedded defaults are enough for every test in this package.
	config.MustInit("")
}

func testWorld() World {
	return World{Width: 1000, Height: 700, Gravity: 1.0, Biome: components.BiomeForest}
}

func newTestSession(t *testing.T, specs []SpawnSpec) *Session {
	t.Helper()
	return NewSession(Options{World: testWorld(), TickLimit: 1 << 30, Seed: 42}, specs)
}

func TestSpawnDefaultsMissingFields(t *testing.T) {
	s := newTestSession(t, []SpawnSpec{{Type: components.TypeHerbivore}})

	orgs := s.Organisms()
	if len(orgs) != 1 {
		t.Fatalf("population = %d, want 1", len(orgs))
	}
	o := orgs[0]
	sp := config.Cfg().Spawn

	if o.ID == "" {
		t.Error("id was not assigned")
	}
	if o.Name != o.ID || o.Species != o.Name {
		t.Errorf("name/species not defaulted from id: %q %q %q", o.ID, o.Name, o.Species)
	}
	if o.Speed != sp.Speed || o.Size != sp.Size || o.Energy != sp.Energy {
		t.Errorf("vitals not defaulted: speed=%v size=%v energy=%v", o.Speed, o.Size, o.Energy)
	}
	if o.MaxAge != sp.MaxAge || o.ReproRate != sp.ReproRate || o.Color != sp.Color {
		t.Errorf("lifecycle fields not defaulted: maxAge=%v reproRate=%v color=%q", o.MaxAge, o.ReproRate, o.Color)
	}
	if o.Locomotion != "walking" {
		t.Errorf("locomotion = %q, want inferred walking", o.Locomotion)
	}
	pad := o.Size / 2
	if o.X < pad || o.X > 1000-pad || o.Y < pad || o.Y > 700-pad {
		t.Errorf("position (%v, %v) outside padded bounds", o.X, o.Y)
	}
}

func TestInferLocomotion(t *testing.T) {
	tests := []struct {
		name   string
		typ    components.OrganismType
		biome  components.Biome
		behav  components.Behavior
		expect components.Locomotion
	}{
		{"plant is sessile", components.TypePlant, components.BiomeForest, components.BehaviorPassive, components.LocomotionSessile},
		{"microbe floats", components.TypeMicrobe, components.BiomeDesert, components.BehaviorPassive, components.LocomotionFloating},
		{"ocean animal swims", components.TypeHerbivore, components.BiomeOcean, components.BehaviorPassive, components.LocomotionSwimming},
		{"migratory flies", components.TypeHerbivore, components.BiomeForest, components.BehaviorMigratory, components.LocomotionFlying},
		{"decomposer burrows", components.TypeDecomposer, components.BiomeForest, components.BehaviorPassive, components.LocomotionBurrowing},
		{"default walks", components.TypeCarnivore, components.BiomeGrassland, components.BehaviorAggressive, components.LocomotionWalking},
		{"plant wins over ocean", components.TypePlant, components.BiomeOcean, components.BehaviorPassive, components.LocomotionSessile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferLocomotion(tt.typ, tt.biome, tt.behav); got != tt.expect {
				t.Errorf("InferLocomotion = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestSpawnClampsEnergyAndPosition(t *testing.T) {
	s := newTestSession(t, []SpawnSpec{{
		Type:        components.TypeHerbivore,
		X:           -500,
		Y:           5000,
		HasPosition: true,
		Energy:      250,
		Size:        20,
	}})

	o := s.Organisms()[0]
	if o.Energy != 100 {
		t.Errorf("energy = %v, want clamped 100", o.Energy)
	}
	if o.X != 10 {
		t.Errorf("x = %v, want clamped to padding 10", o.X)
	}
	if o.Y != 690 {
		t.Errorf("y = %v, want clamped to 690", o.Y)
	}
}

func TestSpawnKeepsExplicitLocomotion(t *testing.T) {
	s := newTestSession(t, []SpawnSpec{{
		Type:       components.TypeHerbivore,
		Locomotion: components.LocomotionHopping,
	}})
	if got := s.Organisms()[0].Locomotion; got != "hopping" {
		t.Errorf("locomotion = %q, want explicit hopping", got)
	}
}
