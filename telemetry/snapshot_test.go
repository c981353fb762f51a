package telemetry

import (
	"reflect"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	snap := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        42,
		Tick:        317,
		WorldWidth:  1000,
		WorldHeight: 700,
		Gravity:     1.0,
		Biome:       "forest",
		Organisms: []OrganismState{
			{
				ID:         "org-1",
				Name:       "fern",
				Species:    "fern",
				Type:       "plant",
				Behavior:   "passive",
				Locomotion: "sessile",
				X:          120.5,
				Y:          340.25,
				Energy:     88.5,
				Age:        200,
				MaxAge:     600,
				Size:       12,
				ReproRate:  0.2,
				Color:      "#7ec850",
			},
			{
				ID:         "org-2",
				Name:       "lynx",
				Species:    "lynx",
				Generation: 2,
				Ancestry:   []string{"lynx", "lynx"},
				Type:       "carnivore",
				Behavior:   "aggressive",
				Locomotion: "walking",
				X:          500,
				Y:          100,
				Heading:    1.57,
				Speed:      1.8,
				Energy:     62,
				Age:        90,
				MaxAge:     500,
				Size:       18,
				ReproRate:  0.1,
				Color:      "#c05030",
				Accent:     "#802010",
			},
		},
	}

	dir := t.TempDir()
	path, err := SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(snap, loaded) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", snap, loaded)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(t.TempDir() + "/nope.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
