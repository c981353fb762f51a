package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// OrganismState is the exportable view of one live organism. Enum tags are
// rendered as strings so external consumers never depend on internal
// ordinal values.
type OrganismState struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Species    string   `json:"species"`
	Generation int      `json:"generation"`
	Ancestry   []string `json:"ancestry,omitempty"`

	Type       string `json:"type"`
	Diet       string `json:"diet,omitempty"`
	Behavior   string `json:"behavior"`
	Locomotion string `json:"locomotion"`

	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`

	Energy    float64 `json:"energy"`
	Age       int     `json:"age"`
	MaxAge    int     `json:"max_age"`
	Size      float64 `json:"size"`
	ReproRate float64 `json:"repro_rate"`

	Color  string `json:"color"`
	Accent string `json:"accent,omitempty"`
}

// Snapshot holds the full simulation state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int   `json:"tick"`

	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`
	Gravity     float64 `json:"gravity"`
	Biome       string  `json:"biome"`

	Organisms []OrganismState `json:"organisms"`
}

// SaveSnapshot writes a snapshot to dir as snapshot_<tick>.json and returns
// the path it was written to.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
