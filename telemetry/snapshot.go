package telemetry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete station state for save/restore.
type Snapshot struct {
	Version int   `yaml:"version"`
	Seed    int64 `yaml:"seed"`
	Tick    int64 `yaml:"tick"`

	Cols     int `yaml:"cols"`
	Rows     int `yaml:"rows"`
	TileSize int `yaml:"tile_size"`

	// Terrain kinds, row-major
	Tiles []uint8 `yaml:"tiles,flow"`

	// Oxygen levels, row-major
	Oxygen []float64 `yaml:"oxygen,flow"`

	Electrical []ElectricalState `yaml:"electrical"`
	Tasks      []TaskState       `yaml:"tasks"`
	Entities   []EntityState     `yaml:"entities"`
}

// ElectricalState is one saved electrical component.
type ElectricalState struct {
	Kind              uint8   `yaml:"kind"`
	X                 int     `yaml:"x"`
	Y                 int     `yaml:"y"`
	Size              int     `yaml:"size"`
	UnderConstruction bool    `yaml:"under_construction"`
	BuildTime         float64 `yaml:"build_time"`
	Capacity          float64 `yaml:"capacity"`
	Demand            float64 `yaml:"demand"`
}

// TaskState is one saved task. Assignments do not survive a save;
// restored tasks go back on the board unclaimed with progress kept.
type TaskState struct {
	Type     uint8   `yaml:"type"`
	X        int     `yaml:"x"`
	Y        int     `yaml:"y"`
	Priority int     `yaml:"priority"`
	WorkTime float64 `yaml:"work_time"`
	Progress float64 `yaml:"progress"`
}

// EntityState is one saved entity.
type EntityState struct {
	Kind string  `yaml:"kind"` // cat, human, alien, food
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`

	SpeedBase float64 `yaml:"speed_base,omitempty"`
	Health    float64 `yaml:"health,omitempty"`
	MaxHealth float64 `yaml:"max_health,omitempty"`
	Morale    float64 `yaml:"morale,omitempty"`
	MaxMorale float64 `yaml:"max_morale,omitempty"`

	Hunger     float64 `yaml:"hunger,omitempty"`
	MaxHunger  float64 `yaml:"max_hunger,omitempty"`
	HungerRate float64 `yaml:"hunger_rate,omitempty"`
	Traits     uint32  `yaml:"traits,omitempty"`
	State      uint8   `yaml:"state,omitempty"`

	PatrolX []int `yaml:"patrol_x,omitempty,flow"`
	PatrolY []int `yaml:"patrol_y,omitempty,flow"`


	Stealth bool `yaml:"stealth,omitempty"`

	TintR uint8 `yaml:"tint_r,omitempty"`
	TintG uint8 `yaml:"tint_g,omitempty"`
	TintB uint8 `yaml:"tint_b,omitempty"`
}

// SaveSnapshot writes a snapshot to disk as YAML.
func SaveSnapshot(snapshot *Snapshot, path string) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
