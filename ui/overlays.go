package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies a map overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayOxygen       OverlayID = "oxygen"
	OverlayPower        OverlayID = "power"
	OverlayReservations OverlayID = "reservations"
	OverlayTasks        OverlayID = "tasks"
	OverlayTileGrid     OverlayID = "tile_grid"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32 // Keyboard key to toggle (0 = no key)
	KeyLabel    string
	Category    string // Grouping (e.g., "station", "debug")
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the station overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}

	r.Register(OverlayDescriptor{
		ID: OverlayOxygen, Name: "Oxygen Field",
		Description: "Per-tile oxygen levels as a blue tint",
		Key:         rl.KeyF1, KeyLabel: "F1", Category: "station",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayPower, Name: "Power Network",
		Description: "Wires, reactors and powered state",
		Key:         rl.KeyF2, KeyLabel: "F2", Category: "station",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayReservations, Name: "Path Reservations",
		Description: "Tiles reserved by movers",
		Key:         rl.KeyF3, KeyLabel: "F3", Category: "debug",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayTasks, Name: "Task Markers",
		Description: "Posted and assigned construction tasks",
		Key:         rl.KeyF4, KeyLabel: "F4", Category: "station",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayTileGrid, Name: "Tile Grid",
		Description: "Tile boundary lines",
		Key:         rl.KeyF5, KeyLabel: "F5", Category: "debug",
	})

	// Power overlay is the one people want on by default while building
	r.SetEnabled(OverlayPower, true)
	return r
}

// Register adds an overlay descriptor.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
}

// HandleKeys toggles overlays whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// SetEnabled sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	r.enabled[id] = on
}

// Toggle flips an overlay and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// Categories returns the distinct categories in registration order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	seen := make(map[string]bool)
	for _, d := range r.descriptors {
		if !seen[d.Category] {
			seen[d.Category] = true
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// ByCategory returns the descriptors in one category.
func (r *OverlayRegistry) ByCategory(cat string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}
