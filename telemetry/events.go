// Package telemetry tracks simulation events and windowed statistics.
package telemetry

import "github.com/pthm-cable/mothership/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventTaskCompleted EventType = iota
	EventCatDied
	EventKnockout
	EventCaptureReleased
	EventAttack
	EventOxygenWarning
	EventPowerChanged
	EventFoodEaten
)

func (t EventType) String() string {
	switch t {
	case EventTaskCompleted:
		return "task_completed"
	case EventCatDied:
		return "cat_died"
	case EventKnockout:
		return "knockout"
	case EventCaptureReleased:
		return "capture_released"
	case EventAttack:
		return "attack"
	case EventOxygenWarning:
		return "oxygen_warning"
	case EventPowerChanged:
		return "power_changed"
	case EventFoodEaten:
		return "food_eaten"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int64
	EntityID uint32

	// Optional fields depending on event type
	TargetID uint32
	Tile     components.TilePos
	Amount   float64
	Detail   string
}

// NewTaskCompletedEvent creates a task completion event.
func NewTaskCompletedEvent(tick int64, taskID int, tile components.TilePos) Event {
	return Event{Type: EventTaskCompleted, Tick: tick, EntityID: uint32(taskID), Tile: tile}
}

// NewCatDiedEvent creates a cat death event.
func NewCatDiedEvent(tick int64, catID uint32, cause string) Event {
	return Event{Type: EventCatDied, Tick: tick, EntityID: catID, Detail: cause}
}

// NewKnockoutEvent creates a knockout event.
func NewKnockoutEvent(tick int64, targetID uint32, stealth bool) Event {
	detail := "direct"
	if stealth {
		detail = "stealth"
	}
	return Event{Type: EventKnockout, Tick: tick, EntityID: targetID, Detail: detail}
}

// NewCaptureReleasedEvent creates a capture release event.
func NewCaptureReleasedEvent(tick int64, carrierID, targetID uint32) Event {
	return Event{Type: EventCaptureReleased, Tick: tick, EntityID: carrierID, TargetID: targetID}
}

// NewAttackEvent creates an attack event.
func NewAttackEvent(tick int64, attackerID, targetID uint32, damage float64) Event {
	return Event{Type: EventAttack, Tick: tick, EntityID: attackerID, TargetID: targetID, Amount: damage}
}

// NewOxygenWarningEvent creates a low-oxygen event.
func NewOxygenWarningEvent(tick int64, tile components.TilePos, level float64) Event {
	return Event{Type: EventOxygenWarning, Tick: tick, Tile: tile, Amount: level}
}

// NewPowerChangedEvent creates a power state change event.
func NewPowerChangedEvent(tick int64, kind string, tile components.TilePos, powered bool) Event {
	detail := kind + ":off"
	if powered {
		detail = kind + ":on"
	}
	return Event{Type: EventPowerChanged, Tick: tick, Tile: tile, Detail: detail}
}

// NewFoodEatenEvent creates a feeding event.
func NewFoodEatenEvent(tick int64, catID uint32) Event {
	return Event{Type: EventFoodEaten, Tick: tick, EntityID: catID}
}

// EventCSV is the flat CSV row for an event.
type EventCSV struct {
	Tick     int64   `csv:"tick"`
	Type     string  `csv:"type"`
	EntityID uint32  `csv:"entity_id"`
	TargetID uint32  `csv:"target_id"`
	TileX    int     `csv:"tile_x"`
	TileY    int     `csv:"tile_y"`
	Amount   float64 `csv:"amount"`
	Detail   string  `csv:"detail"`
}

// ToCSV converts an event to its CSV row.
func (e Event) ToCSV() EventCSV {
	return EventCSV{
		Tick:     e.Tick,
		Type:     e.Type.String(),
		EntityID: e.EntityID,
		TargetID: e.TargetID,
		TileX:    e.Tile.X,
		TileY:    e.Tile.Y,
		Amount:   e.Amount,
		Detail:   e.Detail,
	}
}
