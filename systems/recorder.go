package systems

import "github.com/pthm-cable/mothership/components"

// Recorder receives structured notifications from the simulation systems.
// The telemetry collector implements it; tests use NopRecorder.
type Recorder interface {
	TaskCompleted(taskID int, tile components.TilePos)
	CatDied(id uint32, cause string)
	HumanKnockedOut(id uint32, stealth bool)
	CaptureReleased(carrierID, targetID uint32)
	AttackLanded(attackerID, targetID uint32, damage float64)
	OxygenWarning(tile components.TilePos, level float64)
	PowerChanged(kind string, tile components.TilePos, powered bool)
	FoodEaten(catID uint32)
}

// NopRecorder ignores every notification.
type NopRecorder struct{}

func (NopRecorder) TaskCompleted(int, components.TilePos)          {}
func (NopRecorder) CatDied(uint32, string)                         {}
func (NopRecorder) HumanKnockedOut(uint32, bool)                   {}
func (NopRecorder) CaptureReleased(uint32, uint32)                 {}
func (NopRecorder) AttackLanded(uint32, uint32, float64)           {}
func (NopRecorder) OxygenWarning(components.TilePos, float64)      {}
func (NopRecorder) PowerChanged(string, components.TilePos, bool)  {}
func (NopRecorder) FoodEaten(uint32)                               {}
