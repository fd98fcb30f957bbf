package telemetry

import "github.com/pthm-cable/mothership/components"

// Collector accumulates events within time windows and produces
// WindowStats. It implements the systems.Recorder interface so the
// simulation systems publish structured events instead of printing.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	currentTick     int64
	windowStartTick int64

	events []Event

	// Event counters for current window
	tasksCompleted  int
	catDeaths       int
	knockouts       int
	captureReleases int
	attacks         int
	foodEaten       int
	oxygenWarnings  int
	powerChanges    int
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// SetTick updates the collector's notion of the current tick. Called once
// per simulation step before the systems run.
func (c *Collector) SetTick(tick int64) {
	c.currentTick = tick
}

// TaskCompleted records a finished task.
func (c *Collector) TaskCompleted(taskID int, tile components.TilePos) {
	c.tasksCompleted++
	c.events = append(c.events, NewTaskCompletedEvent(c.currentTick, taskID, tile))
}

// CatDied records a cat death.
func (c *Collector) CatDied(id uint32, cause string) {
	c.catDeaths++
	c.events = append(c.events, NewCatDiedEvent(c.currentTick, id, cause))
}

// HumanKnockedOut records a successful knockout.
func (c *Collector) HumanKnockedOut(id uint32, stealth bool) {
	c.knockouts++
	c.events = append(c.events, NewKnockoutEvent(c.currentTick, id, stealth))
}

// CaptureReleased records a carrier putting its target down.
func (c *Collector) CaptureReleased(carrierID, targetID uint32) {
	c.captureReleases++
	c.events = append(c.events, NewCaptureReleasedEvent(c.currentTick, carrierID, targetID))
}

// AttackLanded records a landed hit.
func (c *Collector) AttackLanded(attackerID, targetID uint32, damage float64) {
	c.attacks++
	c.events = append(c.events, NewAttackEvent(c.currentTick, attackerID, targetID, damage))
}

// OxygenWarning records an entity suffocating on a thin tile.
func (c *Collector) OxygenWarning(tile components.TilePos, level float64) {
	c.oxygenWarnings++
	c.events = append(c.events, NewOxygenWarningEvent(c.currentTick, tile, level))
}

// PowerChanged records a consumer powering up or down.
func (c *Collector) PowerChanged(kind string, tile components.TilePos, powered bool) {
	c.powerChanges++
	c.events = append(c.events, NewPowerChangedEvent(c.currentTick, kind, tile, powered))
}

// FoodEaten records a cat eating.
func (c *Collector) FoodEaten(catID uint32) {
	c.foodEaten++
	c.events = append(c.events, NewFoodEatenEvent(c.currentTick, catID))
}

// ShouldFlush returns true when the current window is full.
func (c *Collector) ShouldFlush() bool {
	return c.currentTick-c.windowStartTick >= c.windowDurationTicks
}

// DrainEvents returns the buffered events and clears the buffer.
func (c *Collector) DrainEvents() []Event {
	events := c.events
	c.events = nil
	return events
}

// Flush produces WindowStats and resets counters for the next window.
// The caller samples current world state: population counts, hunger
// values of living cats, oxygen field summary and task board sizes.
func (c *Collector) Flush(catCount, humanCount int, hungers []float64, oxygenMean, oxygenTotal float64, tasksAvailable, tasksAssigned int) WindowStats {
	hunger := ComputeSampleStats(hungers)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   c.currentTick,
		SimTimeSec:      float64(c.currentTick) * c.dt,

		CatCount:   catCount,
		HumanCount: humanCount,

		TasksCompleted:  c.tasksCompleted,
		CatDeaths:       c.catDeaths,
		Knockouts:       c.knockouts,
		CaptureReleases: c.captureReleases,
		Attacks:         c.attacks,
		FoodEaten:       c.foodEaten,
		OxygenWarnings:  c.oxygenWarnings,
		PowerChanges:    c.powerChanges,

		HungerMean: hunger.Mean,
		HungerStd:  hunger.Std,
		HungerP10:  hunger.P10,
		HungerP50:  hunger.P50,
		HungerP90:  hunger.P90,

		OxygenMean:  oxygenMean,
		OxygenTotal: oxygenTotal,

		TasksAvailable: tasksAvailable,
		TasksAssigned:  tasksAssigned,
	}

	c.windowStartTick = c.currentTick
	c.tasksCompleted = 0
	c.catDeaths = 0
	c.knockouts = 0
	c.captureReleases = 0
	c.attacks = 0
	c.foodEaten = 0
	c.oxygenWarnings = 0
	c.powerChanges = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
