// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/traits"
)

// TilePos addresses a tile on the map grid.
type TilePos struct {
	X, Y int
}

// Position represents an entity's world position in pixels.
type Position struct {
	X, Y float64
}

// Speed holds movement speed in pixels per second.
// Base is mutated directly by carry mechanics so that picking up and
// releasing a target round-trips exactly.
type Speed struct {
	Base float64
}

// Health holds hit points.
type Health struct {
	Current, Max float64
}

// Morale holds crew morale.
type Morale struct {
	Current, Max float64
}

// Hunger holds the hunger meter. Drains at Rate per second.
type Hunger struct {
	Current, Max, Rate float64
}

// PathFollow holds an in-progress path of reserved tiles.
// Index points at the tile currently being walked toward.
type PathFollow struct {
	Tiles   []TilePos
	Index   int
	Stopped bool // force-stop: path kept, motion halted
}

// Active reports whether there is a path left to walk.
func (p *PathFollow) Active() bool {
	return len(p.Tiles) > 0 && p.Index < len(p.Tiles)
}

// Clear drops the path.
func (p *PathFollow) Clear() {
	p.Tiles = nil
	p.Index = 0
}

// CaptureState tracks the knockout/carry lifecycle of a target.
type CaptureState uint8

const (
	CaptureNone CaptureState = iota
	CaptureUnconscious
	CaptureCarried
)

// Captive marks an entity that can be knocked out and carried.
type Captive struct {
	State     CaptureState
	WakeTimer float64    // Seconds until an unconscious target wakes
	Carrier   ecs.Entity // Zero when not carried
}

// Carrier marks an entity able to carry captives.
type Carrier struct {
	Target   ecs.Entity // Zero when not carrying
	Carrying bool
}

// CatState is the cat behavior state.
type CatState uint8

const (
	CatWandering CatState = iota
	CatIdle
	CatWorking
	CatSeekingFood
)

func (s CatState) String() string {
	switch s {
	case CatWandering:
		return "wandering"
	case CatIdle:
		return "idle"
	case CatWorking:
		return "working"
	case CatSeekingFood:
		return "seeking_food"
	}
	return "unknown"
}

// CatBrain holds per-cat behavior state.
type CatBrain struct {
	State       CatState
	StateTimer  float64 // Time left in the current wander/idle leg
	TaskID      int     // Claimed task id, 0 when none
	SavedTaskID int     // Task suspended by food seeking, 0 when none
	TargetFood  ecs.Entity
	Personality traits.Trait
	Sprinting   bool // Starving seekers move faster
}

// HumanState is the guard behavior state.
type HumanState uint8

const (
	HumanPatrol HumanState = iota
	HumanChase
	HumanAttack
)

func (s HumanState) String() string {
	switch s {
	case HumanPatrol:
		return "patrol"
	case HumanChase:
		return "chase"
	case HumanAttack:
		return "attack"
	}
	return "unknown"
}

// HumanBrain holds per-guard behavior state.
type HumanBrain struct {
	State        HumanState
	PatrolPoints []TilePos
	PatrolIndex  int
	Target       ecs.Entity // Zero when no alien in sight
	RepathTimer  float64    // Chase repath countdown
	AttackTimer  float64    // Attack cooldown countdown
}

// PlayerControl marks the player alien.
type PlayerControl struct {
	Selected bool
	Stealth  bool
	Detected bool // True while any guard is chasing this alien
}

// Food marks an edible item. Eating restores hunger and health to full,
// so the item carries no quantity of its own.
type Food struct {
	Eaten bool
}

// Breather marks entities that consume oxygen and suffocate in thin air.
type Breather struct{}

// Tint holds the render color of an entity.
type Tint struct {
	R, G, B, A uint8
}
