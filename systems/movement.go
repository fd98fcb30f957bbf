package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// MovementSystem walks entities along their reserved tile paths.
type MovementSystem struct {
	filter  *ecs.Filter3[components.Position, components.Speed, components.PathFollow]
	catMap  *ecs.Map[components.CatBrain]
	captMap *ecs.Map[components.Captive]

	tm  *Tilemap
	res *ReservationTable

	arrivalEpsilon float64
	sprintFactor   float64
}

// NewMovementSystem creates the movement executor.
func NewMovementSystem(w *ecs.World, tm *Tilemap, res *ReservationTable, arrivalEpsilon, sprintFactor float64) *MovementSystem {
	return &MovementSystem{
		filter:         ecs.NewFilter3[components.Position, components.Speed, components.PathFollow](w),
		catMap:         ecs.NewMap[components.CatBrain](w),
		captMap:        ecs.NewMap[components.Captive](w),
		tm:             tm,
		res:            res,
		arrivalEpsilon: arrivalEpsilon,
		sprintFactor:   sprintFactor,
	}
}

// Update advances every path follower by one tick.
func (s *MovementSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, spd, path := query.Get()
		e := query.Entity()

		if !path.Active() || path.Stopped {
			continue
		}

		// Knocked-out and carried entities never walk on their own.
		if s.captMap.Has(e) && s.captMap.Get(e).State != components.CaptureNone {
			continue
		}

		target := s.tm.TileCenter(path.Tiles[path.Index])
		dx := target.X - pos.X
		dy := target.Y - pos.Y
		dist := math.Hypot(dx, dy)

		if dist < s.arrivalEpsilon {
			s.arrive(e, pos, path, target)
			continue
		}

		speed := spd.Base * s.speedModifier(e)
		step := speed * dt
		if step > dist {
			// Never overshoot the waypoint
			step = dist
		}
		pos.X += dx / dist * step
		pos.Y += dy / dist * step
	}
}

// arrive snaps to the waypoint, frees the tile left behind and advances
// the path index.
func (s *MovementSystem) arrive(e ecs.Entity, pos *components.Position, path *components.PathFollow, target components.Position) {
	pos.X = target.X
	pos.Y = target.Y

	if path.Index > 0 {
		s.res.Release(path.Tiles[path.Index-1], e)
	}
	path.Index++

	if !path.Active() {
		// Walk finished; the mover stands on the last tile and occupancy
		// covers it from here on.
		s.res.Release(path.Tiles[len(path.Tiles)-1], e)
		path.Clear()
	}
}

func (s *MovementSystem) speedModifier(e ecs.Entity) float64 {
	mod := 1.0
	if s.catMap.Has(e) {
		brain := s.catMap.Get(e)
		mod = brain.Personality.SpeedModifier()
		if brain.Sprinting {
			mod *= s.sprintFactor
		}
	}
	return mod
}

// AbandonPath drops an entity's path and frees every tile it had
// reserved. Used on death, interrupts and repaths.
func AbandonPath(res *ReservationTable, e ecs.Entity, path *components.PathFollow) {
	path.Clear()
	path.Stopped = false
	res.ReleaseAll(e)
}

// Stop force-stops a follower without dropping its path.
func Stop(path *components.PathFollow) {
	path.Stopped = true
}

// AllowMovement clears a force-stop.
func AllowMovement(path *components.PathFollow) {
	path.Stopped = false
}
