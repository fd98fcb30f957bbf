package systems

import (
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// CaptureParams holds knockout/carry tuning.
type CaptureParams struct {
	RangePixels     float64
	StealthChance   float64 // Knockout probability when stealthed and undetected
	BaseChance      float64 // Scaled by attacker health fraction otherwise
	UnconsciousSec  float64
	CarrySpeedScale float64
}

// CaptureSystem runs the knockout/carry state machine:
// none -> unconscious -> carried -> none.
type CaptureSystem struct {
	posMap    *ecs.Map[components.Position]
	spdMap    *ecs.Map[components.Speed]
	healthMap *ecs.Map[components.Health]
	captMap   *ecs.Map[components.Captive]
	carrMap   *ecs.Map[components.Carrier]
	pathMap   *ecs.Map[components.PathFollow]
	playerMap *ecs.Map[components.PlayerControl]
	filter    *ecs.Filter2[components.Position, components.Captive]

	res    *ReservationTable
	board  *TaskBoard
	rng    *rand.Rand
	params CaptureParams
	rec    Recorder
}

// NewCaptureSystem creates the capture state machine.
func NewCaptureSystem(w *ecs.World, res *ReservationTable, board *TaskBoard, rng *rand.Rand, params CaptureParams, rec Recorder) *CaptureSystem {
	return &CaptureSystem{
		posMap:    ecs.NewMap[components.Position](w),
		spdMap:    ecs.NewMap[components.Speed](w),
		healthMap: ecs.NewMap[components.Health](w),
		captMap:   ecs.NewMap[components.Captive](w),
		carrMap:   ecs.NewMap[components.Carrier](w),
		pathMap:   ecs.NewMap[components.PathFollow](w),
		playerMap: ecs.NewMap[components.PlayerControl](w),
		filter:    ecs.NewFilter2[components.Position, components.Captive](w),
		res:       res,
		board:     board,
		rng:       rng,
		params:    params,
		rec:       rec,
	}
}

// InRange reports whether a target sits within capture range of the
// attacker.
func (s *CaptureSystem) InRange(attacker, target ecs.Entity) bool {
	a := s.posMap.Get(attacker)
	t := s.posMap.Get(target)
	return math.Hypot(t.X-a.X, t.Y-a.Y) <= s.params.RangePixels
}

// Attempt dispatches a capture action on the target's current state:
// conscious targets get a knockout attempt, unconscious ones get picked
// up. Carried targets cannot be captured again.
func (s *CaptureSystem) Attempt(attacker, target ecs.Entity) bool {
	if !s.captMap.Has(target) || !s.InRange(attacker, target) {
		return false
	}
	switch s.captMap.Get(target).State {
	case components.CaptureNone:
		return s.AttemptKnockout(attacker, target)
	case components.CaptureUnconscious:
		return s.StartCarrying(attacker, target)
	}
	return false
}

// AttemptKnockout rolls a knockout against a conscious target. A stealthed,
// undetected attacker almost always succeeds; otherwise the chance scales
// with how healthy the attacker still is.
func (s *CaptureSystem) AttemptKnockout(attacker, target ecs.Entity) bool {
	capt := s.captMap.Get(target)
	if capt.State != components.CaptureNone || !s.InRange(attacker, target) {
		return false
	}

	chance := s.params.BaseChance
	if s.healthMap.Has(attacker) {
		h := s.healthMap.Get(attacker)
		chance *= h.Current / h.Max
	}
	stealthy := false
	if s.playerMap.Has(attacker) {
		pc := s.playerMap.Get(attacker)
		stealthy = pc.Stealth && !pc.Detected
	}
	if stealthy {
		chance = s.params.StealthChance
	}

	if s.rng.Float64() >= chance {
		return false
	}

	capt.State = components.CaptureUnconscious
	capt.WakeTimer = s.params.UnconsciousSec
	s.haltTarget(target)
	s.rec.HumanKnockedOut(uint32(target.ID()), stealthy)
	return true
}

// StartCarrying picks up an unconscious target. A carrier grabbing a
// second target drops the first. The carrier slows down while loaded.
func (s *CaptureSystem) StartCarrying(carrier, target ecs.Entity) bool {
	capt := s.captMap.Get(target)
	if capt.State != components.CaptureUnconscious || !s.InRange(carrier, target) {
		return false
	}
	if !s.carrMap.Has(carrier) {
		return false
	}

	carr := s.carrMap.Get(carrier)
	if carr.Carrying {
		s.Release(carrier)
	}

	carr.Target = target
	carr.Carrying = true
	capt.State = components.CaptureCarried
	capt.Carrier = carrier
	capt.WakeTimer = 0
	s.spdMap.Get(carrier).Base *= s.params.CarrySpeedScale
	return true
}

// Release puts a carried target down at the carrier's position and
// restores the carrier's speed exactly.
func (s *CaptureSystem) Release(carrier ecs.Entity) {
	if !s.carrMap.Has(carrier) {
		return
	}
	carr := s.carrMap.Get(carrier)
	if !carr.Carrying {
		return
	}
	target := carr.Target
	carr.Target = ecs.Entity{}
	carr.Carrying = false
	s.spdMap.Get(carrier).Base /= s.params.CarrySpeedScale

	if s.captMap.Has(target) {
		capt := s.captMap.Get(target)
		capt.State = components.CaptureNone
		capt.Carrier = ecs.Entity{}
		if s.posMap.Has(target) && s.posMap.Has(carrier) {
			cp := s.posMap.Get(carrier)
			tp := s.posMap.Get(target)
			tp.X = cp.X
			tp.Y = cp.Y
		}
	}
	s.rec.CaptureReleased(uint32(carrier.ID()), uint32(target.ID()))
}

// ReleaseOnDeath drops a dead carrier's target in place without touching
// the carrier's speed.
func (s *CaptureSystem) ReleaseOnDeath(carrier ecs.Entity) {
	if !s.carrMap.Has(carrier) {
		return
	}
	carr := s.carrMap.Get(carrier)
	if !carr.Carrying {
		return
	}
	target := carr.Target
	carr.Target = ecs.Entity{}
	carr.Carrying = false
	if s.captMap.Has(target) {
		capt := s.captMap.Get(target)
		capt.State = components.CaptureNone
		capt.Carrier = ecs.Entity{}
	}
	s.rec.CaptureReleased(uint32(carrier.ID()), uint32(target.ID()))
}

// Update ticks wake timers and pins carried targets to their carriers.
func (s *CaptureSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, capt := query.Get()
		switch capt.State {
		case components.CaptureUnconscious:
			capt.WakeTimer -= dt
			if capt.WakeTimer <= 0 {
				capt.State = components.CaptureNone
				capt.WakeTimer = 0
			}
		case components.CaptureCarried:
			if !capt.Carrier.IsZero() && s.posMap.Has(capt.Carrier) {
				cp := s.posMap.Get(capt.Carrier)
				pos.X = cp.X
				pos.Y = cp.Y
			}
		}
	}
}

// haltTarget strips a knocked-out target of its path, reservations and
// any claimed work. Nothing of the target's plan survives the knockout.
func (s *CaptureSystem) haltTarget(target ecs.Entity) {
	if s.pathMap.Has(target) {
		AbandonPath(s.res, target, s.pathMap.Get(target))
	} else {
		s.res.ReleaseAll(target)
	}
	s.board.ReleaseFor(target)
}
