package systems

import (
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// HumanParams holds guard behavior tuning.
type HumanParams struct {
	DetectionPixels float64
	AttackPixels    float64
	AttackDamage    float64
	AttackCooldown  float64
	RepathMinSec    float64
	RepathMaxSec    float64
}

// HumanAISystem drives guard behavior: patrol, chase, attack.
type HumanAISystem struct {
	filter    *ecs.Filter3[components.Position, components.Health, components.HumanBrain]
	aliens    *ecs.Filter2[components.Position, components.PlayerControl]
	pathMap   *ecs.Map[components.PathFollow]
	posMap    *ecs.Map[components.Position]
	healthMap *ecs.Map[components.Health]
	moraleMap *ecs.Map[components.Morale]
	captMap   *ecs.Map[components.Captive]
	playerMap *ecs.Map[components.PlayerControl]
	traitMap  *ecs.Map[components.CatBrain]

	tm     *Tilemap
	res    *ReservationTable
	pf     *Pathfinder
	rng    *rand.Rand
	params HumanParams
	rec    Recorder
}

// NewHumanAISystem creates the guard behavior pass.
func NewHumanAISystem(w *ecs.World, tm *Tilemap, res *ReservationTable, pf *Pathfinder, rng *rand.Rand, params HumanParams, rec Recorder) *HumanAISystem {
	return &HumanAISystem{
		filter:    ecs.NewFilter3[components.Position, components.Health, components.HumanBrain](w),
		aliens:    ecs.NewFilter2[components.Position, components.PlayerControl](w),
		pathMap:   ecs.NewMap[components.PathFollow](w),
		posMap:    ecs.NewMap[components.Position](w),
		healthMap: ecs.NewMap[components.Health](w),
		moraleMap: ecs.NewMap[components.Morale](w),
		captMap:   ecs.NewMap[components.Captive](w),
		playerMap: ecs.NewMap[components.PlayerControl](w),
		traitMap:  ecs.NewMap[components.CatBrain](w),
		tm:        tm,
		res:       res,
		pf:        pf,
		rng:       rng,
		params:    params,
		rec:       rec,
	}
}

// Update advances every guard by one tick.
func (s *HumanAISystem) Update(dt float64) {
	// Detection flags rebuild every tick from scratch.
	aq := s.aliens.Query()
	for aq.Next() {
		_, pc := aq.Get()
		pc.Detected = false
	}

	query := s.filter.Query()
	for query.Next() {
		pos, health, brain := query.Get()
		e := query.Entity()

		if health.Current <= 0 {
			continue
		}
		// Knocked-out or carried guards run no behavior.
		if s.captMap.Has(e) && s.captMap.Get(e).State != components.CaptureNone {
			continue
		}

		if brain.AttackTimer > 0 {
			brain.AttackTimer -= dt
		}

		path := s.pathMap.Get(e)
		tile := s.tm.WorldToTile(pos.X, pos.Y)

		switch brain.State {
		case components.HumanPatrol:
			s.tickPatrol(e, pos, brain, path, tile)
		case components.HumanChase:
			s.tickChase(e, pos, brain, path, tile, dt)
		case components.HumanAttack:
			s.tickAttack(e, pos, brain, path)
		}
	}
}

func (s *HumanAISystem) tickPatrol(e ecs.Entity, pos *components.Position, brain *components.HumanBrain, path *components.PathFollow, tile components.TilePos) {
	if target := s.spotAlien(pos); !target.IsZero() {
		AbandonPath(s.res, e, path)
		brain.Target = target
		brain.State = components.HumanChase
		brain.RepathTimer = 0
		s.markDetected(target)
		return
	}

	if len(brain.PatrolPoints) == 0 || path.Active() {
		return
	}
	point := brain.PatrolPoints[brain.PatrolIndex]
	if tile == point {
		brain.PatrolIndex = (brain.PatrolIndex + 1) % len(brain.PatrolPoints)
		point = brain.PatrolPoints[brain.PatrolIndex]
	}
	if tiles := s.pf.FindPath(e, tile, point); tiles != nil {
		path.Tiles = tiles
		path.Index = 0
	}
}

func (s *HumanAISystem) tickChase(e ecs.Entity, pos *components.Position, brain *components.HumanBrain, path *components.PathFollow, tile components.TilePos, dt float64) {
	target := brain.Target
	dist, ok := s.targetDistance(pos, target)
	if !ok || dist > s.params.DetectionPixels {
		s.loseTarget(e, brain, path)
		return
	}
	s.markDetected(target)

	if dist <= s.params.AttackPixels {
		AbandonPath(s.res, e, path)
		brain.State = components.HumanAttack
		return
	}

	brain.RepathTimer -= dt
	if brain.RepathTimer <= 0 || !path.Active() {
		s.repathToTarget(e, brain, path, tile, target)
		brain.RepathTimer = s.uniform(s.params.RepathMinSec, s.params.RepathMaxSec)
	}
}

func (s *HumanAISystem) tickAttack(e ecs.Entity, pos *components.Position, brain *components.HumanBrain, path *components.PathFollow) {
	target := brain.Target
	dist, ok := s.targetDistance(pos, target)
	if !ok || dist > s.params.DetectionPixels {
		s.loseTarget(e, brain, path)
		return
	}
	s.markDetected(target)

	if dist > s.params.AttackPixels {
		brain.State = components.HumanChase
		brain.RepathTimer = 0
		return
	}

	if brain.AttackTimer <= 0 {
		s.strike(e, target)
		brain.AttackTimer = s.params.AttackCooldown
	}
}

// strike lands one hit on the target; damage also erodes morale.
func (s *HumanAISystem) strike(attacker, target ecs.Entity) {
	health := s.healthMap.Get(target)
	health.Current -= s.params.AttackDamage
	if health.Current < 0 {
		health.Current = 0
	}
	if s.moraleMap.Has(target) {
		resistance := 1.0
		if s.traitMap.Has(target) {
			resistance = s.traitMap.Get(target).Personality.MoraleResistance()
		}
		morale := s.moraleMap.Get(target)
		morale.Current -= s.params.AttackDamage * 0.5 * resistance
		if morale.Current < 0 {
			morale.Current = 0
		}
	}
	s.rec.AttackLanded(uint32(attacker.ID()), uint32(target.ID()), s.params.AttackDamage)
}

// repathToTarget paths to a tile next to the target, trying cardinal
// neighbors before diagonal ones.
func (s *HumanAISystem) repathToTarget(e ecs.Entity, brain *components.HumanBrain, path *components.PathFollow, tile components.TilePos, target ecs.Entity) {
	tpos := s.posMap.Get(target)
	ttile := s.tm.WorldToTile(tpos.X, tpos.Y)

	AbandonPath(s.res, e, path)
	candidates := [8]components.TilePos{
		{X: ttile.X - 1, Y: ttile.Y},
		{X: ttile.X + 1, Y: ttile.Y},
		{X: ttile.X, Y: ttile.Y - 1},
		{X: ttile.X, Y: ttile.Y + 1},
		{X: ttile.X - 1, Y: ttile.Y - 1},
		{X: ttile.X + 1, Y: ttile.Y - 1},
		{X: ttile.X - 1, Y: ttile.Y + 1},
		{X: ttile.X + 1, Y: ttile.Y + 1},
	}
	for _, goal := range candidates {
		if goal == tile {
			return
		}
		if tiles := s.pf.FindPath(e, tile, goal); tiles != nil {
			path.Tiles = tiles
			path.Index = 0
			return
		}
	}
}

func (s *HumanAISystem) loseTarget(e ecs.Entity, brain *components.HumanBrain, path *components.PathFollow) {
	AbandonPath(s.res, e, path)
	brain.Target = ecs.Entity{}
	brain.State = components.HumanPatrol
}

// spotAlien returns the nearest living alien within detection range.
func (s *HumanAISystem) spotAlien(pos *components.Position) ecs.Entity {
	var best ecs.Entity
	bestDist := s.params.DetectionPixels
	query := s.aliens.Query()
	for query.Next() {
		apos, _ := query.Get()
		a := query.Entity()
		if s.healthMap.Has(a) && s.healthMap.Get(a).Current <= 0 {
			continue
		}
		d := math.Hypot(apos.X-pos.X, apos.Y-pos.Y)
		if d <= bestDist {
			bestDist = d
			best = a
		}
	}
	return best
}

func (s *HumanAISystem) targetDistance(pos *components.Position, target ecs.Entity) (float64, bool) {
	if target.IsZero() || !s.posMap.Has(target) {
		return 0, false
	}
	if s.healthMap.Has(target) && s.healthMap.Get(target).Current <= 0 {
		return 0, false
	}
	tpos := s.posMap.Get(target)
	return math.Hypot(tpos.X-pos.X, tpos.Y-pos.Y), true
}

func (s *HumanAISystem) markDetected(target ecs.Entity) {
	if s.playerMap.Has(target) {
		s.playerMap.Get(target).Detected = true
	}
}

func (s *HumanAISystem) uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}
