package systems

import (
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// CatParams holds cat behavior tuning.
type CatParams struct {
	CriticalHunger    float64 // Seek food at or below this
	StarvationDamage  float64 // Health loss per second at zero hunger
	EatRangePixels    float64
	SprintHungerFrac  float64 // Fraction of max hunger below which seekers sprint
	WanderMinSec      float64
	WanderMaxSec      float64
	IdleMinSec        float64
	IdleMaxSec        float64
	LowHealthDrain    float64 // Morale drain per second below half health
	InterruptPriority int
	WorkRangeTiles    int
}

// CatAISystem drives the cat crew state machine:
// wandering, idle, working, seeking food.
type CatAISystem struct {
	filter    *ecs.Filter4[components.Position, components.Health, components.Hunger, components.CatBrain]
	pathMap   *ecs.Map[components.PathFollow]
	posMap    *ecs.Map[components.Position]
	moraleMap *ecs.Map[components.Morale]
	foodMap   *ecs.Map[components.Food]
	foods     *ecs.Filter2[components.Position, components.Food]

	tm     *Tilemap
	res    *ReservationTable
	pf     *Pathfinder
	board  *TaskBoard
	rng    *rand.Rand
	params CatParams
	rec    Recorder
}

// NewCatAISystem creates the cat behavior pass.
func NewCatAISystem(w *ecs.World, tm *Tilemap, res *ReservationTable, pf *Pathfinder, board *TaskBoard, rng *rand.Rand, params CatParams, rec Recorder) *CatAISystem {
	return &CatAISystem{
		filter:    ecs.NewFilter4[components.Position, components.Health, components.Hunger, components.CatBrain](w),
		pathMap:   ecs.NewMap[components.PathFollow](w),
		posMap:    ecs.NewMap[components.Position](w),
		moraleMap: ecs.NewMap[components.Morale](w),
		foodMap:   ecs.NewMap[components.Food](w),
		foods:     ecs.NewFilter2[components.Position, components.Food](w),
		tm:        tm,
		res:       res,
		pf:        pf,
		board:     board,
		rng:       rng,
		params:    params,
		rec:       rec,
	}
}

// Update advances every cat by one tick.
func (s *CatAISystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, health, hunger, brain := query.Get()
		e := query.Entity()

		if health.Current <= 0 {
			continue
		}

		s.updateNeeds(e, health, hunger, dt)

		path := s.pathMap.Get(e)
		tile := s.tm.WorldToTile(pos.X, pos.Y)

		// Hunger overrides everything once it crosses the critical line.
		if hunger.Current <= s.params.CriticalHunger && brain.State != components.CatSeekingFood {
			if food := s.nearestFood(pos); !food.IsZero() {
				s.enterSeekingFood(e, brain, path, food)
			}
		}

		switch brain.State {
		case components.CatWandering:
			s.tickWandering(e, brain, path, tile, dt)
		case components.CatIdle:
			s.tickIdle(e, brain, path, tile, dt)
		case components.CatWorking:
			s.tickWorking(e, brain, path, tile, dt)
		case components.CatSeekingFood:
			s.tickSeekingFood(e, pos, health, hunger, brain, path, tile)
		}
	}
}

// updateNeeds drains hunger, applies starvation damage and morale decay.
func (s *CatAISystem) updateNeeds(e ecs.Entity, health *components.Health, hunger *components.Hunger, dt float64) {
	hunger.Current -= hunger.Rate * dt
	if hunger.Current < 0 {
		hunger.Current = 0
	}
	if hunger.Current == 0 {
		health.Current -= s.params.StarvationDamage * dt
		if health.Current < 0 {
			health.Current = 0
		}
	}
	if s.moraleMap.Has(e) && health.Current < health.Max*0.5 {
		morale := s.moraleMap.Get(e)
		morale.Current -= s.params.LowHealthDrain * dt
		if morale.Current < 0 {
			morale.Current = 0
		}
	}
}

func (s *CatAISystem) tickWandering(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow, tile components.TilePos, dt float64) {
	// Urgent work pulls wanderers off their stroll.
	if s.claimTask(e, brain, path, tile, s.params.InterruptPriority) {
		return
	}

	brain.StateTimer -= dt
	if brain.StateTimer <= 0 {
		AbandonPath(s.res, e, path)
		brain.State = components.CatIdle
		brain.StateTimer = s.uniform(s.params.IdleMinSec, s.params.IdleMaxSec)
		return
	}

	if !path.Active() {
		s.pickWanderTarget(e, brain, path, tile)
	}
}

func (s *CatAISystem) tickIdle(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow, tile components.TilePos, dt float64) {
	if s.claimTask(e, brain, path, tile, 1) {
		return
	}

	brain.StateTimer -= dt
	if brain.StateTimer <= 0 {
		brain.State = components.CatWandering
		brain.StateTimer = s.uniform(s.params.WanderMinSec, s.params.WanderMaxSec)
	}
}

func (s *CatAISystem) tickWorking(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow, tile components.TilePos, dt float64) {
	task := s.board.Get(brain.TaskID)
	if task == nil || task.Completed || task.Assignee != e {
		brain.TaskID = 0
		s.toIdle(e, brain, path)
		return
	}

	inRange := task.InWorkRange(tile, s.params.WorkRangeTiles)
	if inRange {
		if path.Active() {
			AbandonPath(s.res, e, path)
		}
		if s.board.Progress(task, dt, true) {
			s.tm.FinishConstruction(task.Tile)
			s.rec.TaskCompleted(task.ID, task.Tile)
			brain.TaskID = 0
			s.toIdle(e, brain, path)
		}
		return
	}

	if !path.Active() {
		if tiles := s.pf.FindPath(e, tile, task.Tile); tiles != nil {
			path.Tiles = tiles
			path.Index = 0
		} else {
			// Can't get there; put the task back for someone else.
			s.board.Release(task)
			brain.TaskID = 0
			s.toIdle(e, brain, path)
		}
	}
}

func (s *CatAISystem) tickSeekingFood(e ecs.Entity, pos *components.Position, health *components.Health, hunger *components.Hunger, brain *components.CatBrain, path *components.PathFollow, tile components.TilePos) {
	brain.Sprinting = hunger.Current < hunger.Max*s.params.SprintHungerFrac

	food := brain.TargetFood
	if food.IsZero() || !s.foodMap.Has(food) || s.foodMap.Get(food).Eaten {
		food = s.nearestFood(pos)
		brain.TargetFood = food
		AbandonPath(s.res, e, path)
	}
	if food.IsZero() {
		// Nothing to eat anywhere; wander and keep checking.
		brain.Sprinting = false
		brain.State = components.CatWandering
		brain.StateTimer = s.uniform(s.params.WanderMinSec, s.params.WanderMaxSec)
		return
	}

	fpos := s.foodPos(food)
	if math.Hypot(fpos.X-pos.X, fpos.Y-pos.Y) <= s.params.EatRangePixels {
		s.foodMap.Get(food).Eaten = true
		hunger.Current = hunger.Max
		health.Current = health.Max
		brain.TargetFood = ecs.Entity{}
		brain.Sprinting = false
		s.rec.FoodEaten(uint32(e.ID()))
		AbandonPath(s.res, e, path)
		s.resumeOrIdle(e, brain, path)
		return
	}

	if !path.Active() {
		goal := s.tm.WorldToTile(fpos.X, fpos.Y)
		if tiles := s.pf.FindPath(e, tile, goal); tiles != nil {
			path.Tiles = tiles
			path.Index = 0
		}
	}
}

// claimTask tries to claim the nearest task at or above minPriority and
// switch to working on it. Claiming abandons the current path so the
// reserved tiles free up immediately.
func (s *CatAISystem) claimTask(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow, tile components.TilePos, minPriority int) bool {
	task := s.board.ClaimNearest(e, tile, minPriority)
	if task == nil {
		return false
	}
	AbandonPath(s.res, e, path)
	brain.TaskID = task.ID
	brain.SavedTaskID = 0
	brain.State = components.CatWorking
	return true
}

// enterSeekingFood drops whatever the cat was doing and targets food.
// An in-progress task goes back on the board but its id is remembered,
// so the cat can pick it up again once fed.
func (s *CatAISystem) enterSeekingFood(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow, food ecs.Entity) {
	if brain.TaskID != 0 {
		if task := s.board.Get(brain.TaskID); task != nil && task.Assignee == e {
			s.board.Release(task)
			brain.SavedTaskID = task.ID
		}
		brain.TaskID = 0
	}
	AbandonPath(s.res, e, path)
	brain.State = components.CatSeekingFood
	brain.TargetFood = food
}

// resumeOrIdle re-claims the task suspended by food seeking. A task
// taken by someone else in the meantime sends the cat wandering.
func (s *CatAISystem) resumeOrIdle(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow) {
	if brain.SavedTaskID == 0 {
		s.toIdle(e, brain, path)
		return
	}
	saved := brain.SavedTaskID
	brain.SavedTaskID = 0
	if task := s.board.ClaimByID(saved, e); task != nil {
		brain.TaskID = task.ID
		brain.State = components.CatWorking
		return
	}
	brain.State = components.CatWandering
	brain.StateTimer = s.uniform(s.params.WanderMinSec, s.params.WanderMaxSec)
}

func (s *CatAISystem) toIdle(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow) {
	if path.Active() {
		AbandonPath(s.res, e, path)
	}
	brain.State = components.CatIdle
	brain.StateTimer = s.uniform(s.params.IdleMinSec, s.params.IdleMaxSec)
}

// pickWanderTarget tries growing radii and jittered directions for a
// reachable stroll target.
func (s *CatAISystem) pickWanderTarget(e ecs.Entity, brain *components.CatBrain, path *components.PathFollow, tile components.TilePos) {
	bias := brain.Personality.WanderRadiusBias()
	for _, base := range [3]int{2, 3, 4} {
		radius := base + bias
		if radius < 1 {
			radius = 1
		}
		start := s.rng.IntN(8)
		for i := 0; i < 8; i++ {
			angle := float64((start+i)%8)*math.Pi/4 + s.uniform(-0.3, 0.3)
			goal := components.TilePos{
				X: tile.X + int(math.Round(math.Cos(angle)*float64(radius))),
				Y: tile.Y + int(math.Round(math.Sin(angle)*float64(radius))),
			}
			if !s.tm.IsWalkable(goal.X, goal.Y) {
				continue
			}
			if tiles := s.pf.FindPath(e, tile, goal); tiles != nil {
				path.Tiles = tiles
				path.Index = 0
				return
			}
		}
	}
}

// nearestFood returns the closest uneaten food item, or the zero entity.
func (s *CatAISystem) nearestFood(pos *components.Position) ecs.Entity {
	var best ecs.Entity
	bestDist := math.MaxFloat64
	query := s.foods.Query()
	for query.Next() {
		fpos, food := query.Get()
		if food.Eaten {
			continue
		}
		d := (fpos.X-pos.X)*(fpos.X-pos.X) + (fpos.Y-pos.Y)*(fpos.Y-pos.Y)
		if d < bestDist {
			bestDist = d
			best = query.Entity()
		}
	}
	return best
}

func (s *CatAISystem) foodPos(food ecs.Entity) components.Position {
	return *s.posMap.Get(food)
}

func (s *CatAISystem) uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}
