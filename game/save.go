package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
	"github.com/pthm-cable/mothership/systems"
	"github.com/pthm-cable/mothership/telemetry"
	"github.com/pthm-cable/mothership/traits"
)

// SaveSnapshot writes the complete station state to a YAML file.
func (g *Game) SaveSnapshot(path string) error {
	return telemetry.SaveSnapshot(g.buildSnapshot(), path)
}

// RestoreSnapshot loads a saved station over the current game: terrain,
// electrical grid, oxygen, tasks and entities all come from the file.
func (g *Game) RestoreSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if snap.Cols != g.tilemap.Cols || snap.Rows != g.tilemap.Rows {
		return fmt.Errorf("snapshot grid %dx%d does not match world %dx%d",
			snap.Cols, snap.Rows, g.tilemap.Cols, g.tilemap.Rows)
	}

	g.clearWorld()
	g.restoreTerrain(snap)
	g.restoreElectrical(snap)
	g.restoreOxygen(snap)
	g.restoreTasks(snap)
	g.restoreEntities(snap)
	g.tick = snap.Tick
	g.collector.SetTick(g.tick)
	return nil
}

func (g *Game) buildSnapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Seed:     g.seed,
		Tick:     g.tick,
		Cols:     g.tilemap.Cols,
		Rows:     g.tilemap.Rows,
		TileSize: int(g.tilemap.TileSize),
	}

	field := g.oxygen.Field()
	snap.Tiles = make([]uint8, 0, snap.Cols*snap.Rows)
	snap.Oxygen = make([]float64, 0, snap.Cols*snap.Rows)
	for ty := 0; ty < snap.Rows; ty++ {
		for tx := 0; tx < snap.Cols; tx++ {
			snap.Tiles = append(snap.Tiles, uint8(g.tilemap.KindAt(tx, ty)))
			snap.Oxygen = append(snap.Oxygen, field.Level(components.TilePos{X: tx, Y: ty}))
		}
	}

	g.tilemap.EachElectrical(func(e *systems.Electrical) {
		snap.Electrical = append(snap.Electrical, telemetry.ElectricalState{
			Kind:              uint8(e.Kind),
			X:                 e.Origin.X,
			Y:                 e.Origin.Y,
			Size:              e.Size,
			UnderConstruction: e.UnderConstruction,
			BuildTime:         e.BuildTime,
			Capacity:          e.Capacity,
			Demand:            e.Demand,
		})
	})

	g.board.EachTask(func(t *systems.Task) {
		snap.Tasks = append(snap.Tasks, telemetry.TaskState{
			Type:     uint8(t.Type),
			X:        t.Tile.X,
			Y:        t.Tile.Y,
			Priority: t.Priority,
			WorkTime: t.WorkTime,
			Progress: t.Progress,
		})
	})

	catQuery := g.catFilter.Query()
	for catQuery.Next() {
		pos, health, brain := catQuery.Get()
		e := catQuery.Entity()
		state := telemetry.EntityState{
			Kind:      "cat",
			X:         pos.X,
			Y:         pos.Y,
			SpeedBase: g.spdMap.Get(e).Base,
			Health:    health.Current,
			MaxHealth: health.Max,
			Traits:    uint32(brain.Personality),
			State:     uint8(brain.State),
		}
		if g.hungerMap.HasAll(e) {
			h := g.hungerMap.Get(e)
			state.Hunger = h.Current
			state.MaxHunger = h.Max
			state.HungerRate = h.Rate
		}
		if g.moraleMap.HasAll(e) {
			m := g.moraleMap.Get(e)
			state.Morale = m.Current
			state.MaxMorale = m.Max
		}
		g.saveTint(e, &state)
		snap.Entities = append(snap.Entities, state)
	}

	humanQuery := g.humanFilter.Query()
	for humanQuery.Next() {
		pos, health, brain := humanQuery.Get()
		e := humanQuery.Entity()
		state := telemetry.EntityState{
			Kind:      "human",
			X:         pos.X,
			Y:         pos.Y,
			SpeedBase: g.spdMap.Get(e).Base,
			Health:    health.Current,
			MaxHealth: health.Max,
			State:     uint8(brain.State),
		}
		for _, p := range brain.PatrolPoints {
			state.PatrolX = append(state.PatrolX, p.X)
			state.PatrolY = append(state.PatrolY, p.Y)
		}
		g.saveTint(e, &state)
		snap.Entities = append(snap.Entities, state)
	}

	if !g.alien.IsZero() {
		e := g.alien
		pos := g.posMap.Get(e)
		health := g.healthMap.Get(e)
		state := telemetry.EntityState{
			Kind:      "alien",
			X:         pos.X,
			Y:         pos.Y,
			SpeedBase: g.spdMap.Get(e).Base,
			Health:    health.Current,
			MaxHealth: health.Max,
			Stealth:   g.playerMap.Get(e).Stealth,
		}
		if g.moraleMap.HasAll(e) {
			m := g.moraleMap.Get(e)
			state.Morale = m.Current
			state.MaxMorale = m.Max
		}
		g.saveTint(e, &state)
		snap.Entities = append(snap.Entities, state)
	}

	foodQuery := g.foodFilter.Query()
	for foodQuery.Next() {
		pos, food := foodQuery.Get()
		if food.Eaten {
			continue
		}
		state := telemetry.EntityState{
			Kind: "food",
			X:    pos.X,
			Y:    pos.Y,
		}
		g.saveTint(foodQuery.Entity(), &state)
		snap.Entities = append(snap.Entities, state)
	}

	return snap
}

func (g *Game) saveTint(e ecs.Entity, state *telemetry.EntityState) {
	if g.tintMap.HasAll(e) {
		t := g.tintMap.Get(e)
		state.TintR = t.R
		state.TintG = t.G
		state.TintB = t.B
	}
}

// clearWorld removes every entity and resets reservations and tasks.
func (g *Game) clearWorld() {
	var all []ecs.Entity
	moverQuery := g.moverFilter.Query()
	for moverQuery.Next() {
		all = append(all, moverQuery.Entity())
	}
	foodQuery := g.foodFilter.Query()
	for foodQuery.Next() {
		all = append(all, foodQuery.Entity())
	}
	for _, e := range all {
		g.world.RemoveEntity(e)
	}
	g.alien = ecs.Entity{}

	g.occupancy.Clear()
	g.board = systems.NewTaskBoard()
	g.reservations = systems.NewReservationTable()
	// Systems hold pointers to the tilemap and field but the board and
	// reservation table are replaced, so rebuild the dependents.
	g.rebuildSystems()
}

// rebuildSystems recreates the passes that captured the replaced board
// and reservation table.
func (g *Game) rebuildSystems() {
	w := g.world
	cfg := g.cfg
	g.pathfinder = systems.NewPathfinder(
		g.tilemap, g.reservations, g.occupancy,
		cfg.Pathfinding.DiagonalCost, cfg.Pathfinding.MaxSearchRadius, cfg.Pathfinding.MaxIterations,
	)
	g.catAI = systems.NewCatAISystem(w, g.tilemap, g.reservations, g.pathfinder, g.board, g.rng, systems.CatParams{
		CriticalHunger:    cfg.Cats.CriticalHunger,
		StarvationDamage:  cfg.Cats.StarvationDamage,
		EatRangePixels:    cfg.Derived.EatPixels,
		SprintHungerFrac:  cfg.Cats.SprintHunger,
		WanderMinSec:      cfg.Cats.WanderMinSec,
		WanderMaxSec:      cfg.Cats.WanderMaxSec,
		IdleMinSec:        cfg.Cats.IdleMinSec,
		IdleMaxSec:        cfg.Cats.IdleMaxSec,
		LowHealthDrain:    cfg.Cats.LowHealthDrain,
		InterruptPriority: cfg.Tasks.InterruptPriority,
		WorkRangeTiles:    cfg.Tasks.WorkRangeTiles,
	}, g.collector)
	g.humanAI = systems.NewHumanAISystem(w, g.tilemap, g.reservations, g.pathfinder, g.rng, systems.HumanParams{
		DetectionPixels: cfg.Derived.DetectionPixels,
		AttackPixels:    cfg.Derived.AttackPixels,
		AttackDamage:    cfg.Humans.AttackDamage,
		AttackCooldown:  cfg.Humans.AttackCooldown,
		RepathMinSec:    cfg.Humans.RepathMinSec,
		RepathMaxSec:    cfg.Humans.RepathMaxSec,
	}, g.collector)
	g.capture = systems.NewCaptureSystem(w, g.reservations, g.board, g.rng, systems.CaptureParams{
		RangePixels:     cfg.Derived.CapturePixels,
		StealthChance:   cfg.Capture.StealthChance,
		BaseChance:      cfg.Capture.BaseChance,
		UnconsciousSec:  cfg.Capture.UnconsciousSec,
		CarrySpeedScale: cfg.Capture.CarrySpeedScale,
	}, g.collector)
	g.movement = systems.NewMovementSystem(w, g.tilemap, g.reservations, cfg.Movement.ArrivalEpsilon, cfg.Cats.SprintFactor)
}

func (g *Game) restoreTerrain(snap *telemetry.Snapshot) {
	for ty := 0; ty < snap.Rows; ty++ {
		for tx := 0; tx < snap.Cols; tx++ {
			g.tilemap.SetKind(tx, ty, systems.TileKind(snap.Tiles[ty*snap.Cols+tx]))
		}
	}
	g.oxygen.Field().RefreshMask(g.tilemap)
}

func (g *Game) restoreElectrical(snap *telemetry.Snapshot) {
	g.tilemap.ClearElectrical()
	var finished []components.TilePos
	for _, es := range snap.Electrical {
		origin := components.TilePos{X: es.X, Y: es.Y}
		var e *systems.Electrical
		if es.Size > 1 {
			e = g.tilemap.PlaceStructure(systems.ElectricalKind(es.Kind), origin, es.BuildTime, es.Capacity, es.Demand)
		} else {
			e = g.tilemap.PlaceWire(origin, es.BuildTime)
		}
		if e != nil && !es.UnderConstruction {
			finished = append(finished, origin)
		}
	}
	// Link after everything is placed so adjacency is complete.
	for _, origin := range finished {
		g.tilemap.FinishConstruction(origin)
	}
}

func (g *Game) restoreOxygen(snap *telemetry.Snapshot) {
	field := g.oxygen.Field()
	for ty := 0; ty < snap.Rows; ty++ {
		for tx := 0; tx < snap.Cols; tx++ {
			field.SetLevel(components.TilePos{X: tx, Y: ty}, snap.Oxygen[ty*snap.Cols+tx])
		}
	}
}

func (g *Game) restoreTasks(snap *telemetry.Snapshot) {
	for _, ts := range snap.Tasks {
		t := g.board.Add(systems.TaskType(ts.Type), components.TilePos{X: ts.X, Y: ts.Y}, ts.Priority, ts.WorkTime)
		t.Progress = ts.Progress
	}
}

func (g *Game) restoreEntities(snap *telemetry.Snapshot) {
	for _, es := range snap.Entities {
		pos := components.Position{X: es.X, Y: es.Y}
		tint := components.Tint{R: es.TintR, G: es.TintG, B: es.TintB, A: 255}

		switch es.Kind {
		case "cat":
			spd := components.Speed{Base: es.SpeedBase}
			health := components.Health{Current: es.Health, Max: es.MaxHealth}
			hunger := components.Hunger{Current: es.Hunger, Max: es.MaxHunger, Rate: es.HungerRate}
			brain := components.CatBrain{
				State:       components.CatState(es.State),
				Personality: traits.Trait(es.Traits),
			}
			path := components.PathFollow{}
			e := g.catMapper.NewEntity(&pos, &spd, &health, &hunger, &path, &brain, &components.Breather{})
			g.moraleMap.Add(e, &components.Morale{Current: es.Morale, Max: es.MaxMorale})
			g.tintMap.Add(e, &tint)

		case "human":
			spd := components.Speed{Base: es.SpeedBase}
			health := components.Health{Current: es.Health, Max: es.MaxHealth}
			brain := components.HumanBrain{State: components.HumanState(es.State)}
			for i := range es.PatrolX {
				brain.PatrolPoints = append(brain.PatrolPoints, components.TilePos{X: es.PatrolX[i], Y: es.PatrolY[i]})
			}
			path := components.PathFollow{}
			e := g.humanMapper.NewEntity(&pos, &spd, &health, &path, &brain, &components.Captive{}, &components.Breather{})
			g.tintMap.Add(e, &tint)

		case "alien":
			spd := components.Speed{Base: es.SpeedBase}
			health := components.Health{Current: es.Health, Max: es.MaxHealth}
			control := components.PlayerControl{Selected: true, Stealth: es.Stealth}
			path := components.PathFollow{}
			e := g.alienMapper.NewEntity(&pos, &spd, &health, &path, &control, &components.Carrier{}, &components.Breather{})
			g.moraleMap.Add(e, &components.Morale{Current: es.Morale, Max: es.MaxMorale})
			g.tintMap.Add(e, &tint)
			g.alien = e

		case "food":
			g.foodMapper.NewEntity(&pos, &components.Food{}, &tint)
		}
	}
}
