package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
	"github.com/pthm-cable/mothership/systems"
	"github.com/pthm-cable/mothership/traits"
)

// populate fills the freshly generated map with the starting scenario:
// crew cats inside the station, guards on patrol, the player alien
// outside, food scattered on the grass, and an unfinished power grid
// for the crew to build out.
func (g *Game) populate() {
	left, top, w, h := systems.StationBounds(g.tilemap)

	g.seedPowerGrid(left, top, w, h)
	g.seedOxygen(left, top, w, h)
	g.spawnCats(left, top, w, h)
	g.spawnHumans(left, top, w, h)
	g.spawnAlien(left, top, w, h)
	g.spawnFood()
}

// spawnCats places the cat crew on random interior floor tiles.
func (g *Game) spawnCats(left, top, w, h int) {
	cfg := g.cfg.Cats
	for i := 0; i < cfg.Count; i++ {
		tile := g.randomInteriorTile(left, top, w, h)
		pos := g.tilemap.TileCenter(tile)

		personality := traits.Roll(g.rng)
		spd := components.Speed{Base: g.uniform(cfg.SpeedMin, cfg.SpeedMax)}
		health := components.Health{Current: cfg.MaxHealth, Max: cfg.MaxHealth}
		hunger := components.Hunger{Current: cfg.StartHunger, Max: cfg.MaxHunger, Rate: cfg.HungerRate}
		brain := components.CatBrain{
			State:       components.CatWandering,
			StateTimer:  g.uniform(cfg.WanderMinSec, cfg.WanderMaxSec),
			Personality: personality,
		}
		path := components.PathFollow{}

		e := g.catMapper.NewEntity(&pos, &spd, &health, &hunger, &path, &brain, &components.Breather{})
		g.moraleMap.Add(e, &components.Morale{Current: cfg.MaxMorale, Max: cfg.MaxMorale})
		g.tintMap.Add(e, &components.Tint{
			R: uint8(170 + g.rng.IntN(80)),
			G: uint8(120 + g.rng.IntN(80)),
			B: uint8(40 + g.rng.IntN(60)),
			A: 255,
		})
	}
}

// spawnHumans places guards on rectangular patrol loops inside the
// station walls, each loop inset a little further than the last.
func (g *Game) spawnHumans(left, top, w, h int) {
	cfg := g.cfg.Humans
	for i := 0; i < cfg.Count; i++ {
		inset := 2 + i*2
		if inset*2+2 >= w || inset*2+2 >= h {
			inset = 2
		}
		loop := []components.TilePos{
			{X: left + inset, Y: top + inset},
			{X: left + w - 1 - inset, Y: top + inset},
			{X: left + w - 1 - inset, Y: top + h - 1 - inset},
			{X: left + inset, Y: top + h - 1 - inset},
		}
		for j, p := range loop {
			loop[j] = g.nearestWalkable(p)
		}

		start := loop[i%len(loop)]
		pos := g.tilemap.TileCenter(start)
		spd := components.Speed{Base: cfg.Speed}
		health := components.Health{Current: cfg.MaxHealth, Max: cfg.MaxHealth}
		brain := components.HumanBrain{
			State:        components.HumanPatrol,
			PatrolPoints: loop,
			PatrolIndex:  (i + 1) % len(loop),
		}
		path := components.PathFollow{}

		e := g.humanMapper.NewEntity(&pos, &spd, &health, &path, &brain, &components.Captive{}, &components.Breather{})
		g.tintMap.Add(e, &components.Tint{R: 220, G: 80, B: 80, A: 255})
	}
}

// spawnAlien places the player-controlled alien just outside the
// station's west door.
func (g *Game) spawnAlien(left, top, w, h int) {
	cfg := g.cfg.Aliens
	tile := g.nearestWalkable(components.TilePos{X: left - 4, Y: top + h/2})
	pos := g.tilemap.TileCenter(tile)
	spd := components.Speed{Base: cfg.Speed}
	health := components.Health{Current: cfg.MaxHealth, Max: cfg.MaxHealth}
	control := components.PlayerControl{Selected: true}
	path := components.PathFollow{}

	e := g.alienMapper.NewEntity(&pos, &spd, &health, &path, &control, &components.Carrier{}, &components.Breather{})
	g.moraleMap.Add(e, &components.Morale{Current: cfg.MaxMorale, Max: cfg.MaxMorale})
	g.tintMap.Add(e, &components.Tint{R: 90, G: 220, B: 120, A: 255})
	g.alien = e
}

// spawnFood scatters food on grass tiles across the map.
func (g *Game) spawnFood() {
	const foodCount = 12
	placed := 0
	for attempts := 0; attempts < foodCount*50 && placed < foodCount; attempts++ {
		tx := g.rng.IntN(g.tilemap.Cols)
		ty := g.rng.IntN(g.tilemap.Rows)
		if g.tilemap.KindAt(tx, ty) != systems.TileGrass {
			continue
		}
		pos := g.tilemap.TileCenter(components.TilePos{X: tx, Y: ty})
		g.foodMapper.NewEntity(&pos, &components.Food{}, &components.Tint{R: 240, G: 200, B: 60, A: 255})
		placed++
	}
	if placed < foodCount {
		slog.Warn("sparse food spawn", "placed", placed, "wanted", foodCount)
	}
}

// seedPowerGrid places a built reactor and life support inside the
// station and lays an unfinished wire run between them. The wires post
// construction tasks, so the crew has work from the first tick and the
// life support only powers up once the run is built.
func (g *Game) seedPowerGrid(left, top, w, h int) {
	pw := g.cfg.Power
	midY := top + h/2

	reactorOrigin := components.TilePos{X: left + 3, Y: midY - 4}
	lifeOrigin := components.TilePos{X: left + w - 5, Y: midY - 4}

	reactor := g.tilemap.PlaceStructure(systems.ElecReactor, reactorOrigin, pw.ReactorBuildTime, pw.ReactorCapacity, 0)
	life := g.tilemap.PlaceStructure(systems.ElecLifeSupport, lifeOrigin, pw.LifeSupportBuildTime, 0, pw.LifeSupportDemand)
	if reactor == nil || life == nil {
		slog.Warn("power grid seed failed", "reactor", reactor != nil, "life_support", life != nil)
		return
	}
	g.tilemap.FinishConstruction(reactorOrigin)
	g.tilemap.FinishConstruction(lifeOrigin)

	// Wire endpoints hug the structures so the finished run links up.
	a := components.TilePos{X: reactorOrigin.X + 2, Y: reactorOrigin.Y}
	b := components.TilePos{X: lifeOrigin.X - 1, Y: lifeOrigin.Y}
	placed := systems.PlaceWireRun(g.tilemap, g.board, a, b, pw.WireBuildTime)
	slog.Info("power grid seeded", "wires", placed)
}

// seedOxygen fills the station interior with breathable air and leaves
// the outside thin.
func (g *Game) seedOxygen(left, top, w, h int) {
	field := g.oxygen.Field()
	for ty := 0; ty < g.tilemap.Rows; ty++ {
		for tx := 0; tx < g.tilemap.Cols; tx++ {
			inside := tx > left && tx < left+w-1 && ty > top && ty < top+h-1
			level := 0.4
			if inside {
				level = 1.0
			}
			field.SetLevel(components.TilePos{X: tx, Y: ty}, level)
		}
	}
}

// randomInteriorTile picks a random walkable tile strictly inside the
// station walls.
func (g *Game) randomInteriorTile(left, top, w, h int) components.TilePos {
	for i := 0; i < 200; i++ {
		tile := components.TilePos{
			X: left + 1 + g.rng.IntN(w-2),
			Y: top + 1 + g.rng.IntN(h-2),
		}
		if g.tilemap.IsWalkable(tile.X, tile.Y) {
			return tile
		}
	}
	return g.nearestWalkable(components.TilePos{X: left + w/2, Y: top + h/2})
}

// nearestWalkable returns the given tile, or the closest walkable tile
// found by expanding ring search.
func (g *Game) nearestWalkable(tile components.TilePos) components.TilePos {
	if g.tilemap.IsWalkable(tile.X, tile.Y) {
		return tile
	}
	for r := 1; r < g.tilemap.Cols; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx > -r && dx < r && dy > -r && dy < r {
					continue
				}
				if g.tilemap.IsWalkable(tile.X+dx, tile.Y+dy) {
					return components.TilePos{X: tile.X + dx, Y: tile.Y + dy}
				}
			}
		}
	}
	return tile
}

func (g *Game) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

// entityLabel names an entity for logs and the selection panel.
func (g *Game) entityLabel(e ecs.Entity) string {
	switch {
	case g.playerMap.HasAll(e):
		return "alien"
	case g.catMap.HasAll(e):
		return "cat"
	case g.humanMap.HasAll(e):
		return "human"
	default:
		return "entity"
	}
}
