package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// simulationStep advances the world by one fixed tick.
func (g *Game) simulationStep() {
	g.tick++
	g.collector.SetTick(g.tick)

	// 1. Occupancy rebuilds from scratch so pathfinding sees current positions
	g.rebuildOccupancy()

	// 2. Behavior
	g.catAI.Update(g.dt)
	g.humanAI.Update(g.dt)

	// 3. Capture state machine (wake timers, carried pinning)
	g.capture.Update(g.dt)

	// 4. Movement along reserved paths
	g.movement.Update(g.dt)

	// 5. Station simulation
	g.power.Update()
	g.oxygen.Update(g.dt)

	// 6. Cleanup
	g.cleanupDead()
	g.cleanupEatenFood()

	// 7. Telemetry window flush
	if g.collector.ShouldFlush() {
		g.flushTelemetry()
	}
}

// rebuildOccupancy reindexes every mover's current tile.
func (g *Game) rebuildOccupancy() {
	g.occupancy.Clear()
	query := g.moverFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		g.occupancy.Add(g.tilemap.WorldToTile(pos.X, pos.Y), query.Entity())
	}
}

// cleanupDead removes entities whose health hit zero, releasing
// everything they held: reserved tiles, claimed tasks, carried targets.
func (g *Game) cleanupDead() {
	type deadInfo struct {
		entity ecs.Entity
		label  string
		cause  string
	}
	var toRemove []deadInfo

	catQuery := g.catFilter.Query()
	for catQuery.Next() {
		pos, health, _ := catQuery.Get()
		if health.Current > 0 {
			continue
		}
		e := catQuery.Entity()
		toRemove = append(toRemove, deadInfo{entity: e, label: "cat", cause: g.deathCause(e, pos)})
	}

	humanQuery := g.humanFilter.Query()
	for humanQuery.Next() {
		_, health, _ := humanQuery.Get()
		if health.Current > 0 {
			continue
		}
		toRemove = append(toRemove, deadInfo{entity: humanQuery.Entity(), label: "human"})
	}

	alienQuery := g.alienFilter.Query()
	for alienQuery.Next() {
		e := alienQuery.Entity()
		if g.healthMap.Get(e).Current > 0 {
			continue
		}
		toRemove = append(toRemove, deadInfo{entity: e, label: "alien"})
	}

	for _, dead := range toRemove {
		e := dead.entity

		// A dead carrier drops its cargo in place.
		g.capture.ReleaseOnDeath(e)

		// If the dead entity was being carried, free the carrier.
		if g.captMap.HasAll(e) {
			capt := g.captMap.Get(e)
			if capt.State == components.CaptureCarried && !capt.Carrier.IsZero() && g.carrMap.HasAll(capt.Carrier) {
				g.capture.Release(capt.Carrier)
			}
		}

		// Dying clears every claim the entity held.
		g.reservations.ReleaseAll(e)
		g.board.ReleaseFor(e)

		if dead.label == "cat" {
			g.collector.CatDied(uint32(e.ID()), dead.cause)
		}
		slog.Info("entity died", "kind", dead.label, "cause", dead.cause, "tick", g.tick)

		if e == g.alien {
			g.alien = ecs.Entity{}
		}
		g.world.RemoveEntity(e)
	}
}

// deathCause attributes a cat death to starvation, suffocation or damage.
func (g *Game) deathCause(e ecs.Entity, pos *components.Position) string {
	if g.hungerMap.HasAll(e) && g.hungerMap.Get(e).Current <= 0 {
		return "starvation"
	}
	tile := g.tilemap.WorldToTile(pos.X, pos.Y)
	if g.oxygen.Field().DeficitDamage(tile) > 0 {
		return "suffocation"
	}
	return "damage"
}

// cleanupEatenFood removes consumed food entities.
func (g *Game) cleanupEatenFood() {
	var eaten []ecs.Entity
	query := g.foodFilter.Query()
	for query.Next() {
		_, food := query.Get()
		if food.Eaten {
			eaten = append(eaten, query.Entity())
		}
	}
	for _, e := range eaten {
		g.world.RemoveEntity(e)
	}
}

// flushTelemetry samples the world, emits a window record and drains
// buffered events to disk.
func (g *Game) flushTelemetry() {
	catCount := 0
	var hungers []float64
	catQuery := g.catFilter.Query()
	for catQuery.Next() {
		_, health, _ := catQuery.Get()
		if health.Current <= 0 {
			continue
		}
		catCount++
		if g.hungerMap.HasAll(catQuery.Entity()) {
			hungers = append(hungers, g.hungerMap.Get(catQuery.Entity()).Current)
		}
	}

	humanCount := 0
	humanQuery := g.humanFilter.Query()
	for humanQuery.Next() {
		_, health, _ := humanQuery.Get()
		if health.Current > 0 {
			humanCount++
		}
	}

	field := g.oxygen.Field()
	stats := g.collector.Flush(
		catCount, humanCount, hungers,
		field.Mean(), field.Total(),
		g.board.AvailableCount(), g.board.AssignedCount(),
	)

	if g.logStats {
		stats.LogStats()
		g.logWorldState()
	}
	if g.output != nil {
		if err := g.output.WriteWindow(stats); err != nil {
			slog.Error("writing window stats", "error", err)
		}
		if err := g.output.WriteEvents(g.collector.DrainEvents()); err != nil {
			slog.Error("writing events", "error", err)
		}
	} else {
		g.collector.DrainEvents()
	}
}
