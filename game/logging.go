package game

import (
	"log/slog"
)

// logWorldState emits a structured summary of the simulation state.
// Called at window boundaries when stats logging is on.
func (g *Game) logWorldState() {
	catStates := make(map[string]int)
	catQuery := g.catFilter.Query()
	for catQuery.Next() {
		_, health, brain := catQuery.Get()
		if health.Current <= 0 {
			continue
		}
		catStates[brain.State.String()]++
	}

	humanStates := make(map[string]int)
	humanQuery := g.humanFilter.Query()
	for humanQuery.Next() {
		_, health, brain := humanQuery.Get()
		if health.Current <= 0 {
			continue
		}
		humanStates[brain.State.String()]++
	}

	foodLeft := 0
	foodQuery := g.foodFilter.Query()
	for foodQuery.Next() {
		_, food := foodQuery.Get()
		if !food.Eaten {
			foodLeft++
		}
	}

	slog.Info("world state",
		"tick", g.tick,
		"cat_states", catStates,
		"human_states", humanStates,
		"food_left", foodLeft,
		"reserved_tiles", g.reservations.Count(),
		"tasks_available", g.board.AvailableCount(),
		"tasks_assigned", g.board.AssignedCount(),
		"tasks_completed", g.board.CompletedCount(),
		"oxygen_mean", g.oxygen.Field().Mean(),
	)
}
