package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

func newTestWorld(cols, rows int) (*Tilemap, *ReservationTable, *OccupancyIndex, *Pathfinder) {
	tm := NewTilemap(cols, rows, 32)
	res := NewReservationTable()
	occ := NewOccupancyIndex()
	pf := NewPathfinder(tm, res, occ, 1.4, 8, 10000)
	return tm, res, occ, pf
}

func testEntity(w *ecs.World) ecs.Entity {
	mapper := ecs.NewMap1[components.Position](w)
	return mapper.NewEntity(&components.Position{})
}

func TestFindPathUnwalkableStart(t *testing.T) {
	tm, res, _, pf := newTestWorld(20, 20)
	w := ecs.NewWorld()
	mover := testEntity(w)
	tm.SetKind(2, 5, TileRock)

	if path := pf.FindPath(mover, components.TilePos{X: 2, Y: 5}, components.TilePos{X: 8, Y: 5}); path != nil {
		t.Errorf("got a path out of an unwalkable start tile: %v", path)
	}
	if res.Count() != 0 {
		t.Errorf("%d reservations left by a failed path request", res.Count())
	}
}

func TestFindPathStraightLine(t *testing.T) {
	_, res, _, pf := newTestWorld(20, 20)
	w := ecs.NewWorld()
	mover := testEntity(w)

	path := pf.FindPath(mover, components.TilePos{X: 2, Y: 5}, components.TilePos{X: 8, Y: 5})
	if path == nil {
		t.Fatal("expected a path on open ground")
	}
	if got := path[len(path)-1]; got != (components.TilePos{X: 8, Y: 5}) {
		t.Errorf("path ends at %v, want (8, 5)", got)
	}
	if len(path) != 6 {
		t.Errorf("straight path has %d tiles, want 6", len(path))
	}
	// The start tile is excluded
	if path[0] == (components.TilePos{X: 2, Y: 5}) {
		t.Error("path must not include the start tile")
	}
	// Every path tile is reserved for the mover
	for _, tile := range path {
		if res.Owner(tile) != mover {
			t.Errorf("tile %v not reserved for the mover", tile)
		}
	}
}

func TestFindPathAroundWall(t *testing.T) {
	tm, _, _, pf := newTestWorld(20, 20)
	w := ecs.NewWorld()
	mover := testEntity(w)

	// Vertical wall with no gap between start and goal
	for ty := 2; ty <= 8; ty++ {
		tm.SetKind(5, ty, TileWall)
	}

	path := pf.FindPath(mover, components.TilePos{X: 3, Y: 5}, components.TilePos{X: 7, Y: 5})
	if path == nil {
		t.Fatal("expected a detour around the wall")
	}
	for _, tile := range path {
		if tm.KindAt(tile.X, tile.Y) == TileWall {
			t.Errorf("path crosses wall at %v", tile)
		}
	}
	if len(path) <= 4 {
		t.Errorf("detour suspiciously short: %d tiles", len(path))
	}
}

func TestFindPathNoCornerCutting(t *testing.T) {
	tm, _, _, pf := newTestWorld(10, 10)
	w := ecs.NewWorld()
	mover := testEntity(w)

	// Single blocked tile; a diagonal step around its corner would pass
	// between (4,4) and an open tile.
	tm.SetKind(4, 4, TileRock)

	path := pf.FindPath(mover, components.TilePos{X: 3, Y: 4}, components.TilePos{X: 5, Y: 4})
	if path == nil {
		t.Fatal("expected a path around the rock")
	}
	prev := components.TilePos{X: 3, Y: 4}
	for _, tile := range path {
		dx := tile.X - prev.X
		dy := tile.Y - prev.Y
		if dx != 0 && dy != 0 {
			// Diagonal step: both adjacent cardinals must be open
			if !tm.IsWalkable(prev.X+dx, prev.Y) || !tm.IsWalkable(prev.X, prev.Y+dy) {
				t.Errorf("corner cut from %v to %v", prev, tile)
			}
		}
		prev = tile
	}
}

func TestFindPathBlockedGoalPicksNearestOpen(t *testing.T) {
	tm, _, _, pf := newTestWorld(10, 10)
	w := ecs.NewWorld()
	mover := testEntity(w)

	goal := components.TilePos{X: 7, Y: 7}
	tm.SetKind(goal.X, goal.Y, TileRock)

	path := pf.FindPath(mover, components.TilePos{X: 2, Y: 2}, goal)
	if path == nil {
		t.Fatal("expected a path to a tile near the blocked goal")
	}
	end := path[len(path)-1]
	if end == goal {
		t.Error("path ends on the blocked goal itself")
	}
	if abs(end.X-goal.X) > 1 || abs(end.Y-goal.Y) > 1 {
		t.Errorf("replacement goal %v not adjacent to %v", end, goal)
	}
}

func TestFindPathRespectsReservations(t *testing.T) {
	_, res, _, pf := newTestWorld(10, 3)
	w := ecs.NewWorld()
	first := testEntity(w)
	second := testEntity(w)

	// First mover reserves the full corridor row. The map is 3 rows with
	// row 0 and 2 still open, so the second mover must detour.
	for tx := 3; tx <= 6; tx++ {
		if !res.Reserve(components.TilePos{X: tx, Y: 1}, first) {
			t.Fatalf("failed to reserve (%d, 1)", tx)
		}
	}

	path := pf.FindPath(second, components.TilePos{X: 1, Y: 1}, components.TilePos{X: 8, Y: 1})
	if path == nil {
		t.Fatal("expected a detour around the reserved tiles")
	}
	for _, tile := range path {
		if res.Owner(tile) == first {
			t.Errorf("path crosses tile %v reserved by another mover", tile)
		}
	}
}

func TestFindPathAvoidsOccupiedTiles(t *testing.T) {
	_, _, occ, pf := newTestWorld(10, 10)
	w := ecs.NewWorld()
	mover := testEntity(w)
	blocker := testEntity(w)

	occ.Add(components.TilePos{X: 5, Y: 5}, blocker)

	path := pf.FindPath(mover, components.TilePos{X: 3, Y: 5}, components.TilePos{X: 7, Y: 5})
	if path == nil {
		t.Fatal("expected a path around the occupied tile")
	}
	for _, tile := range path {
		if tile == (components.TilePos{X: 5, Y: 5}) {
			t.Error("path crosses an occupied tile")
		}
	}
}

func TestFindPathSameStartAndGoal(t *testing.T) {
	_, _, _, pf := newTestWorld(10, 10)
	w := ecs.NewWorld()
	mover := testEntity(w)

	if path := pf.FindPath(mover, components.TilePos{X: 4, Y: 4}, components.TilePos{X: 4, Y: 4}); path != nil {
		t.Errorf("expected nil path for start == goal, got %v", path)
	}
}

func TestFindPathUnreachableGoal(t *testing.T) {
	tm, res, _, pf := newTestWorld(12, 12)
	w := ecs.NewWorld()
	mover := testEntity(w)

	// Seal the goal inside a closed rock box bigger than the search radius
	// can escape from the outside.
	for i := 4; i <= 8; i++ {
		tm.SetKind(i, 4, TileRock)
		tm.SetKind(i, 8, TileRock)
		tm.SetKind(4, i, TileRock)
		tm.SetKind(8, i, TileRock)
	}
	// Fill the interior too so the ring search finds nothing open inside
	for ty := 5; ty <= 7; ty++ {
		for tx := 5; tx <= 7; tx++ {
			tm.SetKind(tx, ty, TileRock)
		}
	}

	path := pf.FindPath(mover, components.TilePos{X: 1, Y: 1}, components.TilePos{X: 6, Y: 6})
	if path != nil {
		// Ring search may relocate the goal outside the box; that path
		// must then avoid the rock entirely.
		for _, tile := range path {
			if tm.KindAt(tile.X, tile.Y) == TileRock {
				t.Errorf("path crosses rock at %v", tile)
			}
		}
		return
	}
	if res.Count() != 0 {
		t.Errorf("failed search left %d reservations behind", res.Count())
	}
}
