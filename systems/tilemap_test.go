package systems

import (
	"testing"

	"github.com/pthm-cable/mothership/components"
)

func TestBresenhamLine(t *testing.T) {
	cases := []struct {
		a, b components.TilePos
		want int
	}{
		{components.TilePos{X: 0, Y: 0}, components.TilePos{X: 4, Y: 0}, 5},
		{components.TilePos{X: 0, Y: 0}, components.TilePos{X: 0, Y: 3}, 4},
		{components.TilePos{X: 0, Y: 0}, components.TilePos{X: 3, Y: 3}, 4},
		{components.TilePos{X: 5, Y: 5}, components.TilePos{X: 5, Y: 5}, 1},
		{components.TilePos{X: 4, Y: 0}, components.TilePos{X: 0, Y: 0}, 5},
	}
	for _, c := range cases {
		line := BresenhamLine(c.a, c.b)
		if len(line) != c.want {
			t.Errorf("line %v->%v has %d tiles, want %d", c.a, c.b, len(line), c.want)
		}
		if line[0] != c.a || line[len(line)-1] != c.b {
			t.Errorf("line %v->%v endpoints wrong: %v ... %v", c.a, c.b, line[0], line[len(line)-1])
		}
	}
}

func TestStructureFootprintBlocksWalking(t *testing.T) {
	tm := NewTilemap(10, 10, 32)
	e := tm.PlaceStructure(ElecReactor, components.TilePos{X: 3, Y: 3}, 10, 100, 0)
	if e == nil {
		t.Fatal("placement on open floor failed")
	}

	for _, tile := range e.Footprint() {
		if tm.IsWalkable(tile.X, tile.Y) {
			t.Errorf("footprint tile %v still walkable", tile)
		}
	}
	if !tm.IsWalkable(5, 3) {
		t.Error("tile outside the footprint must stay walkable")
	}
}

func TestWiresStayWalkable(t *testing.T) {
	tm := NewTilemap(10, 10, 32)
	if tm.PlaceWire(components.TilePos{X: 2, Y: 2}, 5) == nil {
		t.Fatal("wire placement failed")
	}
	if !tm.IsWalkable(2, 2) {
		t.Error("a wire tile must remain walkable")
	}
}

func TestPlaceRejectsOverlapAndBadTerrain(t *testing.T) {
	tm := NewTilemap(10, 10, 32)
	tm.SetKind(5, 5, TileRock)

	if tm.PlaceWire(components.TilePos{X: 5, Y: 5}, 5) != nil {
		t.Error("wire placed on rock")
	}
	if tm.PlaceStructure(ElecReactor, components.TilePos{X: 4, Y: 4}, 10, 100, 0) != nil {
		t.Error("structure footprint covering rock accepted")
	}

	tm.PlaceWire(components.TilePos{X: 1, Y: 1}, 5)
	if tm.PlaceWire(components.TilePos{X: 1, Y: 1}, 5) != nil {
		t.Error("second wire on the same tile accepted")
	}
	if tm.PlaceStructure(ElecLifeSupport, components.TilePos{X: 1, Y: 1}, 10, 0, 5) != nil {
		t.Error("structure overlapping a wire accepted")
	}
}

func TestFinishConstructionLinksNeighbors(t *testing.T) {
	tm := NewTilemap(12, 12, 32)
	wireA := tm.PlaceWire(components.TilePos{X: 2, Y: 2}, 5)
	wireB := tm.PlaceWire(components.TilePos{X: 3, Y: 2}, 5)

	tm.FinishConstruction(components.TilePos{X: 2, Y: 2})
	if len(wireA.ConnectedTiles) != 0 {
		t.Error("built wire linked to an unbuilt neighbor")
	}

	tm.FinishConstruction(components.TilePos{X: 3, Y: 2})
	// Both directions after the second finish
	if len(wireA.ConnectedTiles) != 1 || wireA.ConnectedTiles[0] != (components.TilePos{X: 3, Y: 2}) {
		t.Errorf("wireA links = %v, want [(3, 2)]", wireA.ConnectedTiles)
	}
	if len(wireB.ConnectedTiles) != 1 || wireB.ConnectedTiles[0] != (components.TilePos{X: 2, Y: 2}) {
		t.Errorf("wireB links = %v, want [(2, 2)]", wireB.ConnectedTiles)
	}
}

func TestFinishConstructionLinksStructureEdge(t *testing.T) {
	tm := NewTilemap(12, 12, 32)
	reactor := tm.PlaceStructure(ElecReactor, components.TilePos{X: 2, Y: 2}, 10, 100, 0)
	wire := tm.PlaceWire(components.TilePos{X: 4, Y: 2}, 5)

	tm.FinishConstruction(components.TilePos{X: 2, Y: 2})
	tm.FinishConstruction(components.TilePos{X: 4, Y: 2})

	// Wire sits cardinal to footprint tile (3,2)
	found := false
	for _, c := range reactor.ConnectedTiles {
		if c == (components.TilePos{X: 4, Y: 2}) {
			found = true
		}
	}
	if !found {
		t.Error("reactor not linked to the adjacent wire")
	}
	if len(wire.ConnectedTiles) != 1 {
		t.Errorf("wire links = %v, want one footprint tile", wire.ConnectedTiles)
	}
}

func TestPlaceWireRunPostsTasks(t *testing.T) {
	tm := NewTilemap(20, 20, 32)
	board := NewTaskBoard()

	a := components.TilePos{X: 2, Y: 5}
	b := components.TilePos{X: 8, Y: 5}
	placed := PlaceWireRun(tm, board, a, b, 5)

	if placed != 7 {
		t.Errorf("placed %d wires, want 7", placed)
	}
	if board.AvailableCount() != 7 {
		t.Errorf("posted %d tasks, want 7", board.AvailableCount())
	}

	// Endpoints get high priority, the middle of the run normal
	board.EachTask(func(task *Task) {
		wantPriority := 1
		if task.Tile == a || task.Tile == b {
			wantPriority = 2
		}
		if task.Priority != wantPriority {
			t.Errorf("task at %v has priority %d, want %d", task.Tile, task.Priority, wantPriority)
		}
	})
}

func TestPlaceWireRunSkipsBlockedTiles(t *testing.T) {
	tm := NewTilemap(20, 20, 32)
	board := NewTaskBoard()
	tm.SetKind(5, 5, TileRock)

	placed := PlaceWireRun(tm, board, components.TilePos{X: 3, Y: 5}, components.TilePos{X: 7, Y: 5}, 5)
	if placed != 4 {
		t.Errorf("placed %d wires, want 4 with one blocked tile", placed)
	}
	if tm.ElectricalAt(components.TilePos{X: 5, Y: 5}) != nil {
		t.Error("wire placed on rock")
	}
}

func TestWorldToTileAndCenter(t *testing.T) {
	tm := NewTilemap(10, 10, 32)
	tile := tm.WorldToTile(95, 40)
	if tile != (components.TilePos{X: 2, Y: 1}) {
		t.Errorf("WorldToTile(95, 40) = %v, want (2, 1)", tile)
	}
	center := tm.TileCenter(components.TilePos{X: 2, Y: 1})
	if center.X != 80 || center.Y != 48 {
		t.Errorf("TileCenter(2, 1) = (%f, %f), want (80, 48)", center.X, center.Y)
	}
}

func TestKindAtOutOfBounds(t *testing.T) {
	tm := NewTilemap(5, 5, 32)
	if tm.KindAt(-1, 0) != TileBarrier || tm.KindAt(0, 5) != TileBarrier {
		t.Error("out-of-bounds reads must return barrier")
	}
}
