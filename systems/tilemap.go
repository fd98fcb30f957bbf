package systems

import (
	"github.com/pthm-cable/mothership/components"
)

// TileKind identifies terrain types.
type TileKind uint8

const (
	TileFloor TileKind = iota
	TileGrass
	TileRock
	TileWall
	TileBarrier
)

// TileInfo holds static properties of a tile kind.
type TileInfo struct {
	Name     string
	Walkable bool
	R, G, B  uint8
}

// TileInfos indexes tile properties by kind.
var TileInfos = [...]TileInfo{
	TileFloor:   {Name: "floor", Walkable: true, R: 100, G: 100, B: 100},
	TileGrass:   {Name: "grass", Walkable: true, R: 50, G: 200, B: 50},
	TileRock:    {Name: "rock", Walkable: false, R: 160, G: 82, B: 45},
	TileWall:    {Name: "wall", Walkable: false, R: 80, G: 80, B: 80},
	TileBarrier: {Name: "barrier", Walkable: false, R: 139, G: 0, B: 0},
}

// ElectricalKind identifies electrical overlay components.
type ElectricalKind uint8

const (
	ElecWire ElectricalKind = iota
	ElecReactor
	ElecLifeSupport
)

func (k ElectricalKind) String() string {
	switch k {
	case ElecWire:
		return "wire"
	case ElecReactor:
		return "reactor"
	case ElecLifeSupport:
		return "life_support"
	}
	return "unknown"
}

// Electrical is one component of the station's electrical overlay.
// Structures span a 2x2 footprint; wires occupy a single tile.
type Electrical struct {
	Kind              ElectricalKind
	Origin            components.TilePos
	Size              int // Footprint edge in tiles: 1 for wires, 2 for structures
	UnderConstruction bool
	BuildTime         float64
	ConnectedTiles    []components.TilePos // Cardinal-adjacent built components, mutual
	Powered           bool
	Capacity          float64 // Power provided (reactors)
	Demand            float64 // Power required (consumers)
}

// Footprint returns every tile covered by the component.
func (e *Electrical) Footprint() []components.TilePos {
	tiles := make([]components.TilePos, 0, e.Size*e.Size)
	for dy := 0; dy < e.Size; dy++ {
		for dx := 0; dx < e.Size; dx++ {
			tiles = append(tiles, components.TilePos{X: e.Origin.X + dx, Y: e.Origin.Y + dy})
		}
	}
	return tiles
}

// Tilemap is the station map: a dense terrain grid plus a sparse
// electrical overlay keyed by footprint tile.
type Tilemap struct {
	Cols, Rows int
	TileSize   float64

	kinds      []TileKind
	electrical map[components.TilePos]*Electrical
}

// NewTilemap creates a map filled with floor tiles.
func NewTilemap(cols, rows int, tileSize float64) *Tilemap {
	return &Tilemap{
		Cols:       cols,
		Rows:       rows,
		TileSize:   tileSize,
		kinds:      make([]TileKind, cols*rows),
		electrical: make(map[components.TilePos]*Electrical),
	}
}

// InBounds reports whether a tile lies on the map.
func (t *Tilemap) InBounds(tx, ty int) bool {
	return tx >= 0 && tx < t.Cols && ty >= 0 && ty < t.Rows
}

// KindAt returns the terrain kind of a tile. Out of bounds reads as barrier.
func (t *Tilemap) KindAt(tx, ty int) TileKind {
	if !t.InBounds(tx, ty) {
		return TileBarrier
	}
	return t.kinds[ty*t.Cols+tx]
}

// SetKind sets the terrain kind of a tile.
func (t *Tilemap) SetKind(tx, ty int, k TileKind) {
	if t.InBounds(tx, ty) {
		t.kinds[ty*t.Cols+tx] = k
	}
}

// IsWalkable reports whether a tile can be walked on: terrain must allow
// it and no structure footprint may claim the tile. Wires stay walkable.
func (t *Tilemap) IsWalkable(tx, ty int) bool {
	if !t.InBounds(tx, ty) {
		return false
	}
	if !TileInfos[t.kinds[ty*t.Cols+tx]].Walkable {
		return false
	}
	if e, ok := t.electrical[components.TilePos{X: tx, Y: ty}]; ok && e.Size > 1 {
		return false
	}
	return true
}

// ElectricalAt returns the electrical component covering a tile, or nil.
func (t *Tilemap) ElectricalAt(tile components.TilePos) *Electrical {
	return t.electrical[tile]
}

// EachElectrical visits every distinct electrical component once.
func (t *Tilemap) EachElectrical(fn func(*Electrical)) {
	for tile, e := range t.electrical {
		if tile == e.Origin {
			fn(e)
		}
	}
}

// WorldToTile converts pixel coordinates to tile coordinates.
func (t *Tilemap) WorldToTile(x, y float64) components.TilePos {
	return components.TilePos{X: int(x / t.TileSize), Y: int(y / t.TileSize)}
}

// TileCenter returns the pixel center of a tile.
func (t *Tilemap) TileCenter(tile components.TilePos) components.Position {
	return components.Position{
		X: (float64(tile.X) + 0.5) * t.TileSize,
		Y: (float64(tile.Y) + 0.5) * t.TileSize,
	}
}

// PlaceWire puts an under-construction wire on a tile. Fails on blocked
// terrain or a tile already holding electrical hardware.
func (t *Tilemap) PlaceWire(tile components.TilePos, buildTime float64) *Electrical {
	if !t.InBounds(tile.X, tile.Y) || !TileInfos[t.KindAt(tile.X, tile.Y)].Walkable {
		return nil
	}
	if _, ok := t.electrical[tile]; ok {
		return nil
	}
	e := &Electrical{
		Kind:              ElecWire,
		Origin:            tile,
		Size:              1,
		UnderConstruction: true,
		BuildTime:         buildTime,
	}
	t.electrical[tile] = e
	return e
}

// PlaceStructure claims a 2x2 footprint for a reactor or life support.
// Every footprint tile must be walkable terrain free of other hardware.
func (t *Tilemap) PlaceStructure(kind ElectricalKind, origin components.TilePos, buildTime, capacity, demand float64) *Electrical {
	e := &Electrical{
		Kind:              kind,
		Origin:            origin,
		Size:              2,
		UnderConstruction: true,
		BuildTime:         buildTime,
		Capacity:          capacity,
		Demand:            demand,
	}
	for _, tile := range e.Footprint() {
		if !t.InBounds(tile.X, tile.Y) || !TileInfos[t.KindAt(tile.X, tile.Y)].Walkable {
			return nil
		}
		if _, ok := t.electrical[tile]; ok {
			return nil
		}
	}
	for _, tile := range e.Footprint() {
		t.electrical[tile] = e
	}
	return e
}

// ClearElectrical removes every electrical component. Used when
// restoring a saved station.
func (t *Tilemap) ClearElectrical() {
	clear(t.electrical)
}

// FinishConstruction marks the component on a tile built and links it to
// cardinal-adjacent built components in both directions.
func (t *Tilemap) FinishConstruction(tile components.TilePos) {
	e := t.electrical[tile]
	if e == nil || !e.UnderConstruction {
		return
	}
	e.UnderConstruction = false
	for _, ft := range e.Footprint() {
		for _, n := range cardinalNeighbors(ft) {
			other := t.electrical[n]
			if other == nil || other == e || other.UnderConstruction {
				continue
			}
			linkTiles(e, n)
			linkTiles(other, ft)
		}
	}
}

func cardinalNeighbors(p components.TilePos) [4]components.TilePos {
	return [4]components.TilePos{
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
	}
}

func linkTiles(e *Electrical, tile components.TilePos) {
	for _, c := range e.ConnectedTiles {
		if c == tile {
			return
		}
	}
	e.ConnectedTiles = append(e.ConnectedTiles, tile)
}

// BresenhamLine rasterizes the tiles between two endpoints, inclusive.
func BresenhamLine(a, b components.TilePos) []components.TilePos {
	var tiles []components.TilePos
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		tiles = append(tiles, components.TilePos{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			return tiles
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// PlaceWireRun lays an under-construction wire along the line between two
// tiles and posts one construction task per placed wire. Endpoint tiles
// get high priority, the run between them normal priority.
// Returns the number of wires placed.
func PlaceWireRun(tm *Tilemap, board *TaskBoard, a, b components.TilePos, buildTime float64) int {
	line := BresenhamLine(a, b)
	placed := 0
	for i, tile := range line {
		if tm.PlaceWire(tile, buildTime) == nil {
			continue
		}
		priority := 1
		if i == 0 || i == len(line)-1 {
			priority = 2
		}
		board.Add(TaskWireConstruction, tile, priority, buildTime)
		placed++
	}
	return placed
}
