package systems

import (
	"container/heap"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// Pathfinder computes tile paths with A* over the station map, pruning
// tiles occupied or reserved by other movers. Successful paths are
// reserved for the mover before they are returned.
type Pathfinder struct {
	tm  *Tilemap
	res *ReservationTable
	occ *OccupancyIndex

	diagonalCost    float64
	maxSearchRadius int
	maxIterations   int

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
	seq       int
}

// astarNode is a node in the A* search.
type astarNode struct {
	tx, ty int
	f      float64
	seq    int // Insertion order, breaks ties first-in-first-out
	index  int // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewPathfinder creates a pathfinder bound to a map, reservation table and
// occupancy index.
func NewPathfinder(tm *Tilemap, res *ReservationTable, occ *OccupancyIndex, diagonalCost float64, maxSearchRadius, maxIterations int) *Pathfinder {
	return &Pathfinder{
		tm:              tm,
		res:             res,
		occ:             occ,
		diagonalCost:    diagonalCost,
		maxSearchRadius: maxSearchRadius,
		maxIterations:   maxIterations,
		openHeap:        &nodeHeap{},
		closedSet:       make(map[int]struct{}, 256),
		cameFrom:        make(map[int]int, 256),
		gScore:          make(map[int]float64, 256),
	}
}

// isOpen reports whether a mover may plan through a tile.
func (p *Pathfinder) isOpen(tile components.TilePos, mover ecs.Entity) bool {
	if !p.tm.IsWalkable(tile.X, tile.Y) {
		return false
	}
	if p.occ.OccupiedByOther(tile, mover) {
		return false
	}
	if p.res.ReservedBy(tile, mover) {
		return false
	}
	return true
}

// FindPath computes a path of tiles from start to goal, excluding the
// start tile. An unwalkable start fails outright. A blocked or contested
// goal is replaced by the nearest open tile within the search radius. On
// success the whole path is reserved for the mover; on failure nothing
// is reserved and nil is returned.
func (p *Pathfinder) FindPath(mover ecs.Entity, start, goal components.TilePos) []components.TilePos {
	if !p.tm.IsWalkable(start.X, start.Y) {
		return nil
	}
	if !p.isOpen(goal, mover) {
		var ok bool
		goal, ok = p.findNearestOpen(goal, mover)
		if !ok {
			return nil
		}
	}
	if start == goal {
		return nil
	}

	// Clear reusable data structures
	*p.openHeap = (*p.openHeap)[:0]
	clear(p.closedSet)
	clear(p.cameFrom)
	clear(p.gScore)
	p.seq = 0

	cols := p.tm.Cols
	startID := start.Y*cols + start.X
	goalID := goal.Y*cols + goal.X

	p.gScore[startID] = 0
	heap.Push(p.openHeap, &astarNode{tx: start.X, ty: start.Y, f: p.heuristic(start, goal), seq: p.seq})
	p.seq++

	iterations := 0
	for p.openHeap.Len() > 0 && iterations < p.maxIterations {
		iterations++

		current := heap.Pop(p.openHeap).(*astarNode)
		currentID := current.ty*cols + current.tx

		if currentID == goalID {
			path := p.reconstructPath(startID, goalID)
			if !p.reservePath(mover, path) {
				return nil
			}
			return path
		}

		p.closedSet[currentID] = struct{}{}

		// Cardinals first, then diagonals
		neighbors := [8][2]int{
			{current.tx - 1, current.ty},
			{current.tx + 1, current.ty},
			{current.tx, current.ty - 1},
			{current.tx, current.ty + 1},
			{current.tx - 1, current.ty - 1},
			{current.tx + 1, current.ty - 1},
			{current.tx - 1, current.ty + 1},
			{current.tx + 1, current.ty + 1},
		}

		for i, n := range neighbors {
			next := components.TilePos{X: n[0], Y: n[1]}
			if !p.isOpen(next, mover) {
				continue
			}

			// Diagonal steps need both adjacent cardinals open so movers
			// never cut corners around blocked tiles.
			if i >= 4 {
				dx := next.X - current.tx
				dy := next.Y - current.ty
				if !p.isOpen(components.TilePos{X: current.tx + dx, Y: current.ty}, mover) ||
					!p.isOpen(components.TilePos{X: current.tx, Y: current.ty + dy}, mover) {
					continue
				}
			}

			neighborID := next.Y*cols + next.X
			if _, ok := p.closedSet[neighborID]; ok {
				continue
			}

			moveCost := 1.0
			if i >= 4 {
				moveCost = p.diagonalCost
			}
			tentativeG := p.gScore[currentID] + moveCost

			existingG, exists := p.gScore[neighborID]
			if exists && tentativeG >= existingG {
				continue
			}

			p.cameFrom[neighborID] = currentID
			p.gScore[neighborID] = tentativeG

			if !exists {
				heap.Push(p.openHeap, &astarNode{
					tx: next.X, ty: next.Y,
					f:   tentativeG + p.heuristic(next, goal),
					seq: p.seq,
				})
				p.seq++
			}
		}
	}

	return nil
}

// heuristic is the Manhattan distance to the goal.
func (p *Pathfinder) heuristic(a, b components.TilePos) float64 {
	return float64(abs(b.X-a.X) + abs(b.Y-a.Y))
}

// reconstructPath builds the tile path from the cameFrom map, excluding
// the start tile.
func (p *Pathfinder) reconstructPath(startID, goalID int) []components.TilePos {
	cols := p.tm.Cols
	var ids []int
	current := goalID
	for current != startID {
		ids = append(ids, current)
		var ok bool
		current, ok = p.cameFrom[current]
		if !ok {
			break
		}
	}

	path := make([]components.TilePos, len(ids))
	for i := range ids {
		id := ids[len(ids)-1-i]
		path[i] = components.TilePos{X: id % cols, Y: id / cols}
	}
	return path
}

// reservePath claims every path tile for the mover. If any claim fails
// the ones already made are rolled back.
func (p *Pathfinder) reservePath(mover ecs.Entity, path []components.TilePos) bool {
	for i, tile := range path {
		if !p.res.Reserve(tile, mover) {
			for _, done := range path[:i] {
				p.res.Release(done, mover)
			}
			return false
		}
	}
	return true
}

// findNearestOpen searches rings of growing radius around a tile for the
// nearest tile the mover can stand on. Ties on equal radius resolve in
// scan order, so repeated queries pick the same tile.
func (p *Pathfinder) findNearestOpen(center components.TilePos, mover ecs.Entity) (components.TilePos, bool) {
	for radius := 1; radius <= p.maxSearchRadius; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				tile := components.TilePos{X: center.X + dx, Y: center.Y + dy}
				if p.isOpen(tile, mover) {
					return tile, true
				}
			}
		}
	}
	return components.TilePos{}, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
