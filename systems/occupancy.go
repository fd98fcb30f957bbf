package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// OccupancyIndex maps tiles to the entities standing on them. Rebuilt once
// per tick before pathfinding and oxygen run.
type OccupancyIndex struct {
	tiles map[components.TilePos][]ecs.Entity
}

// NewOccupancyIndex creates an empty index.
func NewOccupancyIndex() *OccupancyIndex {
	return &OccupancyIndex{tiles: make(map[components.TilePos][]ecs.Entity)}
}

// Clear empties the index keeping allocated buckets.
func (o *OccupancyIndex) Clear() {
	for k, v := range o.tiles {
		o.tiles[k] = v[:0]
	}
}

// Add records an entity on a tile.
func (o *OccupancyIndex) Add(tile components.TilePos, e ecs.Entity) {
	o.tiles[tile] = append(o.tiles[tile], e)
}

// Count returns how many entities stand on a tile.
func (o *OccupancyIndex) Count(tile components.TilePos) int {
	return len(o.tiles[tile])
}

// At returns the entities on a tile.
func (o *OccupancyIndex) At(tile components.TilePos) []ecs.Entity {
	return o.tiles[tile]
}

// OccupiedByOther reports whether anyone but self stands on the tile.
func (o *OccupancyIndex) OccupiedByOther(tile components.TilePos, self ecs.Entity) bool {
	for _, e := range o.tiles[tile] {
		if e != self {
			return true
		}
	}
	return false
}
