package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// ReservationTable tracks which mover owns which tile. Paths reserve every
// tile they cross so two movers never plan through the same cell.
type ReservationTable struct {
	owners  map[components.TilePos]ecs.Entity
	byOwner map[ecs.Entity][]components.TilePos
}

// NewReservationTable creates an empty table.
func NewReservationTable() *ReservationTable {
	return &ReservationTable{
		owners:  make(map[components.TilePos]ecs.Entity),
		byOwner: make(map[ecs.Entity][]components.TilePos),
	}
}

// Reserve claims a tile for an entity. Reserving a tile already owned by
// the same entity succeeds; owned by anyone else fails.
func (r *ReservationTable) Reserve(tile components.TilePos, e ecs.Entity) bool {
	if owner, ok := r.owners[tile]; ok {
		return owner == e
	}
	r.owners[tile] = e
	r.byOwner[e] = append(r.byOwner[e], tile)
	return true
}

// IsReserved reports whether any entity owns the tile.
func (r *ReservationTable) IsReserved(tile components.TilePos) bool {
	_, ok := r.owners[tile]
	return ok
}

// Owner returns the entity owning a tile, or the zero entity.
func (r *ReservationTable) Owner(tile components.TilePos) ecs.Entity {
	return r.owners[tile]
}

// ReservedBy reports whether the tile is owned by a different entity.
func (r *ReservationTable) ReservedBy(tile components.TilePos, other ecs.Entity) bool {
	owner, ok := r.owners[tile]
	return ok && owner != other
}

// Release frees a tile if the given entity owns it.
func (r *ReservationTable) Release(tile components.TilePos, e ecs.Entity) {
	if owner, ok := r.owners[tile]; !ok || owner != e {
		return
	}
	delete(r.owners, tile)
	tiles := r.byOwner[e]
	for i, t := range tiles {
		if t == tile {
			tiles[i] = tiles[len(tiles)-1]
			r.byOwner[e] = tiles[:len(tiles)-1]
			break
		}
	}
	if len(r.byOwner[e]) == 0 {
		delete(r.byOwner, e)
	}
}

// ReleaseAll frees every tile owned by the entity. Called when a path is
// abandoned: death, interrupt, or repath.
func (r *ReservationTable) ReleaseAll(e ecs.Entity) {
	for _, tile := range r.byOwner[e] {
		delete(r.owners, tile)
	}
	delete(r.byOwner, e)
}

// Count returns the number of reserved tiles.
func (r *ReservationTable) Count() int {
	return len(r.owners)
}

// Each visits every reserved tile with its owner.
func (r *ReservationTable) Each(fn func(tile components.TilePos, owner ecs.Entity)) {
	for tile, owner := range r.owners {
		fn(tile, owner)
	}
}
