package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// MapGenParams holds terrain generation tuning.
type MapGenParams struct {
	NoiseScale  float64 // Noise frequency per tile
	RockCutoff  float64 // Noise above this becomes rock
	GrassCutoff float64 // Noise above this becomes grass
}

// GenerateStation fills the map: a barrier ring seals the edge, simplex
// noise scatters grass and rock over open ground, and a walled station
// with a floor interior and door gaps sits at the center.
func GenerateStation(tm *Tilemap, seed int64, p MapGenParams) {
	noise := opensimplex.New(seed)

	for ty := 0; ty < tm.Rows; ty++ {
		for tx := 0; tx < tm.Cols; tx++ {
			if tx == 0 || ty == 0 || tx == tm.Cols-1 || ty == tm.Rows-1 {
				tm.SetKind(tx, ty, TileBarrier)
				continue
			}
			n := noise.Eval2(float64(tx)*p.NoiseScale, float64(ty)*p.NoiseScale)
			switch {
			case n > p.RockCutoff:
				tm.SetKind(tx, ty, TileRock)
			case n > p.GrassCutoff:
				tm.SetKind(tx, ty, TileGrass)
			default:
				tm.SetKind(tx, ty, TileFloor)
			}
		}
	}

	carveStation(tm)
}

// carveStation places a walled rectangle in the middle of the map with a
// clear floor interior and a door gap on each side.
func carveStation(tm *Tilemap) {
	w := tm.Cols / 3
	h := tm.Rows / 3
	left := (tm.Cols - w) / 2
	top := (tm.Rows - h) / 2

	for ty := top; ty < top+h; ty++ {
		for tx := left; tx < left+w; tx++ {
			onEdge := tx == left || tx == left+w-1 || ty == top || ty == top+h-1
			if onEdge {
				tm.SetKind(tx, ty, TileWall)
			} else {
				tm.SetKind(tx, ty, TileFloor)
			}
		}
	}

	// Door gaps at the middle of each wall
	midX := left + w/2
	midY := top + h/2
	tm.SetKind(midX, top, TileFloor)
	tm.SetKind(midX, top+h-1, TileFloor)
	tm.SetKind(left, midY, TileFloor)
	tm.SetKind(left+w-1, midY, TileFloor)
}

// StationBounds returns the carved station rectangle (left, top, width,
// height) for the spawn logic.
func StationBounds(tm *Tilemap) (int, int, int, int) {
	w := tm.Cols / 3
	h := tm.Rows / 3
	return (tm.Cols - w) / 2, (tm.Rows - h) / 2, w, h
}
