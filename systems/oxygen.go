package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// OxygenParams holds oxygen field tuning.
type OxygenParams struct {
	DiffusionRate    float64
	ConsumptionRate  float64 // Per breathing occupant per second
	GenerationRate   float64 // Per powered life support per second
	GenerationRadius int     // Half-width of the spread square
	CriticalLevel    float64
	DamageScale      float64 // Damage per second per unit deficit
}

// OxygenField is a per-tile oxygen grid in [0,1]. Barrier tiles sit
// outside the hull: they hold zero and never exchange with neighbors.
type OxygenField struct {
	cols, rows int
	levels     []float64
	scratch    []float64
	active     []bool
	params     OxygenParams
}

// NewOxygenField builds a field masked by the map's barrier tiles.
func NewOxygenField(tm *Tilemap, params OxygenParams) *OxygenField {
	f := &OxygenField{
		cols:    tm.Cols,
		rows:    tm.Rows,
		levels:  make([]float64, tm.Cols*tm.Rows),
		scratch: make([]float64, tm.Cols*tm.Rows),
		active:  make([]bool, tm.Cols*tm.Rows),
		params:  params,
	}
	f.RefreshMask(tm)
	return f
}

// RefreshMask recomputes which tiles take part in diffusion. Call after
// terrain edits.
func (f *OxygenField) RefreshMask(tm *Tilemap) {
	for ty := 0; ty < f.rows; ty++ {
		for tx := 0; tx < f.cols; tx++ {
			i := ty*f.cols + tx
			f.active[i] = tm.KindAt(tx, ty) != TileBarrier
			if !f.active[i] {
				f.levels[i] = 0
			}
		}
	}
}

func (f *OxygenField) idx(tile components.TilePos) (int, bool) {
	if tile.X < 0 || tile.X >= f.cols || tile.Y < 0 || tile.Y >= f.rows {
		return 0, false
	}
	return tile.Y*f.cols + tile.X, true
}

// Level returns the oxygen level of a tile.
func (f *OxygenField) Level(tile components.TilePos) float64 {
	i, ok := f.idx(tile)
	if !ok {
		return 0
	}
	return f.levels[i]
}

// SetLevel sets a tile's oxygen level, clamped to [0,1].
func (f *OxygenField) SetLevel(tile components.TilePos, level float64) {
	i, ok := f.idx(tile)
	if !ok || !f.active[i] {
		return
	}
	f.levels[i] = clamp01(level)
}

// AddOxygen adds oxygen to a tile, clamped to 1.0.
func (f *OxygenField) AddOxygen(tile components.TilePos, amount float64) {
	i, ok := f.idx(tile)
	if !ok || !f.active[i] {
		return
	}
	f.levels[i] = clamp01(f.levels[i] + amount)
}

// Consume removes oxygen from a tile, clamped at zero.
func (f *OxygenField) Consume(tile components.TilePos, amount float64) {
	i, ok := f.idx(tile)
	if !ok || !f.active[i] {
		return
	}
	f.levels[i] -= amount
	if f.levels[i] < 0 {
		f.levels[i] = 0
	}
}

// Total sums oxygen over the whole field.
func (f *OxygenField) Total() float64 {
	var sum float64
	for i, l := range f.levels {
		if f.active[i] {
			sum += l
		}
	}
	return sum
}

// Mean returns the average level over active tiles.
func (f *OxygenField) Mean() float64 {
	var sum float64
	n := 0
	for i, l := range f.levels {
		if f.active[i] {
			sum += l
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Diffuse exchanges oxygen between cardinal neighbors proportionally to
// their level difference. The exchange is symmetric, so pure diffusion
// conserves the total. The coefficient is clamped for stability.
func (f *OxygenField) Diffuse(dt float64) {
	a := f.params.DiffusionRate * dt
	if a > 0.25 {
		a = 0.25
	}

	copy(f.scratch, f.levels)
	for ty := 0; ty < f.rows; ty++ {
		for tx := 0; tx < f.cols; tx++ {
			i := ty*f.cols + tx
			if !f.active[i] {
				continue
			}
			level := f.levels[i]
			var delta float64
			if tx > 0 && f.active[i-1] {
				delta += (f.levels[i-1] - level) * a
			}
			if tx < f.cols-1 && f.active[i+1] {
				delta += (f.levels[i+1] - level) * a
			}
			if ty > 0 && f.active[i-f.cols] {
				delta += (f.levels[i-f.cols] - level) * a
			}
			if ty < f.rows-1 && f.active[i+f.cols] {
				delta += (f.levels[i+f.cols] - level) * a
			}
			f.scratch[i] = clamp01(level + delta)
		}
	}
	f.levels, f.scratch = f.scratch, f.levels
}

// DeficitDamage returns damage per second suffered on a tile, zero at or
// above the critical level.
func (f *OxygenField) DeficitDamage(tile components.TilePos) float64 {
	level := f.Level(tile)
	if level >= f.params.CriticalLevel {
		return 0
	}
	return (f.params.CriticalLevel - level) * f.params.DamageScale
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// OxygenSystem couples the field to the world: breathers consume and
// suffocate, powered life supports generate, then the field diffuses.
type OxygenSystem struct {
	field  *OxygenField
	tm     *Tilemap
	rec    Recorder
	filter *ecs.Filter3[components.Position, components.Health, components.Breather]
}

// NewOxygenSystem creates the oxygen pass.
func NewOxygenSystem(w *ecs.World, field *OxygenField, tm *Tilemap, rec Recorder) *OxygenSystem {
	return &OxygenSystem{
		field:  field,
		tm:     tm,
		rec:    rec,
		filter: ecs.NewFilter3[components.Position, components.Health, components.Breather](w),
	}
}

// Field returns the underlying grid.
func (s *OxygenSystem) Field() *OxygenField { return s.field }

// Update runs one oxygen tick.
func (s *OxygenSystem) Update(dt float64) {
	p := s.field.params

	// Breathers draw down their tile and take suffocation damage below
	// the critical level.
	query := s.filter.Query()
	for query.Next() {
		pos, health, _ := query.Get()
		tile := s.tm.WorldToTile(pos.X, pos.Y)
		s.field.Consume(tile, p.ConsumptionRate*dt)
		if dps := s.field.DeficitDamage(tile); dps > 0 {
			health.Current -= dps * dt
			if health.Current < 0 {
				health.Current = 0
			}
			s.rec.OxygenWarning(tile, s.field.Level(tile))
		}
	}

	// Powered life supports vent oxygen over the square around them.
	r := p.GenerationRadius
	area := float64((2*r + 1) * (2*r + 1))
	s.tm.EachElectrical(func(e *Electrical) {
		if e.Kind != ElecLifeSupport || e.UnderConstruction || !e.Powered {
			return
		}
		perTile := p.GenerationRate * dt / area
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				s.field.AddOxygen(components.TilePos{X: e.Origin.X + dx, Y: e.Origin.Y + dy}, perTile)
			}
		}
	})

	s.field.Diffuse(dt)
}
