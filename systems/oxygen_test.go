package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

func testOxygenParams() OxygenParams {
	return OxygenParams{
		DiffusionRate:    0.2,
		ConsumptionRate:  0.1,
		GenerationRate:   1.0,
		GenerationRadius: 1,
		CriticalLevel:    0.3,
		DamageScale:      10,
	}
}

func TestDiffusionConservesTotal(t *testing.T) {
	tm := NewTilemap(8, 8, 32)
	field := NewOxygenField(tm, testOxygenParams())

	field.SetLevel(components.TilePos{X: 3, Y: 3}, 0.8)
	field.SetLevel(components.TilePos{X: 4, Y: 3}, 0.2)
	before := field.Total()

	for i := 0; i < 50; i++ {
		field.Diffuse(0.1)
	}
	after := field.Total()
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("diffusion changed the total: %f -> %f", before, after)
	}

	// Levels even out over time
	a := field.Level(components.TilePos{X: 3, Y: 3})
	b := field.Level(components.TilePos{X: 4, Y: 3})
	if math.Abs(a-b) > 0.05 {
		t.Errorf("adjacent levels still far apart after diffusion: %f vs %f", a, b)
	}
}

func TestBarrierTilesExcluded(t *testing.T) {
	tm := NewTilemap(8, 8, 32)
	tm.SetKind(4, 4, TileBarrier)
	field := NewOxygenField(tm, testOxygenParams())

	barrier := components.TilePos{X: 4, Y: 4}
	field.SetLevel(barrier, 1.0)
	if field.Level(barrier) != 0 {
		t.Error("barrier tile accepted oxygen")
	}
	field.AddOxygen(barrier, 1.0)
	if field.Level(barrier) != 0 {
		t.Error("AddOxygen leaked into a barrier tile")
	}

	// Neighbors never lose oxygen into the barrier
	field.SetLevel(components.TilePos{X: 3, Y: 4}, 0.5)
	before := field.Total()
	for i := 0; i < 20; i++ {
		field.Diffuse(0.1)
	}
	if math.Abs(field.Total()-before) > 1e-9 {
		t.Error("diffusion lost oxygen through a barrier")
	}
	if field.Level(barrier) != 0 {
		t.Error("barrier picked up oxygen from neighbors")
	}
}

func TestDeficitDamage(t *testing.T) {
	tm := NewTilemap(4, 4, 32)
	field := NewOxygenField(tm, testOxygenParams())
	tile := components.TilePos{X: 1, Y: 1}

	field.SetLevel(tile, 0.5)
	if d := field.DeficitDamage(tile); d != 0 {
		t.Errorf("damage %f at a healthy level, want 0", d)
	}

	field.SetLevel(tile, 0.1)
	want := (0.3 - 0.1) * 10
	if d := field.DeficitDamage(tile); math.Abs(d-want) > 1e-9 {
		t.Errorf("damage = %f, want %f", d, want)
	}
}

func TestGenerationRequiresPower(t *testing.T) {
	tm := NewTilemap(10, 10, 32)
	life := tm.PlaceStructure(ElecLifeSupport, components.TilePos{X: 4, Y: 4}, 10, 0, 5)
	tm.FinishConstruction(components.TilePos{X: 4, Y: 4})
	field := NewOxygenField(tm, testOxygenParams())

	w := ecs.NewWorld()
	sys := NewOxygenSystem(w, field, tm, NopRecorder{})

	sys.Update(1.0)
	if field.Total() != 0 {
		t.Error("unpowered life support generated oxygen")
	}

	life.Powered = true
	sys.Update(1.0)
	if field.Total() <= 0 {
		t.Error("powered life support generated nothing")
	}
	// One unit per second spread over the 3x3 square
	if math.Abs(field.Total()-1.0) > 1e-9 {
		t.Errorf("generated %f units, want 1.0", field.Total())
	}
}

func TestBreathersConsumeAndSuffocate(t *testing.T) {
	tm := NewTilemap(6, 6, 32)
	field := NewOxygenField(tm, testOxygenParams())
	w := ecs.NewWorld()
	sys := NewOxygenSystem(w, field, tm, NopRecorder{})

	mapper := ecs.NewMap3[components.Position, components.Health, components.Breather](w)
	e := mapper.NewEntity(
		&components.Position{X: 48, Y: 48}, // tile (1,1)
		&components.Health{Current: 100, Max: 100},
		&components.Breather{},
	)
	healthMap := ecs.NewMap1[components.Health](w)
	tile := components.TilePos{X: 1, Y: 1}
	field.SetLevel(tile, 1.0)

	sys.Update(1.0)
	if got := healthMap.Get(e).Current; got != 100 {
		t.Errorf("health dropped to %f in full oxygen", got)
	}

	// Drain the whole field so the breather suffocates
	for ty := 0; ty < 6; ty++ {
		for tx := 0; tx < 6; tx++ {
			field.SetLevel(components.TilePos{X: tx, Y: ty}, 0)
		}
	}
	sys.Update(1.0)
	if got := healthMap.Get(e).Current; got >= 100 {
		t.Error("breather took no suffocation damage at zero oxygen")
	}
}

func TestConsumeClampsAtZero(t *testing.T) {
	tm := NewTilemap(4, 4, 32)
	field := NewOxygenField(tm, testOxygenParams())
	tile := components.TilePos{X: 1, Y: 1}

	field.SetLevel(tile, 0.05)
	field.Consume(tile, 1.0)
	if field.Level(tile) != 0 {
		t.Errorf("level = %f after overdraw, want 0", field.Level(tile))
	}
}
