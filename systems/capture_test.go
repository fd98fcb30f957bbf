package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

func captureFixture(t *testing.T, params CaptureParams) (*ecs.World, *CaptureSystem, *ReservationTable, *TaskBoard) {
	t.Helper()
	w := ecs.NewWorld()
	res := NewReservationTable()
	board := NewTaskBoard()
	rng := rand.New(rand.NewPCG(7, 11))
	sys := NewCaptureSystem(w, res, board, rng, params, NopRecorder{})
	return w, sys, res, board
}

func newAlienAt(w *ecs.World, x, y float64, stealth bool) ecs.Entity {
	mapper := ecs.NewMap4[components.Position, components.Speed, components.PlayerControl, components.Carrier](w)
	return mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Speed{Base: 100},
		&components.PlayerControl{Stealth: stealth},
		&components.Carrier{},
	)
}

func newGuardAt(w *ecs.World, x, y float64) ecs.Entity {
	mapper := ecs.NewMap5[components.Position, components.Speed, components.Health, components.PathFollow, components.Captive](w)
	return mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Speed{Base: 80},
		&components.Health{Current: 100, Max: 100},
		&components.PathFollow{},
		&components.Captive{},
	)
}

func TestStealthKnockoutAlwaysLands(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 10, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 30, 0)
	captMap := ecs.NewMap1[components.Captive](w)

	if !sys.Attempt(alien, guard) {
		t.Fatal("stealth knockout at chance 1.0 failed")
	}
	capt := captMap.Get(guard)
	if capt.State != components.CaptureUnconscious {
		t.Errorf("state = %v, want unconscious", capt.State)
	}
	if capt.WakeTimer != 10 {
		t.Errorf("wake timer = %f, want 10", capt.WakeTimer)
	}
}

func TestKnockoutNeverLandsAtZeroChance(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 10, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, false)
	guard := newGuardAt(w, 30, 0)

	for i := 0; i < 20; i++ {
		if sys.Attempt(alien, guard) {
			t.Fatal("knockout landed despite zero base chance")
		}
	}
}

func TestKnockoutChanceFollowsAttackerHealth(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 1.0,
		UnconsciousSec: 10, CarrySpeedScale: 0.5,
	})
	healthMap := ecs.NewMap1[components.Health](w)

	// A wounded target must not lower the odds of a full-health attacker.
	alien := newAlienAt(w, 0, 0, false)
	healthMap.Add(alien, &components.Health{Current: 100, Max: 100})
	guard := newGuardAt(w, 30, 0)
	healthMap.Get(guard).Current = 1
	if !sys.Attempt(alien, guard) {
		t.Fatal("full-health attacker at chance 1.0 failed against a wounded target")
	}

	// A spent attacker cannot land a loud knockout at all.
	crippled := newAlienAt(w, 0, 60, false)
	healthMap.Add(crippled, &components.Health{Current: 0, Max: 100})
	victim := newGuardAt(w, 0, 90)
	for i := 0; i < 20; i++ {
		if sys.Attempt(crippled, victim) {
			t.Fatal("zero-health attacker landed a knockout")
		}
	}
}

func TestKnockoutOutOfRange(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 1.0,
		UnconsciousSec: 10, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 200, 0)

	if sys.Attempt(alien, guard) {
		t.Error("knockout landed beyond capture range")
	}
}

func TestKnockoutClearsTargetPlans(t *testing.T) {
	w, sys, res, board := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 10, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 30, 0)

	pathMap := ecs.NewMap1[components.PathFollow](w)
	path := pathMap.Get(guard)
	path.Tiles = []components.TilePos{{X: 1, Y: 0}, {X: 2, Y: 0}}
	for _, tile := range path.Tiles {
		res.Reserve(tile, guard)
	}
	board.Add(TaskWireConstruction, components.TilePos{X: 5, Y: 5}, 1, 5)
	board.ClaimNearest(guard, components.TilePos{X: 0, Y: 0}, 1)

	if !sys.Attempt(alien, guard) {
		t.Fatal("knockout failed")
	}
	if path.Active() {
		t.Error("knocked-out target kept its path")
	}
	if res.Count() != 0 {
		t.Errorf("%d reservations survived the knockout", res.Count())
	}
	if board.AssignedCount() != 0 || board.AvailableCount() != 1 {
		t.Error("claimed task not returned to the board")
	}
}

func TestCarrySpeedRoundTrip(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 10, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 30, 0)
	spdMap := ecs.NewMap1[components.Speed](w)
	base := spdMap.Get(alien).Base

	sys.Attempt(alien, guard) // knockout
	if !sys.Attempt(alien, guard) {
		t.Fatal("pickup failed")
	}
	if got := spdMap.Get(alien).Base; got != base*0.5 {
		t.Errorf("carrier speed = %f, want %f while loaded", got, base*0.5)
	}

	sys.Release(alien)
	if got := spdMap.Get(alien).Base; got != base {
		t.Errorf("carrier speed = %f after release, want exactly %f", got, base)
	}
}

func TestSecondCarryDropsFirst(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 500, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 100, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	first := newGuardAt(w, 30, 0)
	second := newGuardAt(w, 0, 30)
	captMap := ecs.NewMap1[components.Captive](w)
	carrMap := ecs.NewMap1[components.Carrier](w)

	sys.Attempt(alien, first)
	sys.Attempt(alien, first)
	sys.Attempt(alien, second)
	if !sys.Attempt(alien, second) {
		t.Fatal("second pickup failed")
	}

	if captMap.Get(first).State != components.CaptureNone {
		t.Error("first target not dropped on second pickup")
	}
	if captMap.Get(second).State != components.CaptureCarried {
		t.Error("second target not carried")
	}
	if carrMap.Get(alien).Target != second {
		t.Error("carrier target not updated")
	}
}

func TestWakeTimerExpires(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 2.0, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 30, 0)
	captMap := ecs.NewMap1[components.Captive](w)

	sys.Attempt(alien, guard)
	sys.Update(1.0)
	if captMap.Get(guard).State != components.CaptureUnconscious {
		t.Error("target woke up early")
	}
	sys.Update(1.5)
	if captMap.Get(guard).State != components.CaptureNone {
		t.Error("target still unconscious after the wake timer ran out")
	}
}

func TestCarriedTargetPinnedToCarrier(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 100, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 30, 0)
	posMap := ecs.NewMap1[components.Position](w)

	sys.Attempt(alien, guard)
	sys.Attempt(alien, guard)

	// Carrier walks away; the cargo follows on update
	ap := posMap.Get(alien)
	ap.X = 300
	ap.Y = 400
	sys.Update(0.1)

	gp := posMap.Get(guard)
	if gp.X != 300 || gp.Y != 400 {
		t.Errorf("carried target at (%f, %f), want the carrier position", gp.X, gp.Y)
	}
}

func TestReleaseOnDeathKeepsCarrierSpeed(t *testing.T) {
	w, sys, _, _ := captureFixture(t, CaptureParams{
		RangePixels: 50, StealthChance: 1.0, BaseChance: 0,
		UnconsciousSec: 100, CarrySpeedScale: 0.5,
	})
	alien := newAlienAt(w, 0, 0, true)
	guard := newGuardAt(w, 30, 0)
	spdMap := ecs.NewMap1[components.Speed](w)
	captMap := ecs.NewMap1[components.Captive](w)

	sys.Attempt(alien, guard)
	sys.Attempt(alien, guard)
	loaded := spdMap.Get(alien).Base

	sys.ReleaseOnDeath(alien)
	if captMap.Get(guard).State != components.CaptureNone {
		t.Error("cargo not freed on carrier death")
	}
	if spdMap.Get(alien).Base != loaded {
		t.Error("death release must not touch the carrier speed")
	}
}
