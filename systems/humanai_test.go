package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

func testHumanParams() HumanParams {
	return HumanParams{
		DetectionPixels: 160,
		AttackPixels:    40,
		AttackDamage:    10,
		AttackCooldown:  1.0,
		RepathMinSec:    0.5,
		RepathMaxSec:    1.0,
	}
}

func humanFixture(t *testing.T) (*ecs.World, *HumanAISystem) {
	t.Helper()
	w := ecs.NewWorld()
	tm := NewTilemap(30, 30, 32)
	res := NewReservationTable()
	occ := NewOccupancyIndex()
	pf := NewPathfinder(tm, res, occ, 1.4, 8, 10000)
	rng := rand.New(rand.NewPCG(13, 17))
	sys := NewHumanAISystem(w, tm, res, pf, rng, testHumanParams(), NopRecorder{})
	return w, sys
}

func newGuard(w *ecs.World, x, y float64, patrol []components.TilePos) ecs.Entity {
	mapper := ecs.NewMap4[
		components.Position,
		components.Health,
		components.HumanBrain,
		components.PathFollow,
	](w)
	return mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Health{Current: 100, Max: 100},
		&components.HumanBrain{PatrolPoints: patrol},
		&components.PathFollow{},
	)
}

func newIntruder(w *ecs.World, x, y float64) ecs.Entity {
	mapper := ecs.NewMap4[
		components.Position,
		components.Health,
		components.Morale,
		components.PlayerControl,
	](w)
	return mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Health{Current: 100, Max: 100},
		&components.Morale{Current: 100, Max: 100},
		&components.PlayerControl{},
	)
}

func TestGuardDetectsNearbyAlien(t *testing.T) {
	w, sys := humanFixture(t)
	guard := newGuard(w, 100, 100, nil)
	alien := newIntruder(w, 180, 100) // 80 px away, inside detection
	brainMap := ecs.NewMap1[components.HumanBrain](w)
	playerMap := ecs.NewMap1[components.PlayerControl](w)

	sys.Update(0.1)
	brain := brainMap.Get(guard)
	if brain.State != components.HumanChase {
		t.Fatalf("state = %v, want chase", brain.State)
	}
	if brain.Target != alien {
		t.Error("guard chasing the wrong target")
	}
	if !playerMap.Get(alien).Detected {
		t.Error("chased alien not flagged detected")
	}
}

func TestGuardIgnoresDistantAlien(t *testing.T) {
	w, sys := humanFixture(t)
	guard := newGuard(w, 100, 100, nil)
	newIntruder(w, 500, 500)
	brainMap := ecs.NewMap1[components.HumanBrain](w)

	sys.Update(0.1)
	if brainMap.Get(guard).State != components.HumanPatrol {
		t.Error("guard left patrol for an alien beyond detection range")
	}
}

func TestAttackDamageAndCooldown(t *testing.T) {
	w, sys := humanFixture(t)
	guard := newGuard(w, 100, 100, nil)
	alien := newIntruder(w, 120, 100) // inside attack range
	healthMap := ecs.NewMap1[components.Health](w)
	brainMap := ecs.NewMap1[components.HumanBrain](w)

	sys.Update(0.1) // patrol -> chase
	sys.Update(0.1) // chase -> attack
	if brainMap.Get(guard).State != components.HumanAttack {
		t.Fatalf("state = %v, want attack", brainMap.Get(guard).State)
	}

	sys.Update(0.1) // first swing
	if got := healthMap.Get(alien).Current; got != 90 {
		t.Fatalf("alien health = %f after one hit, want 90", got)
	}

	// Cooldown: the next few ticks land nothing
	sys.Update(0.1)
	sys.Update(0.1)
	if got := healthMap.Get(alien).Current; got != 90 {
		t.Errorf("alien health = %f during cooldown, want 90", got)
	}

	// After the cooldown runs out the guard swings again
	for i := 0; i < 10; i++ {
		sys.Update(0.1)
	}
	if got := healthMap.Get(alien).Current; got != 80 {
		t.Errorf("alien health = %f after the cooldown, want 80", got)
	}
}

func TestAttackErodesMorale(t *testing.T) {
	w, sys := humanFixture(t)
	newGuard(w, 100, 100, nil)
	alien := newIntruder(w, 120, 100)
	moraleMap := ecs.NewMap1[components.Morale](w)

	sys.Update(0.1)
	sys.Update(0.1)
	sys.Update(0.1)
	// One landed hit: morale loses half the damage
	if got := moraleMap.Get(alien).Current; got != 95 {
		t.Errorf("alien morale = %f, want 95", got)
	}
}

func TestGuardLosesTargetOutOfRange(t *testing.T) {
	w, sys := humanFixture(t)
	guard := newGuard(w, 100, 100, nil)
	alien := newIntruder(w, 180, 100)
	brainMap := ecs.NewMap1[components.HumanBrain](w)
	posMap := ecs.NewMap1[components.Position](w)
	playerMap := ecs.NewMap1[components.PlayerControl](w)

	sys.Update(0.1)
	if brainMap.Get(guard).State != components.HumanChase {
		t.Fatal("guard never started chasing")
	}

	// The alien teleports away
	posMap.Get(alien).X = 900
	posMap.Get(alien).Y = 900
	sys.Update(0.1)
	brain := brainMap.Get(guard)
	if brain.State != components.HumanPatrol {
		t.Errorf("state = %v, want patrol after losing the target", brain.State)
	}
	if !brain.Target.IsZero() {
		t.Error("stale chase target kept")
	}
	if playerMap.Get(alien).Detected {
		t.Error("escaped alien still flagged detected")
	}
}

func TestGuardIgnoresDeadAlien(t *testing.T) {
	w, sys := humanFixture(t)
	guard := newGuard(w, 100, 100, nil)
	alien := newIntruder(w, 150, 100)
	healthMap := ecs.NewMap1[components.Health](w)
	brainMap := ecs.NewMap1[components.HumanBrain](w)
	healthMap.Get(alien).Current = 0

	sys.Update(0.1)
	if brainMap.Get(guard).State != components.HumanPatrol {
		t.Error("guard chased a dead alien")
	}
}

func TestPatrolAdvancesThroughLoop(t *testing.T) {
	w, sys := humanFixture(t)
	patrol := []components.TilePos{{X: 3, Y: 3}, {X: 10, Y: 3}}
	// Guard standing exactly on the first patrol point
	guard := newGuard(w, 112, 112, patrol)
	brainMap := ecs.NewMap1[components.HumanBrain](w)
	pathMap := ecs.NewMap1[components.PathFollow](w)

	sys.Update(0.1)
	brain := brainMap.Get(guard)
	if brain.PatrolIndex != 1 {
		t.Errorf("patrol index = %d, want 1 after reaching the first point", brain.PatrolIndex)
	}
	if !pathMap.Get(guard).Active() {
		t.Error("guard has no path toward the next patrol point")
	}
}

func TestKnockedOutGuardRunsNoBehavior(t *testing.T) {
	w, sys := humanFixture(t)
	mapper := ecs.NewMap5[
		components.Position,
		components.Health,
		components.HumanBrain,
		components.PathFollow,
		components.Captive,
	](w)
	guard := mapper.NewEntity(
		&components.Position{X: 100, Y: 100},
		&components.Health{Current: 100, Max: 100},
		&components.HumanBrain{},
		&components.PathFollow{},
		&components.Captive{State: components.CaptureUnconscious},
	)
	newIntruder(w, 120, 100)
	brainMap := ecs.NewMap1[components.HumanBrain](w)

	sys.Update(0.1)
	if brainMap.Get(guard).State != components.HumanPatrol {
		t.Error("unconscious guard changed state")
	}
}
