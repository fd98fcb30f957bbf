package traits

import (
	"math/rand/v2"
	"testing"
)

func TestHasAddRemove(t *testing.T) {
	var set Trait
	set = set.Add(Lazy).Add(Loyal)
	if !set.Has(Lazy) || !set.Has(Loyal) {
		t.Error("added traits missing from set")
	}
	if set.Has(Curious) {
		t.Error("set contains a trait that was never added")
	}
	set = set.Remove(Lazy)
	if set.Has(Lazy) {
		t.Error("removed trait still present")
	}
	if !set.Has(Loyal) {
		t.Error("remove dropped an unrelated trait")
	}
}

func TestSpeedModifier(t *testing.T) {
	cases := []struct {
		set  Trait
		want float64
	}{
		{0, 1.0},
		{Lazy, 0.7},
		{Aggressive, 1.2},
		{Lazy | Aggressive, 0.7}, // Lazy wins
		{Curious, 1.0},
	}
	for _, c := range cases {
		if got := c.set.SpeedModifier(); got != c.want {
			t.Errorf("SpeedModifier(%b) = %f, want %f", c.set, got, c.want)
		}
	}
}

func TestWanderRadiusBias(t *testing.T) {
	if Curious.WanderRadiusBias() != 1 {
		t.Error("curious bias wrong")
	}
	if Cautious.WanderRadiusBias() != -1 {
		t.Error("cautious bias wrong")
	}
	if Trait(0).WanderRadiusBias() != 0 {
		t.Error("empty set bias wrong")
	}
}

func TestMoraleResistance(t *testing.T) {
	if Loyal.MoraleResistance() != 0.5 {
		t.Error("loyal resistance wrong")
	}
	if Aggressive.MoraleResistance() != 1.0 {
		t.Error("non-loyal resistance wrong")
	}
}

func TestRollProducesValidSets(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		set := Roll(rng)
		n := len(Names(set))
		if n < 1 || n > 2 {
			t.Fatalf("rolled %d traits, want 1 or 2 (set %b)", n, set)
		}
	}
}

func TestRollDeterministicPerSeed(t *testing.T) {
	a := rand.New(rand.NewPCG(9, 9))
	b := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 50; i++ {
		if Roll(a) != Roll(b) {
			t.Fatal("same seed produced different rolls")
		}
	}
}

func TestNames(t *testing.T) {
	names := Names(Lazy | Loyal)
	if len(names) != 2 || names[0] != "Lazy" || names[1] != "Loyal" {
		t.Errorf("Names(Lazy|Loyal) = %v", names)
	}
	if len(Names(0)) != 0 {
		t.Error("empty set produced names")
	}
}
