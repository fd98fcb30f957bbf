// Package traits defines crew personality traits.
package traits

import "math/rand/v2"

// Trait defines a personality trait carried by a crew member.
type Trait uint32

const (
	Lazy       Trait = 1 << iota // Moves slower
	Aggressive                   // Moves faster, fights harder
	Curious                      // Wanders farther
	Cautious                     // Shorter wander legs
	Loyal                        // Morale resists damage
)

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// Add adds a trait to the set.
func (t Trait) Add(other Trait) Trait {
	return t | other
}

// Remove removes a trait from the set.
func (t Trait) Remove(other Trait) Trait {
	return t &^ other
}

// SpeedModifier returns the movement speed multiplier for a trait set.
// Lazy wins over Aggressive when both are present.
func (t Trait) SpeedModifier() float64 {
	if t.Has(Lazy) {
		return 0.7
	}
	if t.Has(Aggressive) {
		return 1.2
	}
	return 1.0
}

// WanderRadiusBias shifts the wander target radius in tiles.
func (t Trait) WanderRadiusBias() int {
	if t.Has(Curious) {
		return 1
	}
	if t.Has(Cautious) {
		return -1
	}
	return 0
}

// MoraleResistance scales morale loss from damage.
func (t Trait) MoraleResistance() float64 {
	if t.Has(Loyal) {
		return 0.5
	}
	return 1.0
}

// TraitWeights for random selection (higher = more common).
var TraitWeights = map[Trait]float64{
	Lazy:       0.20,
	Aggressive: 0.20,
	Curious:    0.25,
	Cautious:   0.20,
	Loyal:      0.15,
}

var allTraits = []Trait{Lazy, Aggressive, Curious, Cautious, Loyal}

// Roll picks 1-2 distinct weighted traits for a new crew member.
func Roll(rng *rand.Rand) Trait {
	n := 1 + rng.IntN(2)
	var set Trait
	for i := 0; i < n; i++ {
		set = set.Add(pickWeighted(rng, set))
	}
	return set
}

func pickWeighted(rng *rand.Rand, exclude Trait) Trait {
	var total float64
	for _, t := range allTraits {
		if !exclude.Has(t) {
			total += TraitWeights[t]
		}
	}
	r := rng.Float64() * total
	for _, t := range allTraits {
		if exclude.Has(t) {
			continue
		}
		r -= TraitWeights[t]
		if r <= 0 {
			return t
		}
	}
	return allTraits[len(allTraits)-1]
}

// Names returns human-readable names for traits.
func Names(t Trait) []string {
	var names []string
	if t.Has(Lazy) {
		names = append(names, "Lazy")
	}
	if t.Has(Aggressive) {
		names = append(names, "Aggressive")
	}
	if t.Has(Curious) {
		names = append(names, "Curious")
	}
	if t.Has(Cautious) {
		names = append(names, "Cautious")
	}
	if t.Has(Loyal) {
		names = append(names, "Loyal")
	}
	return names
}
