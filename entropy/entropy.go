// Package entropy scores a guess by the expected information, in bits, its
// feedback reveals about which candidate is the answer.
package entropy

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/pattern"
)

// Entropy returns the expected information of guess against candidates.
// An empty candidate set yields 0.
func Entropy(guess string, candidates []string, weights lexicon.Weights) (float64, error) {
	if len(candidates) == 0 {
		return 0, nil
	}
	g, err := pattern.Partition(guess, candidates)
	if err != nil {
		return 0, err
	}
	return FromGroups(g, weights), nil
}

// FromGroups returns the entropy of an existing partition.
func FromGroups(g *pattern.Groups, weights lexicon.Weights) float64 {
	e := 0.0
	for _, p := range Probabilities(g, weights) {
		if p > 0 {
			e -= p * math.Log2(p)
		}
	}
	return e
}

// Probabilities returns the probability of each group of g, in group
// order: its weight over the weight of the whole set. A set whose total
// weight is zero gives every group probability zero.
func Probabilities(g *pattern.Groups, weights lexicon.Weights) []float64 {
	masses := make([]float64, 0, g.Len())
	g.Each(func(_ pattern.Pattern, members []string) {
		masses = append(masses, weights.Total(members))
	})
	total := floats.Sum(masses)
	if total <= 0 {
		return make([]float64, len(masses))
	}
	floats.Scale(1/total, masses)
	return masses
}
