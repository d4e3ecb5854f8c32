package lexicon

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// DefaultWeight is the weight of a word missing from a Weights table.
const DefaultWeight = 1.0

// Weights maps a word to its relative frequency. A nil table means every
// word weighs the same.
type Weights map[string]float64

// NewWeights builds a table from raw, normalizing every key. Keys are
// applied in sorted order so that two spellings of one word resolve the
// same way on every run.
func NewWeights(raw map[string]float64) (Weights, error) {
	w := make(Weights, len(raw))
	keys := lo.Keys(raw)
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.Set(k, raw[k]); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Set stores the weight for word, replacing any earlier value.
func (w Weights) Set(word string, weight float64) error {
	n, err := Normalize(word)
	if err != nil {
		return err
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight %v for %q", ErrInvalidInput, weight, word)
	}
	w[n] = weight
	return nil
}

// Of returns the weight of word.
func (w Weights) Of(word string) float64 {
	if v, ok := w[word]; ok {
		return v
	}
	return DefaultWeight
}

// Total is the summed weight of words; the word count for a nil table.
func (w Weights) Total(words []string) float64 {
	if w == nil {
		return float64(len(words))
	}
	return lo.SumBy(words, w.Of)
}

// TopK returns the k heaviest words, heaviest first. Equal weights keep
// their input order, so with a nil table this is just the first k words.
// The input is never modified.
func TopK(words []string, w Weights, k int) []string {
	if k <= 0 {
		return []string{}
	}
	if k > len(words) {
		k = len(words)
	}
	if w == nil {
		return append([]string(nil), words[:k]...)
	}
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return w.Of(sorted[i]) > w.Of(sorted[j])
	})
	return sorted[:k]
}
