// Package lookahead scores a guess by its own entropy plus the expected
// entropy of the best second guess after its feedback is known.
//
// Each feedback group is cut down to its AnswerPruneK heaviest answers and
// the second guess is chosen among the GuessPruneG heaviest vocabulary
// words, so the score is an approximation that leans toward whatever the
// weights call likely.
package lookahead

import (
	"errors"
	"fmt"
	"sort"

	"github.com/domino14/opener/cache"
	"github.com/domino14/opener/entropy"
	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/pattern"
)

const (
	DefaultAnswerPruneK = 200
	DefaultGuessPruneG  = 50
)

var ErrInvalidParams = errors.New("invalid lookahead parameters")

// Params bounds the cost of the second ply. With Lookahead off the score
// is plain one-step entropy and the prune bounds are unused.
type Params struct {
	AnswerPruneK int
	GuessPruneG  int
	Lookahead    bool
}

func DefaultParams() Params {
	return Params{
		AnswerPruneK: DefaultAnswerPruneK,
		GuessPruneG:  DefaultGuessPruneG,
		Lookahead:    true,
	}
}

func (p Params) Validate() error {
	if p.AnswerPruneK < 0 {
		return fmt.Errorf("%w: answer prune %d", ErrInvalidParams, p.AnswerPruneK)
	}
	if p.GuessPruneG < 0 {
		return fmt.Errorf("%w: guess prune %d", ErrInvalidParams, p.GuessPruneG)
	}
	return nil
}

// Scorer scores guesses against candidate sets for one vocabulary and
// weight table. It only reads its inputs, so one Scorer can be shared by
// many goroutines.
type Scorer struct {
	weights lexicon.Weights
	params  Params
	pool    []string
	cache   *cache.Cache
}

// NewScorer prepares the second-guess pool from vocabulary. c may be nil
// for no memoization.
func NewScorer(vocabulary []string, weights lexicon.Weights, params Params,
	c *cache.Cache) (*Scorer, error) {

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		weights: weights,
		params:  params,
		pool:    lexicon.TopK(vocabulary, weights, params.GuessPruneG),
		cache:   c,
	}, nil
}

func (s *Scorer) Params() Params {
	return s.params
}

// Pool returns the second guesses the scorer considers.
func (s *Scorer) Pool() []string {
	return s.pool
}

// Score returns the lookahead score of guess against candidates.
func (s *Scorer) Score(guess string, candidates []string) (float64, error) {
	if len(candidates) == 0 {
		return 0, nil
	}
	groups, err := pattern.Partition(guess, candidates)
	if err != nil {
		return 0, err
	}
	score := entropy.FromGroups(groups, s.weights)
	if !s.params.Lookahead {
		return score, nil
	}

	probs := entropy.Probabilities(groups, s.weights)
	for i, p := range groups.Patterns() {
		if probs[i] == 0 {
			continue
		}
		next, err := s.BestNextEntropy(groups.Members(p))
		if err != nil {
			return 0, err
		}
		score += probs[i] * next
	}
	return score, nil
}

// BestNextEntropy is the highest entropy any pool word reaches against the
// heaviest AnswerPruneK members of group.
func (s *Scorer) BestNextEntropy(group []string) (float64, error) {
	if len(group) == 0 {
		return 0, nil
	}
	restricted := lexicon.TopK(group, s.weights, s.params.AnswerPruneK)
	// Canonical order: a cached value must equal a fresh computation exactly.
	sort.Strings(restricted)

	key := cache.SetKey("", restricted, s.params.AnswerPruneK, s.params.GuessPruneG)
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	best := 0.0
	// A single answer can't be split any further.
	if len(restricted) > 1 {
		for _, g := range s.pool {
			e, err := entropy.Entropy(g, restricted, s.weights)
			if err != nil {
				return 0, err
			}
			if e > best {
				best = e
			}
		}
	}
	s.cache.Put(key, best)
	return best, nil
}

// Score is the lookahead score of guess with no memoization.
func Score(guess string, candidates, vocabulary []string, weights lexicon.Weights,
	answerPruneK, guessPruneG int) (float64, error) {

	s, err := NewScorer(vocabulary, weights, Params{
		AnswerPruneK: answerPruneK,
		GuessPruneG:  guessPruneG,
		Lookahead:    true,
	}, nil)
	if err != nil {
		return 0, err
	}
	return s.Score(guess, candidates)
}
