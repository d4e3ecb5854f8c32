package lookahead

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/opener/cache"
	"github.com/domino14/opener/entropy"
	"github.com/domino14/opener/lexicon"
)

var fourWords = []string{"crate", "trace", "react", "stare"}

var twelveWords = []string{
	"crate", "trace", "react", "stare", "slate", "crane", "roate", "tares",
	"llama", "hello", "geese", "puppy",
}

func TestScoreGolden(t *testing.T) {
	is := is.New(t)
	// crate splits the four into singletons: 2 bits, nothing left to learn.
	s, err := Score("crate", fourWords, fourWords, nil, 10, 10)
	is.NoErr(err)
	is.Equal(s, 2.0)

	// stare gets 1.5 bits, and half the time leaves {crate, trace}, which
	// any of the four words splits for one more bit.
	s, err = Score("stare", fourWords, fourWords, nil, 10, 10)
	is.NoErr(err)
	is.Equal(s, 2.0)
}

func TestBestNextEntropy(t *testing.T) {
	is := is.New(t)
	sc, err := NewScorer(fourWords, nil, DefaultParams(), nil)
	is.NoErr(err)

	e, err := sc.BestNextEntropy(nil)
	is.NoErr(err)
	is.Equal(e, 0.0)

	e, err = sc.BestNextEntropy([]string{"crate"})
	is.NoErr(err)
	is.Equal(e, 0.0)

	e, err = sc.BestNextEntropy([]string{"crate", "trace"})
	is.NoErr(err)
	is.Equal(e, 1.0)
}

func TestLookaheadOffIsEntropy(t *testing.T) {
	is := is.New(t)
	sc, err := NewScorer(twelveWords, nil, Params{AnswerPruneK: 50, GuessPruneG: 50}, nil)
	is.NoErr(err)
	for _, g := range twelveWords {
		s, err := sc.Score(g, twelveWords)
		is.NoErr(err)
		e, err := entropy.Entropy(g, twelveWords, nil)
		is.NoErr(err)
		is.Equal(s, e)
	}
}

func TestPruningToNothingIsEntropy(t *testing.T) {
	is := is.New(t)
	for _, p := range []Params{
		{AnswerPruneK: 50, GuessPruneG: 0, Lookahead: true},
		{AnswerPruneK: 1, GuessPruneG: 50, Lookahead: true},
		{AnswerPruneK: 0, GuessPruneG: 50, Lookahead: true},
	} {
		sc, err := NewScorer(twelveWords, nil, p, nil)
		is.NoErr(err)
		s, err := sc.Score("stare", twelveWords)
		is.NoErr(err)
		e, err := entropy.Entropy("stare", twelveWords, nil)
		is.NoErr(err)
		is.Equal(s, e)
	}
}

func TestScoreAtLeastEntropy(t *testing.T) {
	is := is.New(t)
	sc, err := NewScorer(twelveWords, nil, DefaultParams(), nil)
	is.NoErr(err)
	for _, g := range twelveWords {
		s, err := sc.Score(g, twelveWords)
		is.NoErr(err)
		e, err := entropy.Entropy(g, twelveWords, nil)
		is.NoErr(err)
		is.True(s >= e)
	}
}

func TestDeterministic(t *testing.T) {
	is := is.New(t)
	w := lexicon.Weights{"crate": 4, "slate": 2.5, "puppy": 0.1}
	for _, g := range twelveWords {
		a, err := Score(g, twelveWords, twelveWords, w, 5, 6)
		is.NoErr(err)
		b, err := Score(g, twelveWords, twelveWords, w, 5, 6)
		is.NoErr(err)
		is.Equal(a, b)
	}
}

func TestCacheDoesNotChangeScores(t *testing.T) {
	is := is.New(t)
	params := Params{AnswerPruneK: 4, GuessPruneG: 6, Lookahead: true}
	c := cache.New(1 << 16)
	cached, err := NewScorer(twelveWords, nil, params, c)
	is.NoErr(err)
	plain, err := NewScorer(twelveWords, nil, params, nil)
	is.NoErr(err)

	// Score against two different candidate sets through the same cache.
	for _, set := range [][]string{twelveWords, twelveWords[:7], fourWords} {
		for _, g := range twelveWords {
			a, err := cached.Score(g, set)
			is.NoErr(err)
			b, err := plain.Score(g, set)
			is.NoErr(err)
			is.Equal(a, b)
		}
	}
	is.True(c.Len() > 0)
	_, hits, _ := c.Stats()
	is.True(hits > 0)
}

func TestWeightFallback(t *testing.T) {
	is := is.New(t)
	sparse := lexicon.Weights{"crate": 3, "llama": 0.5}
	full := lexicon.Weights{"crate": 3, "llama": 0.5, "hello": 1.0}
	for _, g := range twelveWords {
		a, err := Score(g, twelveWords, twelveWords, sparse, 5, 5)
		is.NoErr(err)
		b, err := Score(g, twelveWords, twelveWords, full, 5, 5)
		is.NoErr(err)
		is.Equal(a, b)
	}
}

func TestPoolFollowsWeights(t *testing.T) {
	is := is.New(t)
	sc, err := NewScorer(twelveWords, lexicon.Weights{"puppy": 9, "geese": 5},
		Params{AnswerPruneK: 3, GuessPruneG: 3, Lookahead: true}, nil)
	is.NoErr(err)
	is.Equal(sc.Pool(), []string{"puppy", "geese", "crate"})

	sc, err = NewScorer(twelveWords, nil, Params{AnswerPruneK: 3, GuessPruneG: 3}, nil)
	is.NoErr(err)
	is.Equal(sc.Pool(), []string{"crate", "trace", "react"})
}

func TestInvalidParams(t *testing.T) {
	is := is.New(t)
	_, err := NewScorer(fourWords, nil, Params{AnswerPruneK: -1, GuessPruneG: 3}, nil)
	is.True(errors.Is(err, ErrInvalidParams))
	_, err = NewScorer(fourWords, nil, Params{AnswerPruneK: 1, GuessPruneG: -3}, nil)
	is.True(errors.Is(err, ErrInvalidParams))
}

func TestInvalidGuess(t *testing.T) {
	is := is.New(t)
	_, err := Score("cr8te", fourWords, fourWords, nil, 10, 10)
	is.True(errors.Is(err, lexicon.ErrInvalidInput))
}

func TestEmptyCandidates(t *testing.T) {
	is := is.New(t)
	s, err := Score("crate", nil, fourWords, nil, 10, 10)
	is.NoErr(err)
	is.Equal(s, 0.0)
}
