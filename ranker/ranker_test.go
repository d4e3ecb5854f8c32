package ranker

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/opener/config"
	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/lookahead"
	"github.com/domino14/opener/stats"
)

var fourWords = []string{"crate", "trace", "react", "stare"}

var vocab = []string{
	"crate", "trace", "react", "stare", "slate", "crane", "roate", "tares",
	"llama", "hello", "geese", "puppy", "jumpy", "fuzzy", "abbey", "kebab",
}

var answers = []string{
	"crate", "trace", "react", "stare", "slate", "crane", "llama", "hello",
	"geese", "abbey",
}

func TestFourWordScenario(t *testing.T) {
	is := is.New(t)
	top, err := TopGuesses(context.Background(), fourWords, fourWords, nil, 4,
		lookahead.Params{AnswerPruneK: 10, GuessPruneG: 10, Lookahead: true})
	is.NoErr(err)
	is.Equal(len(top), 4)
	// Every word reaches 2 bits, so the order is the vocabulary order.
	for i, sg := range top {
		is.Equal(sg.Word, fourWords[i])
		is.Equal(sg.Score, 2.0)
	}
}

func TestOneStepScenario(t *testing.T) {
	is := is.New(t)
	top, err := TopGuesses(context.Background(), fourWords, fourWords, nil, 4,
		lookahead.Params{})
	is.NoErr(err)
	is.Equal(top, []ScoredGuess{
		{"crate", 2}, {"trace", 2}, {"react", 2}, {"stare", 1.5},
	})
}

func TestLengthContract(t *testing.T) {
	is := is.New(t)
	r := New(lookahead.DefaultParams(), 4)
	for _, n := range []int{0, 1, 5, len(vocab), len(vocab) + 10, -1} {
		top, err := r.TopGuesses(context.Background(), vocab, answers, nil, n)
		is.NoErr(err)
		want := n
		if want > len(vocab) {
			want = len(vocab)
		}
		if want < 0 {
			want = 0
		}
		is.Equal(len(top), want)
	}
}

func TestScoresNonIncreasing(t *testing.T) {
	is := is.New(t)
	w := lexicon.Weights{"crate": 3, "llama": 0.2, "geese": 2}
	r := New(lookahead.Params{AnswerPruneK: 5, GuessPruneG: 6, Lookahead: true}, 3)
	top, err := r.TopGuesses(context.Background(), vocab, answers, w, len(vocab))
	is.NoErr(err)
	for i := 1; i < len(top); i++ {
		is.True(top[i-1].Score >= top[i].Score)
	}
}

func TestThreadCountDoesNotMatter(t *testing.T) {
	is := is.New(t)
	params := lookahead.Params{AnswerPruneK: 6, GuessPruneG: 8, Lookahead: true}
	one := New(params, 1)
	many := New(params, 8)
	many.SetCacheMemoryFraction(0.001)

	a, err := one.TopGuesses(context.Background(), vocab, answers, nil, len(vocab))
	is.NoErr(err)
	b, err := many.TopGuesses(context.Background(), vocab, answers, nil, len(vocab))
	is.NoErr(err)
	is.Equal(a, b)
}

func TestScoresMatchLookahead(t *testing.T) {
	is := is.New(t)
	r := New(lookahead.Params{AnswerPruneK: 4, GuessPruneG: 5, Lookahead: true}, 4)
	scored, err := r.ScoreAll(context.Background(), vocab, answers, nil)
	is.NoErr(err)
	for i, sg := range scored {
		is.Equal(sg.Word, vocab[i])
		s, err := lookahead.Score(sg.Word, answers, vocab, nil, 4, 5)
		is.NoErr(err)
		is.Equal(sg.Score, s)
	}
}

func TestEmptyInputs(t *testing.T) {
	is := is.New(t)
	r := New(lookahead.DefaultParams(), 2)
	top, err := r.TopGuesses(context.Background(), nil, answers, nil, 5)
	is.NoErr(err)
	is.Equal(len(top), 0)

	top, err = r.TopGuesses(context.Background(), fourWords, nil, nil, 5)
	is.NoErr(err)
	is.Equal(len(top), 4)
	for _, sg := range top {
		is.Equal(sg.Score, 0.0)
	}
}

func TestCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(lookahead.DefaultParams(), 2).TopGuesses(ctx, vocab, answers, nil, 3)
	is.True(errors.Is(err, context.Canceled))
}

func TestInvalidVocabularyWord(t *testing.T) {
	is := is.New(t)
	_, err := New(lookahead.Params{}, 2).TopGuesses(context.Background(),
		[]string{"crate", "xx"}, fourWords, nil, 2)
	is.True(errors.Is(err, lexicon.ErrInvalidInput))
}

func TestInvalidParams(t *testing.T) {
	is := is.New(t)
	_, err := New(lookahead.Params{AnswerPruneK: -2}, 2).TopGuesses(context.Background(),
		fourWords, fourWords, nil, 2)
	is.True(errors.Is(err, lookahead.ErrInvalidParams))
}

func TestNewFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigAnswerPruneK, 12)
	cfg.Set(config.ConfigGuessPruneG, 3)
	cfg.Set(config.ConfigLookahead, false)
	cfg.Set(config.ConfigThreads, 0)
	r := NewFromConfig(cfg)
	is.Equal(r.Params(), lookahead.Params{AnswerPruneK: 12, GuessPruneG: 3})
	is.Equal(r.Threads(), 1)
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	s := Summarize([]ScoredGuess{{"crate", 2}, {"trace", 2}, {"stare", 1.5}, {"jumpy", 0.5}})
	is.Equal(s.Iterations(), 4)
	is.Equal(s.Max(), 2.0)
	is.Equal(s.Min(), 0.5)
	is.True(stats.FuzzyEqual(s.Mean(), 1.5))
}
