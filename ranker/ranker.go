// Package ranker scores every word of a guess vocabulary against the
// current candidate answers and returns the best ones.
package ranker

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/opener/cache"
	"github.com/domino14/opener/config"
	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/lookahead"
	"github.com/domino14/opener/stats"
)

const progressEvery = 1000

type ScoredGuess struct {
	Word  string  `json:"word" yaml:"word"`
	Score float64 `json:"score" yaml:"score"`
}

// Ranker holds the settings for ranking calls. It keeps no state between
// calls; each call gets its own score cache.
type Ranker struct {
	params        lookahead.Params
	threads       int
	cacheFraction float64
}

func New(params lookahead.Params, threads int) *Ranker {
	r := &Ranker{params: params}
	r.SetThreads(threads)
	return r
}

// NewFromConfig reads the lookahead, threading and cache settings from cfg.
func NewFromConfig(cfg *config.Config) *Ranker {
	r := New(lookahead.Params{
		AnswerPruneK: cfg.GetInt(config.ConfigAnswerPruneK),
		GuessPruneG:  cfg.GetInt(config.ConfigGuessPruneG),
		Lookahead:    cfg.GetBool(config.ConfigLookahead),
	}, cfg.GetInt(config.ConfigThreads))
	r.cacheFraction = cfg.GetFloat64(config.ConfigCacheMemoryFraction)
	return r
}

func (r *Ranker) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	r.threads = threads
}

func (r *Ranker) Threads() int {
	return r.threads
}

func (r *Ranker) SetParams(p lookahead.Params) {
	r.params = p
}

func (r *Ranker) Params() lookahead.Params {
	return r.params
}

// SetCacheMemoryFraction sets how much of system memory a call may use for
// memoized scores. Zero turns memoization off.
func (r *Ranker) SetCacheMemoryFraction(f float64) {
	r.cacheFraction = f
}

// ScoreAll scores every vocabulary word against candidates. The result is
// in vocabulary order.
func (r *Ranker) ScoreAll(ctx context.Context, vocabulary, candidates []string,
	weights lexicon.Weights) ([]ScoredGuess, error) {

	var c *cache.Cache
	if r.cacheFraction > 0 {
		c = cache.NewForMemory(r.cacheFraction)
	}
	scorer, err := lookahead.NewScorer(vocabulary, weights, r.params, c)
	if err != nil {
		return nil, err
	}

	ts := time.Now()
	scored := make([]ScoredGuess, len(vocabulary))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.threads)
	for i, guess := range vocabulary {
		if gctx.Err() != nil {
			break
		}
		i, guess := i, guess
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := scorer.Score(guess, candidates)
			if err != nil {
				return fmt.Errorf("scoring %q: %w", guess, err)
			}
			scored[i] = ScoredGuess{Word: guess, Score: s}
			if n := done.Add(1); n%progressEvery == 0 {
				log.Debug().Int64("scored", n).Int("total", len(vocabulary)).Msg("ranking-progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lookups, hits, dropped := c.Stats()
	log.Debug().Int("guesses", len(vocabulary)).
		Int("candidates", len(candidates)).
		Int("threads", r.threads).
		Uint64("cache-lookups", lookups).
		Uint64("cache-hits", hits).
		Uint64("cache-dropped", dropped).
		Dur("elapsed", time.Since(ts)).
		Msg("scored-vocabulary")
	return scored, nil
}

// TopGuesses returns the n best-scoring vocabulary words, best first. Equal
// scores keep their vocabulary order. The result has min(n, len(vocabulary))
// entries.
func (r *Ranker) TopGuesses(ctx context.Context, vocabulary, candidates []string,
	weights lexicon.Weights, n int) ([]ScoredGuess, error) {

	scored, err := r.ScoreAll(ctx, vocabulary, candidates, weights)
	if err != nil {
		return nil, err
	}
	return Top(scored, n), nil
}

// Top sorts scored best first, keeping the input order of ties, and
// truncates it to n.
func Top(scored []ScoredGuess, n int) []ScoredGuess {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if n < 0 {
		n = 0
	}
	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}

// TopGuesses ranks with one goroutine per CPU and no score cache.
func TopGuesses(ctx context.Context, vocabulary, candidates []string,
	weights lexicon.Weights, n int, params lookahead.Params) ([]ScoredGuess, error) {

	return New(params, runtime.NumCPU()).TopGuesses(ctx, vocabulary, candidates, weights, n)
}

// Summarize returns statistics over the scores.
func Summarize(scored []ScoredGuess) *stats.Statistic {
	s := &stats.Statistic{}
	for _, sg := range scored {
		s.Push(sg.Score)
	}
	return s
}
