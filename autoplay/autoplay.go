// Package autoplay plays puzzles against known answers with the ranker
// choosing every guess, and aggregates how many guesses it needed.
package autoplay

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/pattern"
	"github.com/domino14/opener/ranker"
	"github.com/domino14/opener/stats"
)

const DefaultMaxGuesses = 6

// Game is the record of one played puzzle.
type Game struct {
	Answer   string            `json:"answer" yaml:"answer"`
	Guesses  []string          `json:"guesses" yaml:"guesses"`
	Patterns []pattern.Pattern `json:"-" yaml:"-"`
	Solved   bool              `json:"solved" yaml:"solved"`
}

func (g *Game) String() string {
	var sb strings.Builder
	for i, guess := range g.Guesses {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, strings.ToUpper(guess), g.Patterns[i])
	}
	if g.Solved {
		fmt.Fprintf(&sb, "solved %s in %d", strings.ToUpper(g.Answer), len(g.Guesses))
	} else {
		fmt.Fprintf(&sb, "failed to find %s", strings.ToUpper(g.Answer))
	}
	return sb.String()
}

type Player struct {
	ranker     *ranker.Ranker
	vocabulary []string
	answers    []string
	weights    lexicon.Weights
	maxGuesses int
	opener     string
}

func NewPlayer(r *ranker.Ranker, vocabulary, answers []string, weights lexicon.Weights,
	maxGuesses int) *Player {

	if maxGuesses < 1 {
		maxGuesses = DefaultMaxGuesses
	}
	return &Player{
		ranker:     r,
		vocabulary: vocabulary,
		answers:    answers,
		weights:    weights,
		maxGuesses: maxGuesses,
	}
}

// SetOpener fixes the first guess of every game. An empty word means the
// opener is ranked on the first game and reused after that.
func (p *Player) SetOpener(word string) error {
	if word == "" {
		p.opener = ""
		return nil
	}
	w, err := lexicon.Normalize(word)
	if err != nil {
		return err
	}
	p.opener = w
	return nil
}

// Opener returns the first guess, ranking it if it isn't known yet.
func (p *Player) Opener(ctx context.Context) (string, error) {
	if p.opener != "" {
		return p.opener, nil
	}
	guess, err := p.best(ctx, p.answers)
	if err != nil {
		return "", err
	}
	log.Debug().Str("opener", guess).Msg("ranked-opener")
	p.opener = guess
	return guess, nil
}

// NextGuess picks the guess for the given candidates. With two or fewer
// left it guesses the likelier candidate outright.
func (p *Player) NextGuess(ctx context.Context, candidates []string, turn int) (string, error) {
	switch {
	case len(candidates) == 0:
		return "", fmt.Errorf("no candidates left")
	case len(candidates) <= 2:
		return lexicon.TopK(candidates, p.weights, 1)[0], nil
	case turn == 0:
		return p.Opener(ctx)
	}
	return p.best(ctx, candidates)
}

// best is the top ranked guess. Among guesses tied for the top score, one
// that could itself be the answer wins.
func (p *Player) best(ctx context.Context, candidates []string) (string, error) {
	scored, err := p.ranker.ScoreAll(ctx, p.vocabulary, candidates, p.weights)
	if err != nil {
		return "", err
	}
	top := ranker.Top(scored, len(scored))
	if len(top) == 0 {
		return "", fmt.Errorf("empty vocabulary")
	}
	possible := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		possible[c] = true
	}
	for _, sg := range top {
		if sg.Score < top[0].Score {
			break
		}
		if possible[sg.Word] {
			return sg.Word, nil
		}
	}
	return top[0].Word, nil
}

// Play solves the puzzle whose answer is answer.
func (p *Player) Play(ctx context.Context, answer string) (*Game, error) {
	answer, err := lexicon.Normalize(answer)
	if err != nil {
		return nil, err
	}
	g := &Game{Answer: answer}
	candidates := p.answers
	for turn := 0; turn < p.maxGuesses; turn++ {
		guess, err := p.NextGuess(ctx, candidates, turn)
		if err != nil {
			return nil, err
		}
		pat, err := pattern.Compute(guess, answer)
		if err != nil {
			return nil, err
		}
		g.Guesses = append(g.Guesses, guess)
		g.Patterns = append(g.Patterns, pat)
		if pat.Solved() {
			g.Solved = true
			break
		}
		candidates, err = pattern.Filter(guess, pat, candidates)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			// the answer isn't in the answer set
			break
		}
	}
	log.Debug().Str("answer", answer).Strs("guesses", g.Guesses).
		Bool("solved", g.Solved).Msg("played-game")
	return g, nil
}

// Run plays n puzzles with answers drawn at random from the answer set, or
// every answer in order if n is zero or at least the size of the set.
func (p *Player) Run(ctx context.Context, n int) (*Summary, error) {
	targets := p.answers
	if n > 0 && n < len(p.answers) {
		targets = make([]string, n)
		for i, idx := range frand.Perm(len(p.answers))[:n] {
			targets[i] = p.answers[idx]
		}
	}

	s := &Summary{}
	if len(targets) > 0 {
		opener, err := p.Opener(ctx)
		if err != nil {
			return nil, err
		}
		s.Opener = opener
	}
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := p.Play(ctx, t)
		if err != nil {
			return nil, err
		}
		s.add(g)
		if (i+1)%100 == 0 {
			log.Info().Int("played", i+1).Int("total", len(targets)).
				Float64("mean-guesses", s.Guesses.Mean()).Msg("autoplay-progress")
		}
	}
	return s, nil
}

// Summary aggregates played games. Guesses only counts solved games.
type Summary struct {
	Opener   string
	Games    []*Game
	Guesses  stats.Statistic
	Failures []string
}

func (s *Summary) add(g *Game) {
	s.Games = append(s.Games, g)
	if g.Solved {
		s.Guesses.Push(float64(len(g.Guesses)))
	} else {
		s.Failures = append(s.Failures, g.Answer)
	}
}

func (s *Summary) Solved() int {
	return len(s.Games) - len(s.Failures)
}

// Distribution counts solved games by number of guesses.
func (s *Summary) Distribution() map[int]int {
	d := map[int]int{}
	for _, g := range s.Games {
		if g.Solved {
			d[len(g.Guesses)]++
		}
	}
	return d
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "opener: %s\n", strings.ToUpper(s.Opener))
	fmt.Fprintf(&sb, "games: %d, solved: %d, failed: %d\n",
		len(s.Games), s.Solved(), len(s.Failures))
	if s.Guesses.Iterations() == 0 {
		return sb.String()
	}
	low, high := s.Guesses.ConfidenceInterval(95)
	fmt.Fprintf(&sb, "mean guesses: %.3f (95%% CI %.3f - %.3f), stdev %.3f\n",
		s.Guesses.Mean(), low, high, s.Guesses.Stdev())

	dist := s.Distribution()
	counts := lo.Keys(dist)
	sort.Ints(counts)
	sb.WriteString("solved in:")
	for _, n := range counts {
		fmt.Fprintf(&sb, " %d:%d", n, dist[n])
	}
	sb.WriteString("\n")

	values := make([]float64, 0, s.Guesses.Iterations())
	for _, g := range s.Games {
		if g.Solved {
			values = append(values, float64(len(g.Guesses)))
		}
	}
	bins := int(s.Guesses.Max()-s.Guesses.Min()) + 1
	if err := histogram.Fprint(&sb, histogram.Hist(bins, values), histogram.Linear(40)); err != nil {
		log.Err(err).Msg("histogram")
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(&sb, "failed: %s\n", strings.Join(s.Failures, " "))
	}
	return sb.String()
}
