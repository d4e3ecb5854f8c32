package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/opener/autoplay"
	"github.com/domino14/opener/config"
	"github.com/domino14/opener/entropy"
	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/lookahead"
	"github.com/domino14/opener/pattern"
	"github.com/domino14/opener/ranker"
	"github.com/domino14/opener/wordlist"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) BoolDefault(key string, defaultB bool) (bool, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultB, nil
	}
	return strconv.ParseBool(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// loadData reads the vocabulary and, in frequency mode, the frequency
// table. Empty paths fall back to the config, then to the newest dated
// list in the data directory.
func (sc *ShellController) loadData(wordsPath, weightsPath string) error {
	dataPath := sc.config.GetString(config.ConfigDataPath)
	if wordsPath == "" {
		wordsPath = sc.config.GetString(config.ConfigWordsPath)
	}
	if wordsPath == "" {
		p, err := wordlist.Latest(dataPath, wordlist.WordsGlob)
		if err != nil {
			return err
		}
		wordsPath = p
	}
	words, err := wordlist.LoadWordsFile(wordsPath)
	if err != nil {
		return err
	}
	vocab, err := lexicon.NewVocabulary(words)
	if err != nil {
		return err
	}

	var freqs lexicon.Weights
	mode := sc.config.GetString(config.ConfigWordlist)
	switch mode {
	case config.WordlistWordle:
	case config.WordlistFrequency:
		if weightsPath == "" {
			weightsPath = sc.config.GetString(config.ConfigWeightsPath)
		}
		if weightsPath == "" {
			p, err := wordlist.Latest(dataPath, wordlist.WeightsGlob)
			if err != nil {
				return err
			}
			weightsPath = p
		}
		freqs, err = wordlist.LoadWeightsFile(weightsPath)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown wordlist %q; use %s or %s", mode,
			config.WordlistWordle, config.WordlistFrequency)
	}

	answers, weights := wordlist.Answers(vocab.Words(), freqs)
	if len(answers) == 0 {
		return errors.New("no vocabulary word is in the frequency table")
	}
	sc.vocabulary = vocab
	sc.answers = answers
	sc.weights = weights
	sc.resetGame()
	log.Info().Str("words", wordsPath).Str("weights", weightsPath).
		Int("vocabulary", vocab.Len()).Int("answers", len(answers)).
		Str("wordlist", mode).Msg("loaded-word-lists")
	return nil
}

func (sc *ShellController) ensureLoaded() error {
	if sc.vocabulary != nil {
		return nil
	}
	return sc.loadData("", "")
}

func (sc *ShellController) resetGame() {
	sc.candidates = append([]string(nil), sc.answers...)
	sc.history = nil
}

func (sc *ShellController) topN(cmd *shellcmd) (int, error) {
	return cmd.options.IntDefault("n", sc.config.GetInt(config.ConfigTopN))
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage(sc.version)), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if wl := cmd.options.String("wordlist"); wl != "" {
		if err := checkWordlist(wl); err != nil {
			return nil, err
		}
		sc.config.Set(config.ConfigWordlist, wl)
	}
	var wordsPath, weightsPath string
	if len(cmd.args) > 0 {
		wordsPath = cmd.args[0]
	}
	if len(cmd.args) > 1 {
		weightsPath = cmd.args[1]
	}
	if err := sc.loadData(wordsPath, weightsPath); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("loaded %d guess words and %d answers",
		sc.vocabulary.Len(), len(sc.answers))), nil
}

// rankerFor applies per-command overrides on top of the configured ranker.
func (sc *ShellController) rankerFor(cmd *shellcmd) (*ranker.Ranker, error) {
	params := sc.ranker.Params()
	var err error
	if params.AnswerPruneK, err = cmd.options.IntDefault("k", params.AnswerPruneK); err != nil {
		return nil, err
	}
	if params.GuessPruneG, err = cmd.options.IntDefault("g", params.GuessPruneG); err != nil {
		return nil, err
	}
	if params.Lookahead, err = cmd.options.BoolDefault("lookahead", params.Lookahead); err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.ranker.Threads())
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	r := ranker.New(params, threads)
	r.SetCacheMemoryFraction(sc.config.GetFloat64(config.ConfigCacheMemoryFraction))
	return r, nil
}

func (sc *ShellController) rank(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	n, err := sc.topN(cmd)
	if err != nil {
		return nil, err
	}
	r, err := sc.rankerFor(cmd)
	if err != nil {
		return nil, err
	}
	format := cmd.options.String("format")
	if format == "" {
		format = "text"
	}
	if !lo.Contains([]string{"text", "json", "yaml"}, format) {
		return nil, fmt.Errorf("unknown format %q; use text, json or yaml", format)
	}

	scored, err := r.ScoreAll(sc.ctx, sc.vocabulary.Words(), sc.candidates, sc.weights)
	if err != nil {
		return nil, err
	}
	summary := ranker.Summarize(scored)
	top := ranker.Top(scored, n)

	switch format {
	case "json":
		bts, err := json.MarshalIndent(top, "", "  ")
		if err != nil {
			return nil, err
		}
		return msg(string(bts)), nil
	case "yaml":
		bts, err := yaml.Marshal(top)
		if err != nil {
			return nil, err
		}
		return msg(strings.TrimRight(string(bts), "\n")), nil
	}

	var sb strings.Builder
	p := r.Params()
	if p.Lookahead {
		fmt.Fprintf(&sb, "%d guesses against %d candidates (lookahead k=%d g=%d)\n",
			len(scored), len(sc.candidates), p.AnswerPruneK, p.GuessPruneG)
	} else {
		fmt.Fprintf(&sb, "%d guesses against %d candidates (one step)\n",
			len(scored), len(sc.candidates))
	}
	for i, sg := range top {
		fmt.Fprintf(&sb, "%3d: %-7s%8.4f\n", i+1, strings.ToUpper(sg.Word), sg.Score)
	}
	if summary.Iterations() > 0 {
		fmt.Fprintf(&sb, "scores: mean %.4f, stdev %.4f, max %.4f",
			summary.Mean(), summary.Stdev(), summary.Max())
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) score(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: score <word> [<word> ...]")
	}
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	r, err := sc.rankerFor(cmd)
	if err != nil {
		return nil, err
	}
	scorer, err := lookahead.NewScorer(sc.vocabulary.Words(), sc.weights, r.Params(), nil)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(cmd.args))
	for _, w := range cmd.args {
		word, err := lexicon.Normalize(w)
		if err != nil {
			return nil, err
		}
		s, err := scorer.Score(word, sc.candidates)
		if err != nil {
			return nil, err
		}
		line := fmt.Sprintf("%-7s%8.4f", strings.ToUpper(word), s)
		if !sc.vocabulary.Contains(word) {
			line += " (not in the vocabulary)"
		}
		lines = append(lines, line)
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) entropy(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: entropy <word> [<word> ...]")
	}
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(cmd.args))
	for _, w := range cmd.args {
		word, err := lexicon.Normalize(w)
		if err != nil {
			return nil, err
		}
		groups, err := pattern.Partition(word, sc.candidates)
		if err != nil {
			return nil, err
		}
		largest := lo.Max(lo.Map(groups.Patterns(), func(p pattern.Pattern, _ int) int {
			return len(groups.Members(p))
		}))
		lines = append(lines, fmt.Sprintf("%-7s%8.4f bits, %d groups, largest %d",
			strings.ToUpper(word), entropy.FromGroups(groups, sc.weights), groups.Len(), largest))
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) pattern(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: pattern <guess> <answer>")
	}
	p, err := pattern.Compute(cmd.args[0], cmd.args[1])
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s %s", p, p.Letters())), nil
}

func (sc *ShellController) guess(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: guess <word> <feedback>")
	}
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	word, err := lexicon.Normalize(cmd.args[0])
	if err != nil {
		return nil, err
	}
	fb, err := pattern.Parse(cmd.args[1])
	if err != nil {
		return nil, err
	}
	remaining, err := pattern.Filter(word, fb, sc.candidates)
	if err != nil {
		return nil, err
	}
	sc.history = append(sc.history, turn{guess: word, feedback: fb})
	sc.candidates = remaining

	var sb strings.Builder
	if !sc.vocabulary.Contains(word) {
		log.Warn().Str("guess", word).Msg("guess-not-in-vocabulary")
	}
	for _, t := range sc.history {
		fmt.Fprintf(&sb, "%s %s\n", strings.ToUpper(t.guess), t.feedback)
	}
	switch {
	case fb.Solved():
		sb.WriteString("solved!")
	case len(remaining) == 0:
		sb.WriteString("no candidates are consistent with that feedback; use reset to start over")
	default:
		fmt.Fprintf(&sb, "%d candidates left", len(remaining))
		if len(remaining) <= 10 {
			sb.WriteString(": " + strings.Join(upper(remaining), " "))
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) listCandidates(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	n, err := sc.topN(cmd)
	if err != nil {
		return nil, err
	}
	shown := lexicon.TopK(sc.candidates, sc.weights, n)
	out := fmt.Sprintf("%d candidates", len(sc.candidates))
	if len(shown) > 0 {
		out += ", most likely first: " + strings.Join(upper(shown), " ")
	}
	return msg(out), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	sc.resetGame()
	return msg(fmt.Sprintf("%d candidates", len(sc.candidates))), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	r, err := sc.rankerFor(cmd)
	if err != nil {
		return nil, err
	}
	games, err := cmd.options.IntDefault("games", 100)
	if err != nil {
		return nil, err
	}
	player := autoplay.NewPlayer(r, sc.vocabulary.Words(), sc.answers, sc.weights,
		sc.config.GetInt(config.ConfigMaxGuesses))
	if err := player.SetOpener(cmd.options.String("opener")); err != nil {
		return nil, err
	}
	if answer := cmd.options.String("answer"); answer != "" {
		g, err := player.Play(sc.ctx, answer)
		if err != nil {
			return nil, err
		}
		return msg(g.String()), nil
	}
	summary, err := player.Run(sc.ctx, games)
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(summary.String(), "\n")), nil
}

// settable lists the config keys the set command may change, in display order.
var settable = []string{
	config.ConfigTopN, config.ConfigAnswerPruneK, config.ConfigGuessPruneG,
	config.ConfigLookahead, config.ConfigThreads, config.ConfigCacheMemoryFraction,
	config.ConfigMaxGuesses, config.ConfigWordlist, config.ConfigDataPath,
	config.ConfigWordsPath, config.ConfigWeightsPath,
}

// reloadKeys change which lists are loaded.
var reloadKeys = []string{
	config.ConfigWordlist, config.ConfigDataPath, config.ConfigWordsPath, config.ConfigWeightsPath,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		sb.WriteString("Settings:\n")
		for _, key := range settable {
			fmt.Fprintf(&sb, "  %s: %v\n", key, sc.config.Get(key))
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	key := cmd.args[0]
	if !lo.Contains(settable, key) {
		return nil, fmt.Errorf("no such setting: %s", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	raw := cmd.args[1]
	var val any
	var err error
	switch key {
	case config.ConfigTopN, config.ConfigAnswerPruneK, config.ConfigGuessPruneG,
		config.ConfigThreads, config.ConfigMaxGuesses:
		var n int
		n, err = strconv.Atoi(raw)
		if err == nil && n < 0 {
			err = fmt.Errorf("%s must not be negative", key)
		}
		val = n
	case config.ConfigLookahead:
		val, err = strconv.ParseBool(raw)
	case config.ConfigCacheMemoryFraction:
		var f float64
		f, err = strconv.ParseFloat(raw, 64)
		if err == nil && (f < 0 || f >= 1) {
			err = fmt.Errorf("%s must be in [0, 1)", key)
		}
		val = f
	case config.ConfigWordlist:
		err = checkWordlist(raw)
		val = raw
	default:
		val = raw
	}
	if err != nil {
		return nil, err
	}
	sc.config.Set(key, val)
	sc.ranker = ranker.NewFromConfig(sc.config)
	if lo.Contains(reloadKeys, key) {
		// loaded again on the next command that needs the lists
		sc.vocabulary = nil
	}
	return msg(fmt.Sprintf("set %s to %v", key, val)), nil
}

func checkWordlist(wl string) error {
	if wl != config.WordlistWordle && wl != config.WordlistFrequency {
		return fmt.Errorf("wordlist must be %s or %s", config.WordlistWordle, config.WordlistFrequency)
	}
	return nil
}

func upper(words []string) []string {
	return lo.Map(words, func(w string, _ int) string {
		return strings.ToUpper(w)
	})
}
