package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/opener/lookahead"
)

const (
	ConfigDataPath            = "data-path"
	ConfigWordsPath           = "words-path"
	ConfigWeightsPath         = "weights-path"
	ConfigWordlist            = "wordlist"
	ConfigTopN                = "top-n"
	ConfigAnswerPruneK        = "answer-prune-k"
	ConfigGuessPruneG         = "guess-prune-g"
	ConfigLookahead           = "lookahead"
	ConfigThreads             = "threads"
	ConfigCacheMemoryFraction = "cache-memory-fraction"
	ConfigMaxGuesses          = "max-guesses"
	ConfigDebug               = "debug"
	ConfigCPUProfile          = "cpu-profile"
)

// Answer sources for the wordlist setting.
const (
	// WordlistWordle treats every vocabulary word as an equally likely answer.
	WordlistWordle = "wordle"
	// WordlistFrequency keeps vocabulary words found in the frequency table
	// and weights them by it.
	WordlistFrequency = "frequency"
)

type Config struct {
	*viper.Viper
	args []string
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigWordsPath, "")
	c.SetDefault(ConfigWeightsPath, "")
	c.SetDefault(ConfigWordlist, WordlistWordle)
	c.SetDefault(ConfigTopN, 10)
	c.SetDefault(ConfigAnswerPruneK, lookahead.DefaultAnswerPruneK)
	c.SetDefault(ConfigGuessPruneG, lookahead.DefaultGuessPruneG)
	c.SetDefault(ConfigLookahead, true)
	c.SetDefault(ConfigThreads, runtime.NumCPU())
	c.SetDefault(ConfigCacheMemoryFraction, 0.05)
	c.SetDefault(ConfigMaxGuesses, 6)
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigCPUProfile, "")
}

// Load reads settings from, in increasing priority: defaults, an optional
// opener.yaml in the working directory, OPENER_* environment variables,
// and args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	c.SetEnvPrefix("opener")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("opener")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	fs := pflag.NewFlagSet("opener", pflag.ContinueOnError)
	// Flags stop at the first positional argument; the rest is a command.
	fs.SetInterspersed(false)
	fs.String(ConfigDataPath, c.GetString(ConfigDataPath), "directory holding word lists")
	fs.String(ConfigWordsPath, c.GetString(ConfigWordsPath), "guess vocabulary file; latest wordle-words-*.txt in data-path if empty")
	fs.String(ConfigWeightsPath, c.GetString(ConfigWeightsPath), "word frequency CSV; latest words-frequencies-*.csv in data-path if empty")
	fs.String(ConfigWordlist, c.GetString(ConfigWordlist), "answer source: wordle (uniform) or frequency (weighted)")
	fs.Int(ConfigTopN, c.GetInt(ConfigTopN), "number of guesses to show")
	fs.Int(ConfigAnswerPruneK, c.GetInt(ConfigAnswerPruneK), "answers kept per feedback group in the lookahead")
	fs.Int(ConfigGuessPruneG, c.GetInt(ConfigGuessPruneG), "second guesses tried in the lookahead")
	fs.Bool(ConfigLookahead, c.GetBool(ConfigLookahead), "add the best second-guess entropy to each score")
	fs.Int(ConfigThreads, c.GetInt(ConfigThreads), "scoring goroutines")
	fs.Float64(ConfigCacheMemoryFraction, c.GetFloat64(ConfigCacheMemoryFraction), "fraction of system memory for the score cache")
	fs.Int(ConfigMaxGuesses, c.GetInt(ConfigMaxGuesses), "guesses allowed per puzzle in autoplay")
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging")
	fs.String(ConfigCPUProfile, c.GetString(ConfigCPUProfile), "write a CPU profile to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	return c.BindPFlags(fs)
}

// Args returns the positional arguments left after flag parsing, which
// the shell runs as a single command.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative data paths relative to basePath.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{ConfigDataPath, ConfigWordsPath, ConfigWeightsPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basePath, p))
	}
}

// SanitizedSettings returns all settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
