package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/opener/lookahead"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigAnswerPruneK), lookahead.DefaultAnswerPruneK)
	is.Equal(c.GetInt(ConfigGuessPruneG), lookahead.DefaultGuessPruneG)
	is.Equal(c.GetBool(ConfigLookahead), true)
	is.Equal(c.GetString(ConfigWordlist), WordlistWordle)
	is.True(c.GetInt(ConfigThreads) >= 1)
}

func TestLoadFlagsAndCommand(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--top-n", "3", "--lookahead=false", "rank", "-n", "5"})
	is.NoErr(err)
	is.Equal(c.GetInt(ConfigTopN), 3)
	is.Equal(c.GetBool(ConfigLookahead), false)
	is.Equal(c.Args(), []string{"rank", "-n", "5"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("OPENER_GUESS_PRUNE_G", "7")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt(ConfigGuessPruneG), 7)
	is.Equal(len(c.Args()), 0)
}

func TestFlagBeatsEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("OPENER_ANSWER_PRUNE_K", "7")
	c := &Config{}
	is.NoErr(c.Load([]string{"--answer-prune-k", "9"}))
	is.Equal(c.GetInt(ConfigAnswerPruneK), 9)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	c.Set(ConfigWordsPath, "/abs/words.txt")
	c.AdjustRelativePaths("/opt/opener")
	is.Equal(c.GetString(ConfigDataPath), filepath.Join("/opt/opener", "data"))
	is.Equal(c.GetString(ConfigWordsPath), "/abs/words.txt")
	is.Equal(c.GetString(ConfigWeightsPath), "")
}
