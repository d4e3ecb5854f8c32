package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/opener/config"
)

// maxWordCompletions caps vocabulary suggestions per keypress.
const maxWordCompletions = 20

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // e.g. "-n", "-format"
	Args    []string // fixed argument values
	Words   bool     // arguments are vocabulary words
}

var commandMetadata = map[string]CommandMetadata{
	"load": {
		Options: []string{"-wordlist"},
	},
	"rank": {
		Options: []string{"-n", "-k", "-g", "-lookahead", "-threads", "-format"},
	},
	"score": {
		Options: []string{"-k", "-g", "-lookahead", "-threads"},
		Words:   true,
	},
	"entropy": {
		Words: true,
	},
	"pattern": {
		Words: true,
	},
	"guess": {
		Words: true,
	},
	"candidates": {
		Options: []string{"-n"},
	},
	"autoplay": {
		Options: []string{"-games", "-opener", "-answer", "-k", "-g", "-lookahead", "-threads"},
	},
	"set": {
		Args: settable,
	},
	"help": {
		Args: []string{"rank", "guess", "autoplay", "set", "load"},
	},
}

var commandNames = []string{
	"help", "load", "rank", "score", "entropy", "pattern", "guess",
	"candidates", "reset", "autoplay", "set", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "lookahead":
				completions = boolValues
			case "format":
				completions = []string{"text", "json", "yaml"}
			case "wordlist":
				completions = []string{config.WordlistWordle, config.WordlistFrequency}
			case "opener", "answer":
				completions = c.words(prefix)
			}
		}

		if completions == nil && cmdName == "set" && len(fields) >= 2 &&
			(endsWithSpace || len(fields) > 2) {
			switch fields[1] {
			case config.ConfigLookahead:
				completions = boolValues
			case config.ConfigWordlist:
				completions = []string{config.WordlistWordle, config.WordlistFrequency}
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				switch {
				case strings.HasPrefix(prefix, "-"):
					completions = metadata.Options
				case len(metadata.Args) > 0:
					completions = metadata.Args
				case metadata.Words:
					completions = c.words(prefix)
				default:
					completions = metadata.Options
				}
			}
		}
	}

	matches := lo.FilterMap(completions, func(completion string, _ int) ([]rune, bool) {
		if !strings.HasPrefix(strings.ToLower(completion), strings.ToLower(prefix)) {
			return nil, false
		}
		// only the part that still needs typing
		return []rune(completion[len(prefix):]), true
	})
	return matches, len(prefix)
}

func (c *ShellCompleter) words(prefix string) []string {
	if c.sc.vocabulary == nil || prefix == "" {
		return nil
	}
	return c.sc.vocabulary.Complete(strings.ToLower(prefix), maxWordCompletions)
}
