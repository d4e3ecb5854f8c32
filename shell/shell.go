package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/opener/config"
	"github.com/domino14/opener/lexicon"
	"github.com/domino14/opener/pattern"
	"github.com/domino14/opener/ranker"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quit")
)

// aliases maps short command names to the commands they stand for.
var aliases = map[string]string{
	"r":   "rank",
	"g":   "guess",
	"c":   "candidates",
	"pat": "pattern",
	"bye": "exit",
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// turn is one guess entered with its feedback.
type turn struct {
	guess    string
	feedback pattern.Pattern
}

type ShellController struct {
	l        *readline.Instance
	out      io.Writer
	config   *config.Config
	execPath string
	version  string

	ctx    context.Context
	cancel context.CancelFunc

	ranker     *ranker.Ranker
	vocabulary *lexicon.Vocabulary
	answers    []string
	weights    lexicon.Weights
	candidates []string
	history    []turn
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func newController(cfg *config.Config, execPath, version string, out io.Writer) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{
		out:      out,
		config:   cfg,
		execPath: execPath,
		version:  version,
		ctx:      ctx,
		cancel:   cancel,
		ranker:   ranker.NewFromConfig(cfg),
	}
}

func NewShellController(cfg *config.Config, execPath, version string) *ShellController {
	sc := newController(cfg, execPath, version, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mopener>\033[0m ",
		HistoryFile:     "/tmp/opener-readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

// extractFields splits line into a command, its arguments and its options.
// A field is an option only if it names one of the command's options, so
// feedback such as -~+~+ stays an argument.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	if full, ok := aliases[cmd]; ok {
		cmd = full
	}
	var args []string
	options := CmdOptions{}
	known := commandMetadata[cmd].Options
	for i := 1; i < len(fields); i++ {
		if lo.Contains(known, fields[i]) {
			if i+1 == len(fields) {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "load":
		return sc.load(cmd)
	case "rank":
		return sc.rank(cmd)
	case "score":
		return sc.score(cmd)
	case "entropy":
		return sc.entropy(cmd)
	case "pattern":
		return sc.pattern(cmd)
	case "guess":
		return sc.guess(cmd)
	case "candidates":
		return sc.listCandidates(cmd)
	case "reset":
		return sc.reset(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "set":
		return sc.set(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line and prints its result.
func (sc *ShellController) Execute(sig chan os.Signal, line string) error {
	resp, err := sc.standardModeSwitch(line, sig)
	if err == errQuit {
		return err
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := sc.Execute(sig, line); err != nil {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any ranking still running.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	log.Debug().Msg("shell cleaned up")
}
