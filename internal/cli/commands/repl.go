package commands

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

const replPrompt = "unitgrade> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &ParamOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively preview responses",
		Long: `Start an interactive session that previews every line typed. Use
.set key=value to change parameters and .eval <answer> to grade the last
response against an answer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}
	AddParamFlags(cmd, opts)
	return cmd
}

func runREPL(cmd *cobra.Command, opts *ParamOptions) error {
	cc := NewCommandContext(cmd)
	raw, err := opts.Raw()
	if err != nil {
		return err
	}
	s := &replSession{cc: cc, raw: raw}
	if _, err := s.params(); err != nil {
		return err
	}

	historyFile := ""
	if dir, err := os.UserCacheDir(); err == nil {
		historyFile = filepath.Join(dir, "unitgrade", "repl_history")
		_ = os.MkdirAll(filepath.Dir(historyFile), 0750)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "unitgrade preview REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.handle(line) {
			return nil
		}
	}
}

// replSession holds the state of one interactive session.
type replSession struct {
	cc   *CommandContext
	raw  map[string]any
	last string
}

func (s *replSession) params() (grader.Params, error) {
	return s.cc.Cfg.EvaluationParams(s.raw)
}

// handle processes one input line and reports whether to quit.
func (s *replSession) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	params, err := s.params()
	if err != nil {
		s.cc.Renderer.Error(err.Error())
		return false
	}
	p, err := s.cc.Evaluator.Preview(line, params)
	if err != nil {
		s.cc.Renderer.Error(err.Error())
		return false
	}
	s.last = line
	renderPreview(s.cc.Renderer, p)
	return false
}

func (s *replSession) dotCommand(line string) bool {
	r := s.cc.Renderer
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".params":
		if len(s.raw) == 0 {
			r.Muted("(no parameters set)")
			break
		}
		for _, k := range slices.Sorted(maps.Keys(s.raw)) {
			r.Printf("%s = %v\n", k, s.raw[k])
		}

	case ".set":
		key, value, err := ParseParam(rest)
		if err != nil {
			r.Error(err.Error())
			break
		}
		prev, had := s.raw[key]
		s.raw[key] = value
		if _, err := s.params(); err != nil {
			r.Error(err.Error())
			if had {
				s.raw[key] = prev
			} else {
				delete(s.raw, key)
			}
		}

	case ".unset":
		delete(s.raw, rest)

	case ".eval":
		if s.last == "" || rest == "" {
			r.Error("usage: .eval <answer> after previewing a response")
			break
		}
		params, err := s.params()
		if err != nil {
			r.Error(err.Error())
			break
		}
		res, err := s.cc.Evaluator.Evaluate(s.last, rest, params)
		if err != nil {
			r.Error(err.Error())
			break
		}
		renderResult(r, res)

	default:
		r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .params            Show the session parameters
  .set key=value     Set a parameter (value read as YAML)
  .unset key         Remove a parameter
  .eval <answer>     Grade the last response against an answer
  .quit / .exit      Exit the REPL

Any other line is previewed as a response.
`
	_, _ = fmt.Fprintln(w, help)
}

func replCompleter() *readline.PrefixCompleter {
	keys := []string{
		"comparison", "substitutions", "quantities", "atol", "rtol", "strict_syntax",
		"input_symbols", "elementary_functions", "complexNumbers", "specialFunctions", "is_latex",
	}
	setItems := make([]readline.PrefixCompleterInterface, len(keys))
	for i, k := range keys {
		setItems[i] = readline.PcItem(k + "=")
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".params"),
		readline.PcItem(".set", setItems...),
		readline.PcItem(".unset"),
		readline.PcItem(".eval"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
