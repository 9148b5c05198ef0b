// Package repl implements the interactive L0 front end: a readline
// loop that reads a complete top-level form (which may span several
// input lines), macro-expands it, evaluates it, and prints the result
// with colored prompt/error/result output.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/nifc-lang/nifc/internal/l0"
	"github.com/nifc-lang/nifc/internal/value"
)

// Session bundles one arena, global environment, evaluator, and
// expander — the REPL's state across input lines, reset only when the
// caller constructs a fresh Session.
type Session struct {
	arena    *value.Arena
	env      *l0.Env
	eval     *l0.Evaluator
	expander *l0.Expander
}

// NewSession builds a Session with the primitive-procedure bootstrap
// installed in its global environment.
func NewSession() *Session {
	a := value.New()
	env := l0.NewGlobalEnv()
	l0.InstallPrimitives(a, env)
	ev := l0.NewEvaluator(a)
	return &Session{
		arena:    a,
		env:      env,
		eval:     ev,
		expander: l0.NewExpander(a, ev),
	}
}

// Eval parses, macro-expands, and evaluates one source unit, returning
// the value of its last top-level form.
func (s *Session) Eval(src string) (*value.Value, error) {
	forms, status := l0.ParseAll(s.arena, "<repl>", []byte(src))
	if status != nil {
		return nil, status
	}

	result := s.arena.Nil()
	for _, form := range forms.ListSlice() {
		expanded, err := s.expander.Expand(form, s.env)
		if err != nil {
			return nil, err
		}
		v, err := s.eval.Eval(expanded, s.env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Run starts the readline loop, enabled for colored output unless
// enableColors is false (cmd/nifc's -no-color flag).
func Run(rl *readline.Instance, enableColors bool) error {
	if !enableColors {
		color.NoColor = true
	}
	printWelcome()

	sess := NewSession()

	for {
		input, err := readCompleteForm(rl)
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				break
			}
			fmt.Fprintf(rl.Stderr(), "input error: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == "quit" || trimmed == "exit" {
			break
		}

		result, err := sess.Eval(trimmed)
		if err != nil {
			color.New(color.FgRed).Fprintf(rl.Stdout(), "error: %s\n", err)
			continue
		}
		color.New(color.FgGreen).Fprintf(rl.Stdout(), "=> %s\n", value.Repr(result))
	}

	color.New(color.FgMagenta, color.Bold).Println("Goodbye!")
	return nil
}

func printWelcome() {
	color.New(color.FgCyan, color.Bold).Println("nifc L0 REPL")
	color.New(color.FgYellow).Println("Type a form to evaluate it, or 'quit' to exit.")
	fmt.Println()
}

// readCompleteForm reads lines from rl until parentheses balance,
// respecting string literals and escapes.
func readCompleteForm(rl *readline.Instance) (string, error) {
	var lines []string
	depth := 0
	inString := false
	escaped := false
	first := true

	for {
		if first {
			rl.SetPrompt(color.New(color.FgBlue, color.Bold).Sprint("nifc> "))
			first = false
		} else {
			rl.SetPrompt(color.New(color.FgHiBlack).Sprint("...   "))
		}

		line, err := rl.Readline()
		if err != nil {
			return strings.Join(lines, "\n"), err
		}
		lines = append(lines, line)

		trimmed := strings.TrimSpace(line)
		if len(lines) == 1 && (trimmed == "quit" || trimmed == "exit") {
			return trimmed, nil
		}

		for _, ch := range line {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				if inString {
					escaped = true
				}
			case '"':
				inString = !inString
			case '(':
				if !inString {
					depth++
				}
			case ')':
				if !inString {
					depth--
				}
			}
		}

		if depth <= 0 && containsForm(strings.Join(lines, "\n")) {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}

func containsForm(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		inString := false
		for i, ch := range line {
			if ch == '"' {
				inString = !inString
			}
			if ch == ';' && !inString {
				line = line[:i]
				break
			}
		}
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
