package options

import (
	"github.com/ogzhanolguncu/cpgo/internal/flags"
	"github.com/ogzhanolguncu/cpgo/internal/logger"
)

// Outcome is how a successful parse ends.
type Outcome int

const (
	Run Outcome = iota
	HelpRequested
	VersionRequested
)

// Result is a finished parse. State is final only when Outcome is Run.
type Result struct {
	Outcome  Outcome
	State    State
	Operands []string
}

// Parse scans args (without the program name) against the cp grammar.
func Parse(args []string, d Defaults) (Result, error) {
	return ParseGrammar(flags.CP, args, d)
}

// ParseGrammar folds the tokens of args into a State, strictly left to
// right. Flags are read until the first operand or "--"; everything after
// that is an operand. Any error aborts the whole scan.
func ParseGrammar(g *flags.Grammar, args []string, d Defaults) (Result, error) {
	op := "Parse"
	tokens := g.Split(args)
	s := NewState(d)

	pos := 0
	for pos < len(tokens) {
		tok := tokens[pos]
		if tok.Kind == flags.TokenEndOfOptions {
			pos++
			break
		}
		if tok.Kind != flags.TokenFlag {
			break
		}

		m, next, err := g.Match(tokens, pos)
		if err != nil {
			return Result{}, err
		}
		switch m.Spec.ID {
		case flags.Help:
			return Result{Outcome: HelpRequested}, nil
		case flags.Version:
			return Result{Outcome: VersionRequested}, nil
		}

		s, err = Apply(s, m)
		if err != nil {
			return Result{}, err
		}
		logger.Debug("applied flag", "operation", op, "flag", m.Spec.Name(), "value", m.Value)
		pos = next
	}

	operands := make([]string, 0, len(tokens)-pos)
	for _, tok := range tokens[pos:] {
		operands = append(operands, tok.Raw)
	}

	s, err := Finalize(s)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: Run, State: s, Operands: operands}, nil
}
