package flags

import "github.com/ogzhanolguncu/cpgo/internal/cperr"

// Match is a token resolved against the grammar.
type Match struct {
	Spec *Spec
	// Text is the flag as the user wrote it.
	Text     string
	Value    string
	HasValue bool
}

// Match resolves the flag token at tokens[pos] and returns the position of
// the next unconsumed token. A required-argument flag without an inline
// value consumes the following token verbatim. Optional-argument flags only
// ever take inline values.
func (g *Grammar) Match(tokens []Token, pos int) (Match, int, error) {
	tok := tokens[pos]
	spec, ok := g.Lookup(tok.Name)
	// Long spellings of single-letter aliases ("--t") are not flags.
	if !ok || tok.Long && len(tok.Name) == 1 {
		return Match{}, pos, cperr.UnknownFlag(tok.Raw)
	}

	m := Match{Spec: spec, Text: tok.Raw, Value: tok.Value, HasValue: tok.HasValue}
	switch spec.Arity {
	case NoArgument:
		if tok.HasValue {
			return Match{}, pos, cperr.UnexpectedArgument(tok.Name)
		}
	case RequiredArgument:
		if !tok.HasValue {
			if pos+1 >= len(tokens) {
				return Match{}, pos, cperr.MissingArgument(tok.Name)
			}
			m.Value = tokens[pos+1].Raw
			m.HasValue = true
			return m, pos + 2, nil
		}
	}
	return m, pos + 1, nil
}
