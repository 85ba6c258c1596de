package flags

import "strings"

// TokenKind tells what an elementary token is.
type TokenKind int

const (
	// TokenFlag is a single flag reference, possibly with an inline value.
	TokenFlag TokenKind = iota
	// TokenValue is a raw argument that follows a required-argument flag
	// written without an inline value.
	TokenValue
	// TokenOperand is a positional operand.
	TokenOperand
	// TokenEndOfOptions is the "--" marker.
	TokenEndOfOptions
)

// Token is one elementary argument after splitting.
type Token struct {
	Kind TokenKind
	// Raw is the text the token stands for: the whole argument for long
	// flags, values and operands, "-x" for one member of a short cluster.
	Raw string
	// Name is the flag alias without dashes.
	Name     string
	Value    string
	HasValue bool
	Long     bool
}

// Split expands args (without the program name) into elementary tokens.
//
// Long flags ("--name", "--name=value") are never split. A short cluster
// ("-dRv") yields one token per character, except that a required-argument
// flag swallows the rest of the cluster as its inline value ("-ttest").
// A required-argument flag without an inline value marks the following
// argument as its value, which is passed through unsplit. The first operand,
// or "--", ends option parsing: everything after it is an operand. A lone
// "-" is an operand.
func (g *Grammar) Split(args []string) []Token {
	tokens := make([]Token, 0, len(args))
	operands := false
	needValue := false

	for _, arg := range args {
		switch {
		case needValue:
			tokens = append(tokens, Token{Kind: TokenValue, Raw: arg})
			needValue = false
		case operands:
			tokens = append(tokens, Token{Kind: TokenOperand, Raw: arg})
		case arg == "--":
			tokens = append(tokens, Token{Kind: TokenEndOfOptions, Raw: arg})
			operands = true
		case strings.HasPrefix(arg, "--"):
			name, value, has := strings.Cut(arg[2:], "=")
			tokens = append(tokens, Token{Kind: TokenFlag, Raw: arg, Name: name, Value: value, HasValue: has, Long: true})
			if !has {
				needValue = g.requiresValue(name)
			}
		case len(arg) > 1 && arg[0] == '-':
			var last Token
			tokens, last = g.splitCluster(tokens, arg[1:])
			needValue = !last.HasValue && g.requiresValue(last.Name)
		default:
			tokens = append(tokens, Token{Kind: TokenOperand, Raw: arg})
			operands = true
		}
	}
	return tokens
}

func (g *Grammar) splitCluster(tokens []Token, cluster string) ([]Token, Token) {
	var tok Token
	for i, r := range cluster {
		name := string(r)
		tok = Token{Kind: TokenFlag, Raw: "-" + name, Name: name}
		if g.requiresValue(name) {
			if rest := cluster[i+len(name):]; rest != "" {
				tok.Value = rest
				tok.HasValue = true
			}
			return append(tokens, tok), tok
		}
		tokens = append(tokens, tok)
	}
	return tokens, tok
}

func (g *Grammar) requiresValue(alias string) bool {
	s, ok := g.Lookup(alias)
	return ok && s.Arity == RequiredArgument
}
