// Package flags holds the cp flag grammar and turns raw arguments into
// matched flags.
package flags

import "fmt"

// Arity describes whether a flag takes a value.
type Arity int

const (
	NoArgument Arity = iota
	OptionalArgument
	RequiredArgument
)

// ID names a flag independently of its spellings.
type ID int

const (
	Archive ID = iota
	AttributesOnly
	Backup
	CopyContents
	NoDerefPreserveLinks // -d
	Force
	DerefCommandLine // -H
	Interactive
	Link
	Dereference
	NoClobber
	NoDereference
	Preserve
	NoPreserve
	Parents
	Recursive
	Reflink
	RemoveDestination
	Sparse
	StripTrailingSlashes
	SymbolicLink
	Suffix
	TargetDirectory
	NoTargetDirectory
	Update
	Verbose
	OneFileSystem
	Context
	Help
	Version
)

// Spec is the static description of one flag: every alias that denotes it
// and its arity. Single-character aliases are short flags.
type Spec struct {
	ID      ID
	Aliases []string
	Arity   Arity
	// Usage is the one-line help text; Value names the argument, if any.
	Usage string
	Value string
}

// Name returns the canonical (longest) alias, used in diagnostics.
func (s *Spec) Name() string {
	name := s.Aliases[0]
	for _, a := range s.Aliases[1:] {
		if len(a) > len(name) {
			name = a
		}
	}
	return name
}

// Short returns the single-character alias, or "" if there is none.
func (s *Spec) Short() string {
	for _, a := range s.Aliases {
		if len(a) == 1 {
			return a
		}
	}
	return ""
}

// Long returns every multi-character alias.
func (s *Spec) Long() []string {
	var long []string
	for _, a := range s.Aliases {
		if len(a) > 1 {
			long = append(long, a)
		}
	}
	return long
}

// Grammar is an immutable alias lookup table built once per process.
type Grammar struct {
	specs   []*Spec
	byAlias map[string]*Spec
}

// NewGrammar indexes specs by alias. Duplicate aliases are a programming
// error and panic.
func NewGrammar(specs []Spec) *Grammar {
	g := &Grammar{byAlias: make(map[string]*Spec)}
	for i := range specs {
		s := &specs[i]
		g.specs = append(g.specs, s)
		for _, a := range s.Aliases {
			if _, dup := g.byAlias[a]; dup {
				panic(fmt.Sprintf("flags: duplicate alias %q", a))
			}
			g.byAlias[a] = s
		}
	}
	return g
}

// Lookup returns the spec for alias, without leading dashes.
func (g *Grammar) Lookup(alias string) (*Spec, bool) {
	s, ok := g.byAlias[alias]
	return s, ok
}

// Specs returns the table in declaration order.
func (g *Grammar) Specs() []*Spec {
	return g.specs
}

// CP is the cp grammar.
var CP = NewGrammar([]Spec{
	{ID: Archive, Aliases: []string{"a", "archive"}, Usage: "same as -dR --preserve=all"},
	{ID: AttributesOnly, Aliases: []string{"attributes-only"}, Usage: "don't copy the file data, just the attributes"},
	{ID: Backup, Aliases: []string{"b", "backup"}, Arity: OptionalArgument, Value: "CONTROL", Usage: "make a backup of each existing destination file"},
	{ID: CopyContents, Aliases: []string{"copy-contents"}, Usage: "copy contents of special files when recursive"},
	{ID: NoDerefPreserveLinks, Aliases: []string{"d"}, Usage: "same as --no-dereference --preserve=links"},
	{ID: Force, Aliases: []string{"f", "force"}, Usage: "if an existing destination file cannot be opened, remove it and try again"},
	{ID: DerefCommandLine, Aliases: []string{"H"}, Usage: "follow command-line symbolic links in SOURCE"},
	{ID: Interactive, Aliases: []string{"i", "interactive"}, Usage: "prompt before overwrite"},
	{ID: Link, Aliases: []string{"l", "link"}, Usage: "hard link files instead of copying"},
	{ID: Dereference, Aliases: []string{"L", "dereference"}, Usage: "always follow symbolic links in SOURCE"},
	{ID: NoClobber, Aliases: []string{"n", "no-clobber"}, Usage: "do not overwrite an existing file"},
	{ID: NoDereference, Aliases: []string{"P", "no-dereference"}, Usage: "never follow symbolic links in SOURCE"},
	{ID: Preserve, Aliases: []string{"p", "preserve"}, Arity: OptionalArgument, Value: "ATTR_LIST", Usage: "preserve the specified attributes (default: mode,ownership,timestamps)"},
	{ID: NoPreserve, Aliases: []string{"no-preserve"}, Arity: RequiredArgument, Value: "ATTR_LIST", Usage: "don't preserve the specified attributes"},
	{ID: Parents, Aliases: []string{"parents"}, Usage: "use full source file name under DIRECTORY"},
	{ID: Recursive, Aliases: []string{"R", "r", "recursive"}, Usage: "copy directories recursively"},
	{ID: Reflink, Aliases: []string{"reflink"}, Arity: OptionalArgument, Value: "WHEN", Usage: "control clone/CoW copies"},
	{ID: RemoveDestination, Aliases: []string{"remove-destination"}, Usage: "remove each existing destination file before attempting to open it"},
	{ID: Sparse, Aliases: []string{"sparse"}, Arity: RequiredArgument, Value: "WHEN", Usage: "control creation of sparse files"},
	{ID: StripTrailingSlashes, Aliases: []string{"strip-trailing-slashes"}, Usage: "remove any trailing slashes from each SOURCE argument"},
	{ID: SymbolicLink, Aliases: []string{"s", "symbolic-link"}, Usage: "make symbolic links instead of copying"},
	{ID: Suffix, Aliases: []string{"S", "suffix"}, Arity: RequiredArgument, Value: "SUFFIX", Usage: "override the usual backup suffix"},
	{ID: TargetDirectory, Aliases: []string{"t", "target-directory"}, Arity: RequiredArgument, Value: "DIRECTORY", Usage: "copy all SOURCE arguments into DIRECTORY"},
	{ID: NoTargetDirectory, Aliases: []string{"T", "no-target-directory"}, Usage: "treat DEST as a normal file"},
	{ID: Update, Aliases: []string{"u", "update"}, Arity: OptionalArgument, Value: "UPDATE", Usage: "control which existing files are updated (default: older)"},
	{ID: Verbose, Aliases: []string{"v", "verbose"}, Usage: "explain what is being done"},
	{ID: OneFileSystem, Aliases: []string{"x", "one-file-system"}, Usage: "stay on this file system"},
	{ID: Context, Aliases: []string{"Z", "context"}, Arity: OptionalArgument, Value: "CTX", Usage: "set security context of destination file to default type, or to CTX"},
	{ID: Help, Aliases: []string{"help"}, Usage: "display this help and exit"},
	{ID: Version, Aliases: []string{"version"}, Usage: "output version information and exit"},
})
