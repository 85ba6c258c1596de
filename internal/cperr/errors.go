// Package cperr defines the errors produced while parsing a cp command line
// and resolving its operands into a copy plan.
package cperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknownFlag Kind = iota
	KindMissingArgument
	KindUnexpectedArgument
	KindAmbiguousValue
	KindInvalidValue
	KindMutuallyExclusive
	KindConflictingTargetDirectory
	KindMissingDestinationOperand
	KindExtraOperand
	KindTargetNotADirectory
	KindParentsWithoutDirectory
	KindPathAccess
	KindGlobalConfigConflict
)

var (
	ErrUnknownFlag                = errors.New("cp: unrecognized option")
	ErrMissingArgument            = errors.New("cp: option requires an argument")
	ErrUnexpectedArgument         = errors.New("cp: option doesn't allow an argument")
	ErrAmbiguousValue             = errors.New("cp: ambiguous argument")
	ErrInvalidValue               = errors.New("cp: invalid argument")
	ErrMutuallyExclusive          = errors.New("cp: mutually exclusive options")
	ErrConflictingTargetDirectory = errors.New("cp: conflicting target directory options")
	ErrMissingDestinationOperand  = errors.New("cp: missing destination operand")
	ErrExtraOperand               = errors.New("cp: extra operand")
	ErrTargetNotADirectory        = errors.New("cp: target is not a directory")
	ErrParentsWithoutDirectory    = errors.New("cp: --parents needs a directory destination")
	ErrPathAccess                 = errors.New("cp: failed to access path")
	ErrGlobalConfigConflict       = errors.New("cp: conflicting configuration")
)

var sentinels = map[Kind]error{
	KindUnknownFlag:                ErrUnknownFlag,
	KindMissingArgument:            ErrMissingArgument,
	KindUnexpectedArgument:         ErrUnexpectedArgument,
	KindAmbiguousValue:             ErrAmbiguousValue,
	KindInvalidValue:               ErrInvalidValue,
	KindMutuallyExclusive:          ErrMutuallyExclusive,
	KindConflictingTargetDirectory: ErrConflictingTargetDirectory,
	KindMissingDestinationOperand:  ErrMissingDestinationOperand,
	KindExtraOperand:               ErrExtraOperand,
	KindTargetNotADirectory:        ErrTargetNotADirectory,
	KindParentsWithoutDirectory:    ErrParentsWithoutDirectory,
	KindPathAccess:                 ErrPathAccess,
	KindGlobalConfigConflict:       ErrGlobalConfigConflict,
}

// Error is a structured parse or plan error. Only the fields relevant to
// Kind are populated.
type Error struct {
	Kind Kind
	// Flag is the flag the error is about, as written by the user for grammar
	// errors and as its canonical long name otherwise.
	Flag string
	// Other is the second flag of a mutually exclusive pair.
	Other string
	// Input is the offending value.
	Input string
	// Candidates lists the variants an ambiguous value could denote, or the
	// allowed values for an invalid one.
	Candidates []string
	// Operand is the offending positional operand or path.
	Operand string
	// Reason is free-form detail for conflicts.
	Reason string
	// Err is the underlying OS error for path access failures.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknownFlag:
		if strings.HasPrefix(e.Flag, "--") {
			return fmt.Sprintf("unrecognized option '%s'", e.Flag)
		}
		return fmt.Sprintf("invalid option -- '%s'", strings.TrimPrefix(e.Flag, "-"))
	case KindMissingArgument:
		if len(e.Flag) > 1 {
			return fmt.Sprintf("option '--%s' requires an argument", e.Flag)
		}
		return fmt.Sprintf("option requires an argument -- '%s'", e.Flag)
	case KindUnexpectedArgument:
		return fmt.Sprintf("option '--%s' doesn't allow an argument", e.Flag)
	case KindAmbiguousValue:
		return fmt.Sprintf("ambiguous argument '%s' for '%s'\nValid arguments are:\n%s",
			e.Input, e.Flag, bulletList(e.Candidates))
	case KindInvalidValue:
		return fmt.Sprintf("invalid argument '%s' for '%s'\nValid arguments are:\n%s",
			e.Input, e.Flag, bulletList(e.Candidates))
	case KindMutuallyExclusive:
		return fmt.Sprintf("options --%s and --%s are mutually exclusive", e.Flag, e.Other)
	case KindConflictingTargetDirectory:
		return e.Reason
	case KindMissingDestinationOperand:
		if e.Operand == "" {
			return "missing file operand"
		}
		return fmt.Sprintf("missing destination file operand after '%s'", e.Operand)
	case KindExtraOperand:
		return fmt.Sprintf("extra operand '%s'", e.Operand)
	case KindTargetNotADirectory:
		return fmt.Sprintf("target '%s' is not a directory", e.Operand)
	case KindParentsWithoutDirectory:
		return "with --parents, the destination must be a directory"
	case KindPathAccess:
		return fmt.Sprintf("failed to access '%s': %v", e.Operand, e.Err)
	case KindGlobalConfigConflict:
		return e.Reason
	}
	return "unknown error"
}

// Is makes errors.Is match the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Hint reports whether a "Try 'cp --help'" line should follow the
// diagnostic.
func (e *Error) Hint() bool {
	switch e.Kind {
	case KindConflictingTargetDirectory, KindPathAccess, KindTargetNotADirectory:
		return false
	}
	return true
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  - '%s'", it)
	}
	return b.String()
}

// UnknownFlag reports a flag token the grammar does not know.
func UnknownFlag(token string) error { return &Error{Kind: KindUnknownFlag, Flag: token} }

// MissingArgument reports a required-argument flag at the end of argv.
func MissingArgument(flag string) error {
	return &Error{Kind: KindMissingArgument, Flag: flag}
}

// UnexpectedArgument reports an inline value given to a no-argument flag.
func UnexpectedArgument(flag string) error {
	return &Error{Kind: KindUnexpectedArgument, Flag: flag}
}

// AmbiguousValue reports a value prefix that selects more than one variant.
func AmbiguousValue(flag, input string, candidates []string) error {
	return &Error{Kind: KindAmbiguousValue, Flag: flag, Input: input, Candidates: candidates}
}

// InvalidValue reports a value that selects no variant.
func InvalidValue(flag, input string, allowed []string) error {
	return &Error{Kind: KindInvalidValue, Flag: flag, Input: input, Candidates: allowed}
}

// MutuallyExclusive reports flag a given after the conflicting flag b.
func MutuallyExclusive(a, b string) error {
	return &Error{Kind: KindMutuallyExclusive, Flag: a, Other: b}
}

// ConflictingTargetDirectory reports a -t/-T conflict or a repeated -t.
func ConflictingTargetDirectory(reason string) error {
	return &Error{Kind: KindConflictingTargetDirectory, Reason: reason}
}

// MissingDestinationOperand reports too few operands. after is empty when
// there are none.
func MissingDestinationOperand(after string) error {
	return &Error{Kind: KindMissingDestinationOperand, Operand: after}
}

// ExtraOperand reports an operand beyond the destination under -T.
func ExtraOperand(operand string) error { return &Error{Kind: KindExtraOperand, Operand: operand} }

// TargetNotADirectory reports several sources with a non-directory target.
func TargetNotADirectory(target string) error {
	return &Error{Kind: KindTargetNotADirectory, Operand: target}
}

// ParentsWithoutDirectory reports --parents with a non-directory target.
func ParentsWithoutDirectory() error { return &Error{Kind: KindParentsWithoutDirectory} }

// PathAccess reports a failure to inspect path.
func PathAccess(path string, err error) error {
	return &Error{Kind: KindPathAccess, Operand: path, Err: err}
}

// GlobalConfigConflict reports a conflict found after the whole scan.
func GlobalConfigConflict(reason string) error {
	return &Error{Kind: KindGlobalConfigConflict, Reason: reason}
}
