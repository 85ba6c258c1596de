// Package options holds the resolved cp option state and the rules that
// move it from one flag to the next.
package options

import "github.com/ogzhanolguncu/cpgo/internal/backup"

// State is the record of every resolved flag. It is a plain value: Apply
// returns a new State and never mutates its argument.
type State struct {
	Preserve               PreserveSet
	RequirePreserve        bool
	RequirePreserveContext bool
	RequirePreserveXattr   bool
	ReduceDiagnostics      bool
	AttributesOnly         bool

	MakeBackups  bool
	BackupMethod backup.Method
	Suffix       string

	Interactive           Interactive
	UnlinkAfterFailedOpen bool // --force
	UnlinkBeforeOpening   bool // --remove-destination

	Dereference  Dereference
	HardLink     bool
	SymbolicLink bool

	TargetDirectory    string
	HasTargetDirectory bool
	NoTargetDirectory  bool

	Parents              bool
	Recursive            bool
	CopyAsRegular        bool
	CopyContents         bool
	StripTrailingSlashes bool
	OneFileSystem        bool
	Verbose              bool

	Reflink ReflinkMode
	Sparse  SparseMode
	Update  UpdateMode

	SetSecurityContext bool
	SecurityContext    string
}

// Defaults carries the environment-derived defaults for a run.
type Defaults struct {
	Suffix       string
	BackupMethod backup.Method
}

// DefaultDefaults matches cp without SIMPLE_BACKUP_SUFFIX or VERSION_CONTROL.
var DefaultDefaults = Defaults{Suffix: backup.DefaultSuffix, BackupMethod: backup.Existing}

// NewState returns the state before any flag is applied.
func NewState(d Defaults) State {
	return State{
		BackupMethod: d.BackupMethod,
		Suffix:       backup.CleanSuffix(d.Suffix),
		Reflink:      ReflinkNever,
		Sparse:       SparseAuto,
		Update:       UpdateAll,
	}
}

// ExplicitContext reports whether a target security context was requested.
func (s State) ExplicitContext() bool {
	return s.SetSecurityContext || s.SecurityContext != ""
}

// EffectiveBackup returns the method to use for an overwritten destination,
// None when backups are off.
func (s State) EffectiveBackup() backup.Method {
	if !s.MakeBackups {
		return backup.None
	}
	return s.BackupMethod
}
