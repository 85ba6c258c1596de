package options

import (
	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/cperr"
	"github.com/ogzhanolguncu/cpgo/internal/flags"
)

var backupMethods = backup.Methods("--backup")

const (
	errTargetAndNoTarget = "cannot combine --target-directory (-t) and --no-target-directory (-T)"
	errMultipleTargets   = "multiple target directories specified"
)

// Apply returns s with the effect of m. Conflicts with flags applied earlier
// are reported here, so whichever of a conflicting pair comes second fails.
func Apply(s State, m flags.Match) (State, error) {
	switch m.Spec.ID {
	case flags.Archive:
		s.Dereference = DerefNever
		s.Preserve.set(AttrAll, true)
		s.RequirePreserve = true
		s.ReduceDiagnostics = true
		s.Recursive = true

	case flags.AttributesOnly:
		s.AttributesOnly = true

	case flags.Backup:
		if s.Interactive == AlwaysNo {
			return s, cperr.MutuallyExclusive("backup", "no-clobber")
		}
		s.MakeBackups = true
		if m.HasValue {
			method, err := backupMethods.Resolve(m.Value)
			if err != nil {
				return s, err
			}
			s.BackupMethod = method
		}

	case flags.Suffix:
		if s.Interactive == AlwaysNo {
			return s, cperr.MutuallyExclusive("backup", "no-clobber")
		}
		s.MakeBackups = true
		s.Suffix = backup.CleanSuffix(m.Value)

	case flags.NoClobber:
		if s.MakeBackups {
			return s, cperr.MutuallyExclusive("backup", "no-clobber")
		}
		s.Interactive = AlwaysNo

	case flags.Interactive:
		s.Interactive = AskUser

	case flags.Force:
		s.Interactive = AlwaysYes
		s.UnlinkAfterFailedOpen = true

	case flags.RemoveDestination:
		s.UnlinkBeforeOpening = true

	case flags.CopyContents:
		s.CopyContents = true

	case flags.NoDerefPreserveLinks:
		s.Dereference = DerefNever
		s.Preserve.Links = true

	case flags.DerefCommandLine:
		s.Dereference = DerefCommandLine

	case flags.Dereference:
		s.Dereference = DerefAlways

	case flags.NoDereference:
		s.Dereference = DerefNever

	case flags.Link:
		if s.SymbolicLink {
			return s, cperr.MutuallyExclusive("link", "symbolic-link")
		}
		s.HardLink = true

	case flags.SymbolicLink:
		if s.HardLink {
			return s, cperr.MutuallyExclusive("symbolic-link", "link")
		}
		s.SymbolicLink = true

	case flags.Preserve:
		s.RequirePreserve = true
		if !m.HasValue {
			s.Preserve.Mode = true
			s.Preserve.Ownership = true
			s.Preserve.Timestamps = true
			break
		}
		attrs, err := PreserveAttrs.ResolveList(m.Value)
		if err != nil {
			return s, err
		}
		for _, a := range attrs {
			s.togglePreserve(a, true)
		}

	case flags.NoPreserve:
		attrs, err := NoPreserveAttrs.ResolveList(m.Value)
		if err != nil {
			return s, err
		}
		for _, a := range attrs {
			s.togglePreserve(a, false)
		}

	case flags.Parents:
		s.Parents = true

	case flags.Recursive:
		s.Recursive = true

	case flags.Reflink:
		s.Reflink = ReflinkAlways
		if m.HasValue {
			mode, err := ReflinkModes.Resolve(m.Value)
			if err != nil {
				return s, err
			}
			s.Reflink = mode
		}

	case flags.Sparse:
		mode, err := SparseModes.Resolve(m.Value)
		if err != nil {
			return s, err
		}
		s.Sparse = mode

	case flags.StripTrailingSlashes:
		s.StripTrailingSlashes = true

	case flags.TargetDirectory:
		if s.NoTargetDirectory {
			return s, cperr.ConflictingTargetDirectory(errTargetAndNoTarget)
		}
		if s.HasTargetDirectory {
			return s, cperr.ConflictingTargetDirectory(errMultipleTargets)
		}
		s.TargetDirectory = m.Value
		s.HasTargetDirectory = true

	case flags.NoTargetDirectory:
		if s.HasTargetDirectory {
			return s, cperr.ConflictingTargetDirectory(errTargetAndNoTarget)
		}
		s.NoTargetDirectory = true

	case flags.Update:
		s.Update = UpdateOlder
		if m.HasValue {
			mode, err := UpdateModes.Resolve(m.Value)
			if err != nil {
				return s, err
			}
			s.Update = mode
		}

	case flags.Verbose:
		s.Verbose = true

	case flags.OneFileSystem:
		s.OneFileSystem = true

	case flags.Context:
		s.SetSecurityContext = true
		if m.HasValue {
			s.SecurityContext = m.Value
		}
	}
	return s, nil
}

func (s *State) togglePreserve(a Attribute, on bool) {
	s.Preserve.set(a, on)
	switch a {
	case AttrContext:
		s.RequirePreserveContext = on
	case AttrXattr:
		s.RequirePreserveXattr = on
	}
}

// Finalize applies the rules that depend on the complete flag set.
func Finalize(s State) (State, error) {
	if s.Reflink == ReflinkAlways && s.Sparse != SparseAuto {
		return s, cperr.GlobalConfigConflict("--reflink can be used only with --sparse=auto")
	}

	if s.Dereference == DerefUndefined {
		if s.Recursive && !s.HardLink {
			s.Dereference = DerefNever
		} else {
			s.Dereference = DerefAlways
		}
	}

	if s.Recursive {
		s.CopyAsRegular = true
	}

	if s.UnlinkAfterFailedOpen && (s.HardLink || s.SymbolicLink) {
		s.UnlinkBeforeOpening = true
	}

	if s.ExplicitContext() && !s.RequirePreserveContext {
		s.Preserve.Context = false
	}
	if s.Preserve.Context && s.ExplicitContext() {
		return s, cperr.GlobalConfigConflict("cannot set target context and preserve it")
	}
	return s, nil
}
