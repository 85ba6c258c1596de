package options

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/cperr"
	"github.com/ogzhanolguncu/cpgo/internal/flags"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) Result {
	t.Helper()
	res, err := Parse(args, DefaultDefaults)
	require.NoError(t, err, "args %q", args)
	return res
}

func parseErr(args ...string) error {
	_, err := Parse(args, DefaultDefaults)
	return err
}

func TestClusterEqualsSeparateFlags(t *testing.T) {
	for _, cluster := range []string{"-dRv", "-aufx", "-pinH", "-rLPT", "-bvs", "-lfZ"} {
		separate := []string{}
		for _, r := range cluster[1:] {
			separate = append(separate, "-"+string(r))
		}
		combined := parse(t, cluster, "a", "b")
		split := parse(t, append(separate, "a", "b")...)
		if diff := cmp.Diff(split, combined); diff != "" {
			t.Errorf("%s mismatch (-separate +combined):\n%s", cluster, diff)
		}
	}
}

func TestPreserveThenNoPreserve(t *testing.T) {
	for _, first := range []string{"--preserve", "--preserve=all", "--preserve=mode,ownership,links", "-p", "-a"} {
		res := parse(t, first, "--no-preserve=mode,ownership", "a", "b")
		require.False(t, res.State.Preserve.Mode, first)
		require.False(t, res.State.Preserve.Ownership, first)
	}

	res := parse(t, "--preserve=all", "--no-preserve=m,o", "a", "b")
	require.True(t, res.State.Preserve.Timestamps)
	require.True(t, res.State.Preserve.Links)
}

func TestPreserve(t *testing.T) {
	res := parse(t, "-p", "a", "b")
	require.Equal(t, PreserveSet{Mode: true, Ownership: true, Timestamps: true}, res.State.Preserve)
	require.True(t, res.State.RequirePreserve)

	res = parse(t, "--preserve=links,x", "a", "b")
	require.Equal(t, PreserveSet{Links: true, Xattr: true}, res.State.Preserve)
	require.True(t, res.State.RequirePreserveXattr)

	res = parse(t, "--preserve=all", "a", "b")
	require.True(t, res.State.Preserve.All())
	require.False(t, res.State.RequirePreserveContext)

	res = parse(t, "--no-preserve=all", "a", "b")
	require.False(t, res.State.RequirePreserve)
	require.Equal(t, PreserveSet{}, res.State.Preserve)

	err := parseErr("--preserve=mode,bogus", "a", "b")
	require.ErrorIs(t, err, cperr.ErrInvalidValue)
	var cerr *cperr.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "--preserve", cerr.Flag)
	require.Equal(t, "bogus", cerr.Input)

	require.ErrorIs(t, parseErr("--no-preserve"), cperr.ErrMissingArgument)
	require.ErrorIs(t, parseErr("--no-preserve=", "a", "b"), cperr.ErrInvalidValue)
}

func TestBackupMethodPrefixes(t *testing.T) {
	word := "existing"
	for i := 1; i <= len(word); i++ {
		res := parse(t, "--backup="+word[:i], "a", "b")
		require.True(t, res.State.MakeBackups)
		require.Equal(t, backup.Existing, res.State.BackupMethod, word[:i])
	}

	err := parseErr("--backup=n", "a", "b")
	var cerr *cperr.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, cperr.KindAmbiguousValue, cerr.Kind)
	require.Equal(t, []string{"none", "numbered"}, cerr.Candidates)

	require.ErrorIs(t, parseErr("--backup=z", "a", "b"), cperr.ErrInvalidValue)
}

func TestBackupDefaults(t *testing.T) {
	res := parse(t, "-b", "a", "b")
	require.Equal(t, backup.Existing, res.State.BackupMethod)
	require.Equal(t, "~", res.State.Suffix)
	require.Equal(t, backup.Existing, res.State.EffectiveBackup())

	res, err := Parse([]string{"-b", "a", "b"}, Defaults{Suffix: ".orig", BackupMethod: backup.Numbered})
	require.NoError(t, err)
	require.Equal(t, backup.Numbered, res.State.BackupMethod)
	require.Equal(t, ".orig", res.State.Suffix)

	// A bare -b keeps an earlier explicit method.
	res = parse(t, "--backup=simple", "-b", "a", "b")
	require.Equal(t, backup.Simple, res.State.BackupMethod)

	res = parse(t, "-S", ".bak", "a", "b")
	require.True(t, res.State.MakeBackups)
	require.Equal(t, ".bak", res.State.Suffix)

	res = parse(t, "a", "b")
	require.Equal(t, backup.None, res.State.EffectiveBackup())
}

func TestBackupNoClobberExclusive(t *testing.T) {
	for _, args := range [][]string{
		{"--backup", "-n", "--no-clobber", "a.txt", "b.txt"},
		{"-n", "--no-clobber", "--backup", "a.txt", "b.txt"},
		{"-bn", "a", "b"},
		{"-nb", "a", "b"},
		{"-n", "-S", "~", "a", "b"},
	} {
		err := parseErr(args...)
		require.ErrorIs(t, err, cperr.ErrMutuallyExclusive, "%q", args)
		require.EqualError(t, err, "options --backup and --no-clobber are mutually exclusive")
	}

	// -f replaces always-no, so a later backup is accepted.
	res := parse(t, "-n", "-f", "-b", "a", "b")
	require.Equal(t, AlwaysYes, res.State.Interactive)
	require.True(t, res.State.MakeBackups)
}

func TestInteractiveLastWins(t *testing.T) {
	require.Equal(t, AskUser, parse(t, "-n", "-i", "a", "b").State.Interactive)
	require.Equal(t, AlwaysNo, parse(t, "-i", "-n", "a", "b").State.Interactive)
	res := parse(t, "-i", "-f", "a", "b")
	require.Equal(t, AlwaysYes, res.State.Interactive)
	require.True(t, res.State.UnlinkAfterFailedOpen)
	require.Equal(t, InteractiveUnspecified, parse(t, "a", "b").State.Interactive)
}

func TestLinkModesExclusive(t *testing.T) {
	for _, args := range [][]string{{"-l", "-s"}, {"-s", "-l"}, {"-ls"}, {"--symbolic-link", "--link"}} {
		require.ErrorIs(t, parseErr(append(args, "a", "b")...), cperr.ErrMutuallyExclusive, "%q", args)
	}
}

func TestTargetDirectoryConflicts(t *testing.T) {
	err := parseErr("-t", "d1", "-t", "d2", "a")
	var cerr *cperr.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, cperr.KindConflictingTargetDirectory, cerr.Kind)
	require.Contains(t, err.Error(), "multiple target directories")

	for _, args := range [][]string{{"-t", "d", "-T"}, {"-T", "-t", "d"}, {"-Ttd"}} {
		err := parseErr(append(args, "a")...)
		require.ErrorIs(t, err, cperr.ErrConflictingTargetDirectory, "%q", args)
		require.Contains(t, err.Error(), "--no-target-directory (-T)")
	}

	res := parse(t, "-ttest", "a")
	require.True(t, res.State.HasTargetDirectory)
	require.Equal(t, "test", res.State.TargetDirectory)
	require.Equal(t, []string{"a"}, res.Operands)
}

func TestArchive(t *testing.T) {
	s := parse(t, "-a", "a", "b").State
	require.True(t, s.Preserve.All())
	require.True(t, s.RequirePreserve)
	require.True(t, s.ReduceDiagnostics)
	require.True(t, s.Recursive)
	require.True(t, s.CopyAsRegular)
	require.Equal(t, DerefNever, s.Dereference)

	// -L after -a wins.
	require.Equal(t, DerefAlways, parse(t, "-a", "-L", "a", "b").State.Dereference)
}

func TestDereferenceDefaults(t *testing.T) {
	require.Equal(t, DerefAlways, parse(t, "a", "b").State.Dereference)
	require.Equal(t, DerefNever, parse(t, "-r", "a", "b").State.Dereference)
	require.Equal(t, DerefAlways, parse(t, "-rl", "a", "b").State.Dereference)
	require.Equal(t, DerefCommandLine, parse(t, "-rH", "a", "b").State.Dereference)

	s := parse(t, "-d", "a", "b").State
	require.Equal(t, DerefNever, s.Dereference)
	require.True(t, s.Preserve.Links)
}

func TestReflinkSparse(t *testing.T) {
	require.Equal(t, ReflinkAlways, parse(t, "--reflink", "a", "b").State.Reflink)
	require.Equal(t, ReflinkAuto, parse(t, "--reflink=au", "a", "b").State.Reflink)
	require.Equal(t, ReflinkNever, parse(t, "a", "b").State.Reflink)
	require.ErrorIs(t, parseErr("--reflink=a", "a", "b"), cperr.ErrAmbiguousValue)
	require.Equal(t, SparseNever, parse(t, "--sparse=n", "a", "b").State.Sparse)
	require.ErrorIs(t, parseErr("--sparse", "q", "b"), cperr.ErrInvalidValue)
	require.ErrorIs(t, parseErr("--sparse"), cperr.ErrMissingArgument)

	err := parseErr("--reflink", "--sparse=always", "a", "b")
	require.ErrorIs(t, err, cperr.ErrGlobalConfigConflict)

	// Checked after the scan, so order does not matter.
	require.ErrorIs(t, parseErr("--sparse=never", "--reflink=always", "a", "b"), cperr.ErrGlobalConfigConflict)
	parse(t, "--reflink=auto", "--sparse=never", "a", "b")
}

func TestPostScanRules(t *testing.T) {
	s := parse(t, "-f", "-s", "a", "b").State
	require.True(t, s.UnlinkBeforeOpening)
	require.False(t, parse(t, "-f", "a", "b").State.UnlinkBeforeOpening)
	require.True(t, parse(t, "--remove-destination", "a", "b").State.UnlinkBeforeOpening)

	s = parse(t, "-a", "-Z", "a", "b").State
	require.False(t, s.Preserve.Context)
	require.True(t, s.Preserve.Xattr)

	s = parse(t, "--context=system_u:object_r:tmp_t", "--preserve=all", "a", "b").State
	require.False(t, s.Preserve.Context)
	require.Equal(t, "system_u:object_r:tmp_t", s.SecurityContext)

	err := parseErr("--preserve=context", "-Z", "a", "b")
	require.ErrorIs(t, err, cperr.ErrGlobalConfigConflict)
	require.EqualError(t, err, "cannot set target context and preserve it")
}

func TestUpdate(t *testing.T) {
	require.Equal(t, UpdateAll, parse(t, "a", "b").State.Update)
	require.Equal(t, UpdateOlder, parse(t, "-u", "a", "b").State.Update)
	require.Equal(t, UpdateNone, parse(t, "--update=none", "a", "b").State.Update)
	require.Equal(t, UpdateNoneFail, parse(t, "--update=none-", "a", "b").State.Update)
	require.ErrorIs(t, parseErr("--update=no", "a", "b"), cperr.ErrAmbiguousValue)
}

func TestOutcomes(t *testing.T) {
	res := parse(t, "-v", "--help", "--bogus")
	require.Equal(t, HelpRequested, res.Outcome)

	res = parse(t, "--version")
	require.Equal(t, VersionRequested, res.Outcome)

	// Errors before --help abort first.
	require.ErrorIs(t, parseErr("--bogus", "--help"), cperr.ErrUnknownFlag)

	// --help after an operand is an operand.
	res = parse(t, "a", "--help")
	require.Equal(t, Run, res.Outcome)
	require.Equal(t, []string{"a", "--help"}, res.Operands)
}

func TestOperands(t *testing.T) {
	res := parse(t, "-v", "--", "-r", "b")
	require.False(t, res.State.Recursive)
	require.Equal(t, []string{"-r", "b"}, res.Operands)

	res = parse(t, "-S", "-v", "a")
	require.False(t, res.State.Verbose)
	require.Equal(t, "-v", res.State.Suffix)
	require.Equal(t, []string{"a"}, res.Operands)

	res = parse(t)
	require.Empty(t, res.Operands)
}

func TestApplyIsPure(t *testing.T) {
	spec, ok := flags.CP.Lookup("a")
	require.True(t, ok)
	before := NewState(DefaultDefaults)
	after, err := Apply(before, flags.Match{Spec: spec, Text: "-a"})
	require.NoError(t, err)
	require.False(t, before.Recursive)
	require.True(t, after.Recursive)
}

func TestUnknownFlagMessage(t *testing.T) {
	err := parseErr("-vq", "a", "b")
	require.ErrorIs(t, err, cperr.ErrUnknownFlag)
	require.True(t, strings.HasSuffix(err.Error(), "'q'"))
}
