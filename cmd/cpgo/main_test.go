package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type result struct {
	code           int
	stdout, stderr string
}

func cp(t *testing.T, env map[string]string, args ...string) result {
	t.Helper()
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	var stdout, stderr bytes.Buffer
	code := run(args, lookup, strings.NewReader(""), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestHelpAndVersion(t *testing.T) {
	r := cp(t, nil, "--help")
	require.Equal(t, 0, r.code)
	require.True(t, strings.HasPrefix(r.stdout, "Usage: cp [OPTION]... [-T] SOURCE DEST\n"))
	require.Contains(t, r.stdout, "  -b, --backup[=CONTROL]       make a backup of each existing destination file\n")
	require.Contains(t, r.stdout, "  -R, -r, --recursive")
	require.Contains(t, r.stdout, "      --sparse=WHEN")
	require.Contains(t, r.stdout, "  none, off       never make backups")

	// --version stops the scan before the unknown flag after it
	r = cp(t, nil, "-v", "--version", "--bogus")
	require.Equal(t, 0, r.code)
	require.Equal(t, "cp (cpgo) "+version+"\n", r.stdout)
}

func TestDiagnostics(t *testing.T) {
	hint := "Try 'cp --help' for more information.\n"
	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"unknown short", []string{"-q"}, "cp: invalid option -- 'q'\n" + hint},
		{"unknown long", []string{"--bogus"}, "cp: unrecognized option '--bogus'\n" + hint},
		{"no operands", nil, "cp: missing file operand\n" + hint},
		{"one operand", []string{"a"}, "cp: missing destination file operand after 'a'\n" + hint},
		{"exclusive", []string{"-b", "-n", "a", "b"}, "cp: options --backup and --no-clobber are mutually exclusive\n" + hint},
		{
			"target conflict",
			[]string{"-t", "d", "-T", "a"},
			"cp: cannot combine --target-directory (-t) and --no-target-directory (-T)\n",
		},
		{
			"ambiguous",
			[]string{"--backup=n", "a", "b"},
			"cp: ambiguous argument 'n' for '--backup'\nValid arguments are:\n  - 'none'\n  - 'numbered'\n" + hint,
		},
		{"missing argument", []string{"--sparse"}, "cp: option '--sparse' requires an argument\n" + hint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := cp(t, nil, tt.args...)
			require.Equal(t, 1, r.code)
			require.Equal(t, tt.stderr, r.stderr)
			require.Empty(t, r.stdout)
		})
	}
}

func TestInvalidEnvironment(t *testing.T) {
	r := cp(t, map[string]string{"VERSION_CONTROL": "sometimes"}, "a", "b")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "invalid argument 'sometimes' for '$VERSION_CONTROL'")

	r = cp(t, map[string]string{"CPGO_CHUNK_SIZE": "-4"}, "a", "b")
	require.Equal(t, 1, r.code)
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("data"), 0o644))
	b := filepath.Join(dir, "b")

	r := cp(t, nil, "-v", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, "'"+a+"' -> '"+b+"'\n", r.stdout)
	got, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, "data", string(got))

	// VERSION_CONTROL picks the method used by a bare -b
	r = cp(t, map[string]string{"VERSION_CONTROL": "numbered"}, "-b", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	require.FileExists(t, b+".~1~")

	r = cp(t, map[string]string{"SIMPLE_BACKUP_SUFFIX": ".orig"}, "--backup=simple", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	require.FileExists(t, b+".orig")
}

func TestExecutorFailuresAreListed(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o755))

	r := cp(t, nil, filepath.Join(dir, "x"), filepath.Join(dir, "y"), out)
	require.Equal(t, 1, r.code)
	lines := strings.Split(strings.TrimSuffix(r.stderr, "\n"), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		require.True(t, strings.HasPrefix(l, "cp: cannot stat '"), l)
	}
	require.NotContains(t, r.stderr, "Try 'cp --help'")
}

func TestDryRun(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("data"), 0o644))
	b := filepath.Join(dir, "b")

	r := cp(t, map[string]string{"CPGO_DRY_RUN": "yaml"}, a, b)
	require.Equal(t, 0, r.code, r.stderr)
	require.NoFileExists(t, b)

	var doc struct {
		Shape        string
		Instructions []struct {
			Destination string
			Action      string
			Size        int64
		}
	}
	require.NoError(t, yaml.Unmarshal([]byte(r.stdout), &doc))
	require.Equal(t, "explicit-pair", doc.Shape)
	require.Len(t, doc.Instructions, 1)
	require.Equal(t, b, doc.Instructions[0].Destination)
	require.Equal(t, "create", doc.Instructions[0].Action)
	require.Equal(t, int64(4), doc.Instructions[0].Size)

	r = cp(t, map[string]string{"CPGO_DRY_RUN": "tree"}, a, b)
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "==== DRY RUN MODE")
	require.Contains(t, r.stdout, "- b [CREATE] (4 B)")
}

func TestCompletion(t *testing.T) {
	cmd := completion()
	require.Contains(t, cmd.Flags, "backup")
	require.Contains(t, cmd.Flags, "b")
	require.Contains(t, cmd.Flags, "recursive")
	require.Contains(t, cmd.Flags["backup"].Predict(""), "numbered")
	require.Contains(t, cmd.Flags["sparse"].Predict(""), "always")
	require.Empty(t, cmd.Flags["verbose"].Predict(""))
}

func TestDebugLogging(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("data"), 0o644))
	debug := map[string]string{"CPGO_DEBUG": "1"}

	r := cp(t, debug, a, filepath.Join(dir, "b"))
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stderr, `msg="Plan ready"`)
	require.Contains(t, r.stderr, `msg="Copy completed"`)
	require.Contains(t, r.stderr, "prog=cp")

	r = cp(t, debug, filepath.Join(dir, "missing"), filepath.Join(dir, "c"))
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, `level=ERROR`)
	require.Contains(t, r.stderr, `msg="Instruction failed"`)
	require.Contains(t, r.stderr, "\ncp: cannot stat '")

	// without debugging stderr holds only the diagnostic
	r = cp(t, nil, filepath.Join(dir, "missing"), filepath.Join(dir, "c"))
	require.Equal(t, 1, r.code)
	require.True(t, strings.HasPrefix(r.stderr, "cp: cannot stat '"), r.stderr)
	require.NotContains(t, r.stderr, "level=")
}
