package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/hashicorp/go-multierror"

	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/config"
	"github.com/ogzhanolguncu/cpgo/internal/logger"
	"github.com/ogzhanolguncu/cpgo/internal/options"
	"github.com/ogzhanolguncu/cpgo/internal/plan"
)

// Executor carries out the instructions of a plan on the local filesystem.
// It is not safe for concurrent use.
type Executor struct {
	chunkSize int64
	checksum  bool
	out       io.Writer
	prompt    Prompter
	lister    backup.Lister
	// created holds every destination written by this run
	created map[string]struct{}
}

// NewExecutor returns an Executor that prints --verbose lines to out and
// asks prompt before overwriting under --interactive.
func NewExecutor(cfg *config.Config, out io.Writer, prompt Prompter) *Executor {
	if out == nil {
		out = io.Discard
	}
	if prompt == nil {
		prompt = denyAll{}
	}
	return &Executor{
		chunkSize: cfg.ChunkSize,
		checksum:  cfg.Checksum,
		out:       out,
		prompt:    prompt,
		lister:    backup.OSLister{},
		created:   make(map[string]struct{}),
	}
}

// job is one source/destination pair, either from the plan or found while
// descending into a directory.
type job struct {
	src, dst string
	// shown is the source name printed by --verbose
	shown       string
	backupName  string
	commandLine bool
	// dev is the device of the top-level directory, for --one-file-system
	dev uint64
}

// Run applies every instruction in order. A failed instruction does not
// stop the ones after it; all failures are returned together.
func (e *Executor) Run(pl plan.Plan) error {
	var result *multierror.Error
	for _, in := range pl.Instructions {
		if err := e.Apply(in); err != nil {
			logger.Error("Instruction failed", "operation", "Run", "source", in.Source, "destination", in.Destination, "error", err)
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Apply carries out one instruction.
func (e *Executor) Apply(in plan.Instruction) error {
	op := "Apply"
	j := job{src: in.Source, dst: in.Destination, shown: in.Source, commandLine: true}

	if in.RequiresPreBackup {
		name, err := backup.Name(in.Destination, in.Backup, in.Suffix, e.lister)
		if err != nil {
			return err
		}
		if err := os.Rename(in.Destination, name); err != nil {
			return failf(ErrBackup, "cannot backup '%s': %v", in.Destination, err)
		}
		logger.Debug("Moved destination aside before copy", "operation", op, "destination", in.Destination, "backup", name)
		j.src = name
		j.backupName = name
		in.Backup = backup.None
	}

	if in.Options.Parents {
		if err := os.MkdirAll(filepath.Dir(in.Destination), 0o755); err != nil {
			return failf(ErrMkDir, "cannot make directory '%s': %v", filepath.Dir(in.Destination), err)
		}
	}
	return e.copy(j, in)
}

func (e *Executor) copy(j job, in plan.Instruction) error {
	o := in.Options
	srcInfo, err := statSource(j.src, o.Dereference, j.commandLine)
	if err != nil {
		return failf(ErrStat, "cannot stat '%s': %v", j.src, err)
	}

	dstInfo, err := os.Lstat(j.dst)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return failf(ErrStat, "cannot stat '%s': %v", j.dst, err)
	}

	if srcInfo.IsDir() {
		if !o.Recursive {
			return failf(ErrSkipped, "-r not specified; omitting directory '%s'", j.src)
		}
		return e.copyDir(j, srcInfo, dstInfo, in)
	}

	if exists {
		if _, ok := e.created[j.dst]; ok {
			return failf(ErrNotReplaced, "will not overwrite just-created '%s' with '%s'", j.dst, j.shown)
		}
		if dstInfo.IsDir() {
			return failf(ErrNotReplaced, "cannot overwrite directory '%s' with non-directory", j.dst)
		}
		if !o.HardLink && !o.SymbolicLink && sameFile(srcInfo, j.dst) {
			return failf(ErrSameFile, "'%s' and '%s' are the same file", j.shown, j.dst)
		}
		proceed, stillExists, err := e.clearDestination(&j, srcInfo, dstInfo, in)
		if err != nil || !proceed {
			return err
		}
		exists = stillExists
	}

	switch {
	case o.SymbolicLink:
		if exists {
			return failf(ErrLink, "cannot create symbolic link '%s': %v", j.dst, fs.ErrExist)
		}
		if err := renameio.Symlink(j.src, j.dst); err != nil {
			return failf(ErrLink, "cannot create symbolic link '%s': %v", j.dst, err)
		}
	case o.HardLink:
		if exists {
			return failf(ErrLink, "cannot create hard link '%s' to '%s': %v", j.dst, j.src, fs.ErrExist)
		}
		if err := os.Link(j.src, j.dst); err != nil {
			return failf(ErrLink, "cannot create hard link '%s' to '%s': %v", j.dst, j.src, err)
		}
	case srcInfo.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(j.src)
		if err != nil {
			return failf(ErrRead, "cannot read symbolic link '%s': %v", j.src, err)
		}
		if err := renameio.Symlink(target, j.dst); err != nil {
			return failf(ErrLink, "cannot create symbolic link '%s': %v", j.dst, err)
		}
		if err := preserve(j.dst, srcInfo, o, true); err != nil {
			return err
		}
	case srcInfo.Mode().IsRegular():
		mode := srcInfo.Mode().Perm() &^ umask()
		switch {
		case o.Preserve.Mode:
			mode = srcInfo.Mode().Perm()
		case exists:
			mode = dstInfo.Mode().Perm()
		}
		if err := e.copyRegular(j, mode, exists, o); err != nil {
			return err
		}
		if err := preserve(j.dst, srcInfo, o, false); err != nil {
			return err
		}
	default:
		return failf(ErrUnsupported, "cannot copy special file '%s'", j.src)
	}

	e.created[j.dst] = struct{}{}
	e.report(j, o)
	return nil
}

// clearDestination applies the overwrite policy to an existing destination.
// It reports whether the copy should go ahead and whether the destination
// is still in place afterwards.
func (e *Executor) clearDestination(j *job, srcInfo, dstInfo fs.FileInfo, in plan.Instruction) (bool, bool, error) {
	op := "clearDestination"
	o := in.Options

	switch {
	case o.Interactive == options.AlwaysNo, o.Update == options.UpdateNone:
		logger.Debug("Not overwriting destination", "operation", op, "destination", j.dst)
		return false, true, nil
	case o.Update == options.UpdateNoneFail:
		return false, true, failf(ErrNotReplaced, "not replacing '%s'", j.dst)
	case o.Update == options.UpdateOlder && !srcInfo.ModTime().After(dstInfo.ModTime()):
		logger.Debug("Destination is not older than source", "operation", op, "destination", j.dst)
		return false, true, nil
	}

	if o.Interactive == options.AskUser && !e.prompt.Confirm(fmt.Sprintf("cp: overwrite '%s'? ", j.dst)) {
		return false, true, nil
	}

	if in.Backup != backup.None {
		name, err := backup.Name(j.dst, in.Backup, in.Suffix, e.lister)
		if err != nil {
			return false, true, err
		}
		if err := os.Rename(j.dst, name); err != nil {
			return false, true, failf(ErrBackup, "cannot backup '%s': %v", j.dst, err)
		}
		j.backupName = name
		return true, false, nil
	}

	if o.UnlinkBeforeOpening {
		if err := os.Remove(j.dst); err != nil {
			return false, true, failf(ErrRemove, "cannot remove '%s': %v", j.dst, err)
		}
		return true, false, nil
	}
	return true, true, nil
}

func (e *Executor) copyRegular(j job, mode fs.FileMode, exists bool, o options.State) error {
	if o.Reflink == options.ReflinkAlways {
		return failf(ErrUnsupported, "failed to clone '%s' from '%s'", j.dst, j.src)
	}

	if o.AttributesOnly {
		if exists {
			return nil
		}
		f, err := os.OpenFile(j.dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
		if err != nil {
			return failf(ErrWrite, "cannot create regular file '%s': %v", j.dst, err)
		}
		return f.Close()
	}

	holes := o.Sparse == options.SparseAlways
	err := CopyFile(j.src, j.dst, mode, e.chunkSize, holes)
	if err != nil && exists && o.UnlinkAfterFailedOpen {
		logger.Debug("Copy failed, removing destination and retrying", "destination", j.dst, "error", err)
		if rmErr := os.Remove(j.dst); rmErr != nil {
			return failf(ErrRemove, "cannot remove '%s': %v", j.dst, rmErr)
		}
		err = CopyFile(j.src, j.dst, mode, e.chunkSize, holes)
	}
	if err != nil {
		return failf(ErrWrite, "cannot copy '%s' to '%s': %v", j.src, j.dst, err)
	}

	if e.checksum {
		return verifyCopy(j.src, j.dst)
	}
	return nil
}

func (e *Executor) copyDir(j job, srcInfo, dstInfo fs.FileInfo, in plan.Instruction) error {
	o := in.Options
	if dstInfo != nil && !dstInfo.IsDir() {
		return failf(ErrNotReplaced, "cannot overwrite non-directory '%s' with directory '%s'", j.dst, j.shown)
	}
	if within(j.src, j.dst) {
		return failf(ErrNotReplaced, "cannot copy a directory, '%s', into itself, '%s'", j.shown, j.dst)
	}

	dev, _ := device(srcInfo)
	descend := true
	if j.commandLine {
		j.dev = dev
	} else if o.OneFileSystem && dev != j.dev {
		descend = false
	}

	created := false
	if dstInfo == nil {
		if err := os.Mkdir(j.dst, srcInfo.Mode().Perm()|0o700); err != nil {
			return failf(ErrMkDir, "cannot create directory '%s': %v", j.dst, err)
		}
		created = true
		e.created[j.dst] = struct{}{}
		e.report(j, o)
	}

	var result *multierror.Error
	if descend {
		entries, err := os.ReadDir(j.src)
		if err != nil {
			return failf(ErrRead, "cannot read directory '%s': %v", j.src, err)
		}
		for _, ent := range entries {
			child := job{
				src:   filepath.Join(j.src, ent.Name()),
				dst:   filepath.Join(j.dst, ent.Name()),
				shown: filepath.Join(j.shown, ent.Name()),
				dev:   j.dev,
			}
			if err := e.copy(child, in); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	if created && !o.Preserve.Mode {
		if err := os.Chmod(j.dst, srcInfo.Mode().Perm()&^umask()); err != nil {
			result = multierror.Append(result, failf(ErrPreserve, "failed to set permissions for '%s': %v", j.dst, err))
		}
	}
	if err := preserve(j.dst, srcInfo, o, false); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (e *Executor) report(j job, o options.State) {
	if !o.Verbose {
		return
	}
	if j.backupName != "" {
		fmt.Fprintf(e.out, "'%s' -> '%s' (backup: '%s')\n", j.shown, j.dst, j.backupName)
		return
	}
	fmt.Fprintf(e.out, "'%s' -> '%s'\n", j.shown, j.dst)
}

func statSource(path string, d options.Dereference, commandLine bool) (fs.FileInfo, error) {
	if d == options.DerefAlways || (d == options.DerefCommandLine && commandLine) {
		return os.Stat(path)
	}
	return os.Lstat(path)
}

func sameFile(src fs.FileInfo, dst string) bool {
	info, err := os.Stat(dst)
	return err == nil && os.SameFile(src, info)
}

// within reports whether dst is src or lies below it.
func within(src, dst string) bool {
	s, err := filepath.Abs(src)
	if err != nil {
		return false
	}
	d, err := filepath.Abs(dst)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s, d)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
