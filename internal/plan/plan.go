package plan

import (
	"strings"

	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/cperr"
	"github.com/ogzhanolguncu/cpgo/internal/logger"
	"github.com/ogzhanolguncu/cpgo/internal/options"
)

// Instruction is one resolved copy. It is never modified after Make
// returns it.
type Instruction struct {
	Source      string
	Destination string
	Options     options.State
	// Backup is the method for an existing Destination, None when no
	// backup is made.
	Backup backup.Method
	Suffix string
	// RequiresPreBackup means Source and Destination name the same regular
	// file: Destination has to be renamed to its backup name first, and the
	// copy then reads from the backup.
	RequiresPreBackup bool
}

// Plan is the ordered work for one invocation.
type Plan struct {
	Shape        Shape
	Target       string
	Instructions []Instruction
}

// Make resolves the invocation shape of operands and builds one instruction
// per source, in operand order.
func Make(s options.State, operands []string, p Prober) (Plan, error) {
	op := "Make"
	inv, err := Resolve(s, operands, p)
	if err != nil {
		return Plan{}, err
	}

	pl := Plan{Shape: inv.Shape, Target: inv.Target, Instructions: make([]Instruction, 0, len(inv.Sources))}
	for _, src := range inv.Sources {
		if s.StripTrailingSlashes {
			src = StripTrailingSlashes(src)
		}

		dst := inv.Target
		if inv.Shape.IntoDirectory() {
			if s.Parents {
				dst = Concat(inv.Target, StripTrailingSlashes(src))
			} else {
				dst = Concat(inv.Target, Basename(src))
			}
		}

		in := Instruction{
			Source:      src,
			Destination: dst,
			Options:     s,
			Backup:      s.EffectiveBackup(),
			Suffix:      s.Suffix,
		}
		if in.RequiresPreBackup, err = needsPreBackup(in, p); err != nil {
			return Plan{}, err
		}
		logger.Debug("planned copy", "operation", op, "source", in.Source, "destination", in.Destination, "backup", in.Backup, "preBackup", in.RequiresPreBackup)
		pl.Instructions = append(pl.Instructions, in)
	}
	return pl, nil
}

// needsPreBackup reports the "cp --force --backup f f" case.
func needsPreBackup(in Instruction, p Prober) (bool, error) {
	if !in.Options.UnlinkAfterFailedOpen || in.Backup == backup.None || in.Source != in.Destination {
		return false, nil
	}
	pr, err := p.Probe(in.Destination)
	if err != nil {
		return false, cperr.PathAccess(in.Destination, err)
	}
	return pr.Kind == IsOther && pr.Info != nil && pr.Info.Mode().IsRegular(), nil
}

// StripTrailingSlashes removes trailing slashes from name. A name made only
// of slashes becomes "/".
func StripTrailingSlashes(name string) string {
	trimmed := strings.TrimRight(name, "/")
	if trimmed == "" && name != "" {
		return "/"
	}
	return trimmed
}

// Basename is the last component of name, ignoring trailing slashes.
func Basename(name string) string {
	trimmed := strings.TrimRight(name, "/")
	return trimmed[strings.LastIndexByte(trimmed, '/')+1:]
}

// Concat joins dir and name with exactly one slash. Unlike filepath.Join
// it does not clean either side, so "./a" stays "dir/./a". An empty dir
// leaves name relative.
func Concat(dir, name string) string {
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return dir
	}
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
