// Package plan turns the operands left after flag parsing into an ordered
// list of copy instructions.
package plan

import (
	"io/fs"
	"syscall"

	"github.com/ogzhanolguncu/cpgo/internal/cperr"
	"github.com/ogzhanolguncu/cpgo/internal/logger"
	"github.com/ogzhanolguncu/cpgo/internal/options"
)

// ProbeKind is what a path turned out to be.
type ProbeKind int

const (
	NotFound ProbeKind = iota
	IsDirectory
	IsOther
)

func (k ProbeKind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case IsDirectory:
		return "directory"
	case IsOther:
		return "other"
	}
	return "unknown"
}

// Probe is the result of looking a path up. Info is nil for NotFound.
type Probe struct {
	Kind ProbeKind
	Info fs.FileInfo
}

// Prober looks paths up on the filesystem. A missing path is reported as
// NotFound, never as an error; any other failure is returned as err.
type Prober interface {
	Probe(path string) (Probe, error)
}

// Shape classifies the operands of one invocation.
type Shape int

const (
	// ExplicitPair is "cp SOURCE DEST".
	ExplicitPair Shape = iota
	// MultiIntoDirectory is "cp SOURCE... DIRECTORY".
	MultiIntoDirectory
	// TargetDirectoryFlag is "cp -t DIRECTORY SOURCE...".
	TargetDirectoryFlag
)

func (s Shape) String() string {
	switch s {
	case ExplicitPair:
		return "explicit-pair"
	case MultiIntoDirectory:
		return "multi-into-directory"
	case TargetDirectoryFlag:
		return "target-directory-flag"
	}
	return "unknown"
}

// IntoDirectory reports whether sources are copied under a directory.
func (s Shape) IntoDirectory() bool {
	return s != ExplicitPair
}

// Invocation is a classified operand list. Target is the destination file
// for ExplicitPair and the destination directory otherwise.
type Invocation struct {
	Shape   Shape
	Sources []string
	Target  string
}

// Resolve classifies operands under s. Only the implicit form (no -t, no -T)
// probes the filesystem, and only the last operand. An empty -t value is
// rejected without probing.
func Resolve(s options.State, operands []string, p Prober) (Invocation, error) {
	op := "Resolve"
	n := len(operands)

	if n == 0 {
		return Invocation{}, cperr.MissingDestinationOperand("")
	}

	var inv Invocation
	switch {
	case s.HasTargetDirectory:
		// no directory has the empty name
		if s.TargetDirectory == "" {
			return Invocation{}, cperr.PathAccess("", syscall.ENOENT)
		}
		inv = Invocation{Shape: TargetDirectoryFlag, Sources: operands, Target: s.TargetDirectory}
	case n == 1:
		return Invocation{}, cperr.MissingDestinationOperand(operands[0])
	case s.NoTargetDirectory:
		if n > 2 {
			return Invocation{}, cperr.ExtraOperand(operands[2])
		}
		inv = Invocation{Shape: ExplicitPair, Sources: operands[:1], Target: operands[1]}
	default:
		last := operands[n-1]
		pr, err := p.Probe(last)
		if err != nil {
			return Invocation{}, cperr.PathAccess(last, err)
		}
		logger.Debug("probed destination", "operation", op, "path", last, "kind", pr.Kind)
		switch {
		case pr.Kind == IsDirectory:
			inv = Invocation{Shape: MultiIntoDirectory, Sources: operands[:n-1], Target: last}
		case n > 2:
			return Invocation{}, cperr.TargetNotADirectory(last)
		default:
			inv = Invocation{Shape: ExplicitPair, Sources: operands[:1], Target: last}
		}
	}

	if s.Parents && !inv.Shape.IntoDirectory() {
		return Invocation{}, cperr.ParentsWithoutDirectory()
	}
	logger.Debug("resolved invocation", "operation", op, "shape", inv.Shape, "sources", len(inv.Sources), "target", inv.Target)
	return inv, nil
}
