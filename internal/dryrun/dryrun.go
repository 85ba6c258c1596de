// Package dryrun describes what a copy plan would do without touching the
// filesystem beyond probing it.
package dryrun

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/options"
	"github.com/ogzhanolguncu/cpgo/internal/plan"
)

type Action int

const (
	ActionCreate Action = iota
	ActionOverwrite
	ActionBackup
	ActionLink
	ActionSymlink
	ActionSkip
	ActionMissing
)

var actionNames = [...]string{"CREATE", "OVERWRITE", "BACKUP", "LINK", "SYMLINK", "SKIP", "MISSING"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "UNKNOWN"
}

func (a Action) MarshalYAML() (any, error) {
	return strings.ToLower(a.String()), nil
}

// Entry is one planned copy.
type Entry struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Action      Action `yaml:"action"`
	Size        int64  `yaml:"size"`
	Backup      string `yaml:"backup,omitempty"`
	PreBackup   bool   `yaml:"pre_backup,omitempty"`
}

// Report is the dry-run view of a plan.
type Report struct {
	Shape   string  `yaml:"shape"`
	Target  string  `yaml:"target"`
	Entries []Entry `yaml:"instructions"`
}

// Build probes the sources and destinations of pl to decide what each
// instruction would do.
func Build(pl plan.Plan, p plan.Prober) (Report, error) {
	r := Report{Shape: pl.Shape.String(), Target: pl.Target, Entries: make([]Entry, 0, len(pl.Instructions))}
	for _, in := range pl.Instructions {
		e := Entry{Source: in.Source, Destination: in.Destination, PreBackup: in.RequiresPreBackup}
		if in.Backup != backup.None {
			e.Backup = in.Backup.String()
		}

		src, err := p.Probe(in.Source)
		if err != nil {
			return Report{}, fmt.Errorf("dryrun: probing %s: %w", in.Source, err)
		}
		dst, err := p.Probe(in.Destination)
		if err != nil {
			return Report{}, fmt.Errorf("dryrun: probing %s: %w", in.Destination, err)
		}
		if src.Info != nil && !src.Info.IsDir() {
			e.Size = src.Info.Size()
		}
		e.Action = decide(in.Options, src, dst, in.Backup)
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

func decide(o options.State, src, dst plan.Probe, method backup.Method) Action {
	switch {
	case src.Kind == plan.NotFound:
		return ActionMissing
	case src.Kind == plan.IsDirectory && !o.Recursive:
		return ActionSkip
	case o.SymbolicLink:
		return ActionSymlink
	case o.HardLink:
		return ActionLink
	case dst.Kind == plan.NotFound:
		return ActionCreate
	case o.Interactive == options.AlwaysNo, o.Update == options.UpdateNone:
		return ActionSkip
	case method != backup.None:
		return ActionBackup
	}
	return ActionOverwrite
}

type Node struct {
	fileName string
	fileSize int64
	action   Action
	leaf     bool
	children []*Node
}

// PrintFullReport writes a summary followed by the destination tree.
func PrintFullReport(w io.Writer, r Report) {
	printSummary(w, r)
	root := generateTree(r.Entries)
	printTree(w, root, "")
}

// WriteYAML writes r as a YAML document.
func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("dryrun: encoding report: %w", err)
	}
	return enc.Close()
}

func printSummary(w io.Writer, r Report) {
	type stat struct {
		Count int
		Size  int64
	}
	stats := make(map[Action]stat)
	for _, e := range r.Entries {
		s := stats[e.Action]
		s.Count++
		s.Size += e.Size
		stats[e.Action] = s
	}

	fmt.Fprintf(w, "==== DRY RUN MODE: No changes will be made ====\n")
	fmt.Fprintf(w, "Invocation: %s (target %s)\n", r.Shape, r.Target)
	fmt.Fprintf(w, "SUMMARY OF ACTIONS:\n")
	for a := ActionCreate; a <= ActionMissing; a++ {
		s, ok := stats[a]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "* %s: %d (total size: %s)\n", a, s.Count, formatSize(s.Size))
	}
}

func printTree(w io.Writer, node *Node, indent string) {
	if node.leaf {
		fmt.Fprintf(w, "%s- %s [%s] (%s)\n", indent, node.fileName, node.action, formatSize(node.fileSize))
	} else {
		fmt.Fprintf(w, "%s- %s\n", indent, node.fileName)
	}
	for _, child := range node.children {
		printTree(w, child, indent+"  ")
	}
}

func formatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
}

// generateTree arranges entries by destination path, one node per path
// component.
func generateTree(entries []Entry) *Node {
	root := &Node{fileName: "(root)"}
	for _, e := range entries {
		path := strings.Trim(e.Destination, "/")
		current := root
		for _, component := range strings.Split(path, "/") {
			if component == "" {
				continue
			}
			var next *Node
			for _, child := range current.children {
				if child.fileName == component {
					next = child
					break
				}
			}
			if next == nil {
				next = &Node{fileName: component}
				current.children = append(current.children, next)
			}
			current = next
		}
		current.leaf = true
		current.action = e.Action
		current.fileSize = e.Size
	}
	return root
}
