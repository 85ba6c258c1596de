package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/flags"
)

const version = "0.1.0"

const usageHeader = `Usage: cp [OPTION]... [-T] SOURCE DEST
  or:  cp [OPTION]... SOURCE... DIRECTORY
  or:  cp [OPTION]... -t DIRECTORY SOURCE...
Copy SOURCE to DEST, or multiple SOURCE(s) to DIRECTORY.

Mandatory arguments to long options are mandatory for short options too.
`

const usageFooter = `
The backup suffix is '~', unless set with --suffix or SIMPLE_BACKUP_SUFFIX.
The version control method may be selected via the --backup option or through
the VERSION_CONTROL environment variable.  Here are the values:

`

var methodUsage = map[backup.Method]string{
	backup.None:     "never make backups (even if --backup is given)",
	backup.Numbered: "make numbered backups",
	backup.Existing: "numbered if numbered backups exist, simple otherwise",
	backup.Simple:   "always make simple backups",
}

func writeUsage(w io.Writer, g *flags.Grammar) {
	fmt.Fprint(w, usageHeader)
	for _, s := range g.Specs() {
		fmt.Fprintf(w, "  %-28s %s\n", flagColumn(s), s.Usage)
	}

	fmt.Fprint(w, usageFooter)
	methods := backup.Methods("--backup")
	for _, group := range methods.Groups() {
		m, err := methods.Resolve(group[0])
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "  %-15s %s\n", strings.Join(group, ", "), methodUsage[m])
	}
}

// flagColumn renders "-b, --backup[=CONTROL]" style names.
func flagColumn(s *flags.Spec) string {
	var names []string
	for _, a := range s.Aliases {
		if len(a) == 1 {
			names = append(names, "-"+a)
		}
	}
	indent := ""
	if len(names) == 0 {
		indent = "    "
	}
	long := s.Long()
	for _, l := range long {
		names = append(names, "--"+l)
	}

	col := indent + strings.Join(names, ", ")
	switch s.Arity {
	case flags.OptionalArgument:
		col += "[=" + s.Value + "]"
	case flags.RequiredArgument:
		if len(long) > 0 {
			col += "=" + s.Value
		} else {
			col += " " + s.Value
		}
	}
	return col
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "cp (cpgo) %s\n", version)
}
