// Package backup decides how an existing destination file is backed up
// before it is overwritten.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ogzhanolguncu/cpgo/internal/enum"
)

// Method is a backup control method.
type Method int

const (
	// None never makes backups.
	None Method = iota
	// Simple always appends the suffix.
	Simple
	// Existing makes numbered backups of files that already have them and
	// simple backups of the others.
	Existing
	// Numbered always makes numbered backups.
	Numbered
)

// DefaultSuffix is used when neither -S nor SIMPLE_BACKUP_SUFFIX is given.
const DefaultSuffix = "~"

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Simple:
		return "simple"
	case Existing:
		return "existing"
	case Numbered:
		return "numbered"
	}
	return "unknown"
}

// Methods returns the backup control enumeration owned by flag. The legacy
// spellings "off", "never", "nil" and "t" are aliases.
func Methods(flag string) *enum.Set[Method] {
	return enum.New(flag,
		enum.Variant[Method]{Value: None, Name: "none", Aliases: []string{"off"}},
		enum.Variant[Method]{Value: Simple, Name: "simple", Aliases: []string{"never"}},
		enum.Variant[Method]{Value: Existing, Name: "existing", Aliases: []string{"nil"}},
		enum.Variant[Method]{Value: Numbered, Name: "numbered", Aliases: []string{"t"}},
	)
}

// CleanSuffix returns suffix, or DefaultSuffix when suffix is empty or
// contains a path separator.
func CleanSuffix(suffix string) string {
	if suffix == "" || strings.ContainsRune(suffix, '/') {
		return DefaultSuffix
	}
	return suffix
}

// Lister reads the names in a directory.
type Lister interface {
	ReadDirNames(dir string) ([]string, error)
}

// OSLister lists directories on the local filesystem.
type OSLister struct{}

// ReadDirNames returns the entry names of dir in directory order.
func (OSLister) ReadDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// ErrListDir is returned by Name when the destination directory cannot be
// read to find existing numbered backups.
var ErrListDir = errors.New("backup: failed to list directory")

// Name returns the backup file name for dst under method, or "" when
// method is None. Numbered names have the form "dst.~N~" with N one more
// than the highest existing number.
func Name(dst string, method Method, suffix string, l Lister) (string, error) {
	switch method {
	case None:
		return "", nil
	case Simple:
		return dst + CleanSuffix(suffix), nil
	}

	highest, err := highestVersion(dst, l)
	if err != nil {
		return "", err
	}
	if method == Existing && highest == 0 {
		return dst + CleanSuffix(suffix), nil
	}
	return dst + ".~" + strconv.Itoa(highest+1) + "~", nil
}

// highestVersion scans dst's directory for "base.~N~" entries.
func highestVersion(dst string, l Lister) (int, error) {
	dir, base := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	names, err := l.ReadDirNames(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrListDir, err)
	}

	prefix := base + ".~"
	highest := 0
	for _, name := range names {
		if len(name) <= len(prefix) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, "~") {
			continue
		}
		digits := name[len(prefix) : len(name)-1]
		if digits == "" || digits[0] == '0' {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest, nil
}
