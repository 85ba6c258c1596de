package fileops

import (
	"errors"
	"io/fs"
	"os"

	"github.com/ogzhanolguncu/cpgo/internal/logger"
	"github.com/ogzhanolguncu/cpgo/internal/options"
)

// preserve copies the attributes selected in o from info to dst. link is
// set when dst is a symbolic link, which only carries ownership.
func preserve(dst string, info fs.FileInfo, o options.State, link bool) error {
	if o.Preserve.Ownership {
		if err := chown(dst, info); err != nil {
			// unprivileged users cannot give files away
			if !errors.Is(err, fs.ErrPermission) && o.RequirePreserve {
				return failf(ErrPreserve, "failed to preserve ownership for '%s': %v", dst, err)
			}
			logger.Warn("Ownership not preserved", "path", dst, "error", err)
		}
	}
	if link {
		return nil
	}

	if o.Preserve.Mode {
		if err := os.Chmod(dst, info.Mode()&(fs.ModePerm|fs.ModeSetuid|fs.ModeSetgid|fs.ModeSticky)); err != nil {
			return failf(ErrPreserve, "failed to preserve permissions for '%s': %v", dst, err)
		}
	}
	if o.Preserve.Timestamps {
		if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
			return failf(ErrPreserve, "failed to preserve times for '%s': %v", dst, err)
		}
	}
	if o.RequirePreserveXattr {
		return failf(ErrUnsupported, "cannot preserve extended attributes for '%s'", dst)
	}
	if o.RequirePreserveContext || o.SecurityContext != "" {
		return failf(ErrUnsupported, "cannot set security context for '%s'", dst)
	}
	return nil
}
