//go:build !unix

package fileops

import "io/fs"

func chown(string, fs.FileInfo) error { return nil }

func device(fs.FileInfo) (uint64, bool) { return 0, false }

func umask() fs.FileMode { return 0o022 }
