package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/renameio"

	"github.com/ogzhanolguncu/cpgo/internal/logger"
	"github.com/ogzhanolguncu/cpgo/internal/plan"
)

var (
	ErrRead        = errors.New("file_ops: failed to read a file")
	ErrWrite       = errors.New("file_ops: failed to write a file")
	ErrMkDir       = errors.New("file_ops: failed to make a dir")
	ErrRemove      = errors.New("file_ops: failed to remove a path")
	ErrStat        = errors.New("file_ops: failed to stat path")
	ErrLink        = errors.New("file_ops: failed to create a link")
	ErrBackup      = errors.New("file_ops: failed to back up a file")
	ErrChecksum    = errors.New("file_ops: checksum mismatch")
	ErrPreserve    = errors.New("file_ops: failed to preserve attributes")
	ErrSameFile    = errors.New("file_ops: source and destination are the same file")
	ErrNotReplaced = errors.New("file_ops: destination not replaced")
	ErrSkipped     = errors.New("file_ops: path skipped")
	ErrUnsupported = errors.New("file_ops: operation not supported")
)

// OSProber probes paths on the local filesystem, following symbolic links.
type OSProber struct{}

func (OSProber) Probe(path string) (plan.Probe, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Path does not exist", "path", path)
			return plan.Probe{Kind: plan.NotFound}, nil
		}
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return plan.Probe{}, err
	}
	if info.IsDir() {
		return plan.Probe{Kind: plan.IsDirectory, Info: info}, nil
	}
	return plan.Probe{Kind: plan.IsOther, Info: info}, nil
}

// CopyFile copies the contents of readPath into writePath, which is replaced
// atomically and ends up with mode. Files of at least chunkSize bytes are
// streamed in chunks; with holes set, all-zero chunks are left as holes.
func CopyFile(readPath, writePath string, mode fs.FileMode, chunkSize int64, holes bool) error {
	src, err := os.Open(readPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer src.Close()

	srcInfo, err := src.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStat, err)
	}

	t, err := renameio.TempFile(filepath.Dir(writePath), writePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer t.Cleanup()

	n, err := writeContents(src, t.File, srcInfo.Size(), chunkSize, holes)
	if err != nil {
		return err
	}
	if err := t.Chmod(mode); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	logger.Debug("File copied successfully", "source", readPath, "destination", writePath, "size", n)
	return nil
}

// writeContents streams src into dst. Small files go through io.Copy; larger
// ones are read by a goroutine and handed over chunk by chunk.
func writeContents(src io.Reader, dst *os.File, size, chunkSize int64, holes bool) (int64, error) {
	if size < chunkSize && !holes {
		n, err := io.Copy(dst, src)
		if err != nil {
			return n, fmt.Errorf("%w: %v", ErrWrite, err)
		}
		return n, nil
	}

	logger.Debug("Starting batch copy", "destination", dst.Name(), "size", size, "chunkSize", chunkSize)

	transport := make(chan []byte, 5)
	errChan := make(chan error, 1)
	var readerDone sync.WaitGroup
	readerDone.Add(1)

	go func() {
		defer readerDone.Done()
		defer close(transport)
		buf := make([]byte, chunkSize)
		for {
			n, err := src.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				transport <- chunk
			}
			if err != nil {
				if err != io.EOF {
					errChan <- fmt.Errorf("%w: %v", ErrRead, err)
				}
				return
			}
		}
	}()

	var written int64
	var writeErr error
	for chunk := range transport {
		if writeErr != nil {
			// keep draining so the reader can exit
			continue
		}
		if holes && allZero(chunk) {
			_, writeErr = dst.Seek(int64(len(chunk)), io.SeekCurrent)
		} else {
			_, writeErr = dst.Write(chunk)
		}
		written += int64(len(chunk))

		if written%(chunkSize*10) == 0 {
			logger.Debug("Writing progress", "path", dst.Name(), "bytesWritten", written, "percentage", float64(written)/float64(max(size, 1))*100)
		}
	}
	readerDone.Wait()

	if writeErr != nil {
		return written, fmt.Errorf("%w: %v", ErrWrite, writeErr)
	}
	select {
	case err := <-errChan:
		return written, err
	default:
	}

	if holes {
		// a trailing hole only exists once the size is set
		if err := dst.Truncate(written); err != nil {
			return written, fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	logger.Debug("Batch copy completed", "destination", dst.Name(), "size", written)
	return written, nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// Checksum returns the xxhash of the file at path.
func Checksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return h.Sum64(), nil
}

// verifyCopy compares the checksums of src and dst.
func verifyCopy(src, dst string) error {
	want, err := Checksum(src)
	if err != nil {
		return err
	}
	got, err := Checksum(dst)
	if err != nil {
		return err
	}
	if want != got {
		return failf(ErrChecksum, "checksum mismatch: '%s' is %016x, '%s' is %016x", src, want, dst, got)
	}
	logger.Debug("Checksum verified", "source", src, "destination", dst, "checksum", fmt.Sprintf("%016x", got))
	return nil
}

// opError is an executor failure: Kind is one of the sentinels above and
// Msg is the text shown to the user.
type opError struct {
	Kind error
	Msg  string
}

func (e *opError) Error() string { return e.Msg }
func (e *opError) Unwrap() error { return e.Kind }

func failf(kind error, format string, args ...any) error {
	return &opError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
