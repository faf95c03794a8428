// Package output commits downloaded media to disk without ever
// publishing a partial file: bytes stream into a hidden part file next
// to the final path, and only an explicit Commit renames it into view.
package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/log"
	"github.com/spf13/afero"
)

// File is a pending download target.
type File struct {
	fs        afero.Afero
	final     string
	temp      string
	handle    afero.File
	size      int64
	committed bool
}

// New creates the destination directory on demand and opens a fresh
// part file for path.
func New(path string) (*File, error) {
	backend := filesystem.API()
	if dir := filepath.Dir(path); dir != "." {
		if err := backend.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	temp := path + ".part"
	handle, err := backend.Create(temp)
	if err != nil {
		return nil, fmt.Errorf("failed to create part file: %w", err)
	}
	return &File{fs: backend, final: path, temp: temp, handle: handle}, nil
}

// Exists reports whether a finished file already occupies path.
func Exists(path string) bool {
	ok, err := filesystem.API().Exists(path)
	return err == nil && ok
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.handle.Write(p)
	f.size += int64(n)
	return n, err
}

// Size reports the bytes persisted so far, which is the offset a
// resumed fetch continues from.
func (f *File) Size() int64 {
	return f.size
}

// Truncate throws away the bytes written so far. Used when a server
// answers a resume request with the full file instead of the range.
func (f *File) Truncate() error {
	if err := f.handle.Truncate(0); err != nil {
		return fmt.Errorf("failed to reset part file: %w", err)
	}
	if _, err := f.handle.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset part file: %w", err)
	}
	f.size = 0
	return nil
}

// Path returns the final destination path.
func (f *File) Path() string {
	return f.final
}

// Commit flushes the part file and renames it to its final name.
func (f *File) Commit() error {
	if err := f.handle.Sync(); err != nil {
		f.handle.Close()
		return fmt.Errorf("failed to flush part file: %w", err)
	}
	if err := f.handle.Close(); err != nil {
		return fmt.Errorf("failed to close part file: %w", err)
	}
	if err := f.fs.Rename(f.temp, f.final); err != nil {
		return fmt.Errorf("failed to publish %s: %w", f.final, err)
	}
	f.committed = true
	return nil
}

// Discard drops the part file. After Commit it does nothing, so it can
// sit in a defer as cancellation cleanup.
func (f *File) Discard() {
	if f.committed {
		return
	}
	f.handle.Close()
	if err := f.fs.Remove(f.temp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("could not remove part file %s: %s", f.temp, err)
	}
}
