// Package atomicfile writes files that appear at their final path only after
// a successful Close.
package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrClosed is returned on writes after Close or Abort.
var ErrClosed = errors.New("atomicfile: file already closed")

// File wraps a temporary file in the target directory. Close syncs it and
// renames it to the target path; Abort removes it.
type File struct {
	*os.File
	path   string
	closed bool
}

// New creates a temporary file next to path.
func New(path string) (*File, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &File{File: f, path: path}, nil
}

// Write writes to the temporary file.
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	return f.File.Write(p)
}

// Close commits the file to its final location.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	if err := f.File.Sync(); err != nil {
		f.File.Close()
		os.Remove(f.File.Name())
		return err
	}
	if err := f.File.Close(); err != nil {
		os.Remove(f.File.Name())
		return err
	}
	if err := os.Chmod(f.File.Name(), 0644); err != nil {
		os.Remove(f.File.Name())
		return err
	}
	return os.Rename(f.File.Name(), f.path)
}

// Abort discards the temporary file. Calling Abort after Close is a no-op.
func (f *File) Abort() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.File.Close()
	return os.Remove(f.File.Name())
}
