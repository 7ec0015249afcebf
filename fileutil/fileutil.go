// Package fileutil opens and creates files, compressed or not, depending on
// the filename extension.
package fileutil

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/miku/dblpslice/atomicfile"
)

// readCloser closes the decompressor first, then the underlying file.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens a file and returns a reader, detecting if the file is compressed
// by its extension (.gz, .zst).
func Open(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case strings.HasSuffix(filename, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	default:
		return f, nil
	}
}

// Writer writes to a file atomically, compressing on the fly if the filename
// asks for it. Nothing is visible at the target path before Close succeeds.
type Writer struct {
	w    io.Writer
	zc   io.Closer
	file *atomicfile.File
}

// Create returns a new Writer for filename.
func Create(filename string) (*Writer, error) {
	f, err := atomicfile.New(filename)
	if err != nil {
		return nil, err
	}
	w := &Writer{w: f, file: f}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		zw := gzip.NewWriter(f)
		w.w, w.zc = zw, zw
	case strings.HasSuffix(filename, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Abort()
			return nil, err
		}
		w.w, w.zc = zw, zw
	}
	return w, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Close flushes the compressor and moves the file into place.
func (w *Writer) Close() error {
	if w.zc != nil {
		if err := w.zc.Close(); err != nil {
			w.file.Abort()
			return err
		}
	}
	return w.file.Close()
}

// Abort drops everything written so far.
func (w *Writer) Abort() error {
	if w.zc != nil {
		w.zc.Close()
	}
	return w.file.Abort()
}
