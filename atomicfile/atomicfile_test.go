package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCloseRenames(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")
	f, err := New(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("file visible before close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello" {
		t.Errorf("got %q, want %q", b, "hello")
	}
	if _, err := f.Write([]byte("x")); err != ErrClosed {
		t.Errorf("got %v, want ErrClosed", err)
	}
}

func TestAbort(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	f, err := New(dst)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Abort(); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d leftover files, want 0", len(entries))
	}
}
