package scribe

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestTarDir(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "b.txt"), "second")
	writeTestFile(t, filepath.Join(dir, "a.txt"), "first")
	writeTestFile(t, filepath.Join(dir, "sub", "c.txt"), "third")

	out := filepath.Join(t.TempDir(), "out.tar")
	if err := tarDir(dir, out); err != nil {
		t.Fatalf("tar dir: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()

	tr := tar.NewReader(f)

	// Entries come out in sorted name order.
	wants := []struct {
		name    string
		content string
	}{
		{"a.txt", "first"},
		{"b.txt", "second"},
		{"sub/c.txt", "third"},
	}
	for _, want := range wants {
		header, err := tr.Next()
		if err != nil {
			t.Fatalf("read header for %q: %v", want.name, err)
		}
		if header.Name != want.name {
			t.Errorf("got name %q, want %q", header.Name, want.name)
		}
		if !header.ModTime.Equal(defaultTarTime) {
			t.Errorf(
				"got mod time %v for %q, want %v",
				header.ModTime, want.name, defaultTarTime,
			)
		}
		if header.Uid != 0 || header.Gid != 0 {
			t.Errorf("got uid/gid %d/%d for %q, want root",
				header.Uid, header.Gid, want.name,
			)
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read content for %q: %v", want.name, err)
		}
		if string(content) != want.content {
			t.Errorf("got content %q for %q, want %q",
				content, want.name, want.content,
			)
		}
	}

	if _, err := tr.Next(); err != io.EOF {
		t.Errorf("got extra archive entries, want EOF")
	}
}

func TestTarDirDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "f.txt"), "same content")

	out1 := filepath.Join(t.TempDir(), "one.tar")
	out2 := filepath.Join(t.TempDir(), "two.tar")
	if err := tarDir(dir, out1); err != nil {
		t.Fatalf("tar dir: %v", err)
	}
	if err := tarDir(dir, out2); err != nil {
		t.Fatalf("tar dir: %v", err)
	}

	bs1, err := os.ReadFile(out1)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	bs2, err := os.ReadFile(out2)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if !bytes.Equal(bs1, bs2) {
		t.Errorf("archives of the same directory differ")
	}
}
