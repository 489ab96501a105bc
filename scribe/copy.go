package scribe

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSet is a declarative copy specification: one or more source roots,
// with optional include glob patterns matched against file base names.
// A FileSet with a single source and no includes is a direct copy.
type FileSet struct {
	Srcs     []string `yaml:"srcs"`
	Includes []string `yaml:"includes,omitempty"`
}

// Copier copies the files described by a FileSet into a directory. It is
// the collaborator that moves bytes; the Dockerfile only decides what to
// copy and when.
type Copier interface {
	Copy(set *FileSet, into string) error
}

// PathResolver resolves a source path string from a build description
// into a concrete file-system location.
type PathResolver interface {
	Resolve(path string) (string, error)
}

type workDirResolver struct {
	dir string
}

// NewPathResolver returns a resolver that interprets relative paths
// against dir.
func NewPathResolver(dir string) PathResolver {
	return workDirResolver{dir: dir}
}

func (r workDirResolver) Resolve(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("empty source path")
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Abs(filepath.Join(r.dir, filepath.FromSlash(p)))
}

type localCopier struct{}

// NewLocalCopier returns a Copier backed by the local file system.
//
// A plain-file source is copied to into/<basename>. A directory source
// has its contents copied into the target, preserving relative paths.
// Include patterns, when present, filter files by base name.
func NewLocalCopier() Copier { return localCopier{} }

func isGlob(s string) bool {
	return strings.Contains(s, "*") || strings.Contains(s, "?")
}

func (c localCopier) matches(set *FileSet, name string) (bool, error) {
	if len(set.Includes) == 0 {
		return true, nil
	}
	for _, pat := range set.Includes {
		ok, err := filepath.Match(pat, name)
		if err != nil {
			return false, fmt.Errorf("match %q against %q: %w", name, pat, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (c localCopier) Copy(set *FileSet, into string) error {
	for _, src := range set.Srcs {
		if err := c.copyOne(set, src, into); err != nil {
			return fmt.Errorf("copy %q: %w", src, err)
		}
	}
	return nil
}

func (c localCopier) copyOne(set *FileSet, src, into string) error {
	if isGlob(filepath.Base(src)) {
		return c.copyGlob(set, src, into)
	}

	stat, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return copyFile(src, filepath.Join(into, filepath.Base(src)))
	}

	return fs.WalkDir(os.DirFS(src), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := c.matches(set, d.Name())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return copyFile(
			filepath.Join(src, filepath.FromSlash(p)),
			filepath.Join(into, filepath.FromSlash(p)),
		)
	})
}

func (c localCopier) copyGlob(set *FileSet, src, into string) error {
	dir := filepath.Dir(src)
	pat := filepath.Base(src)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match, err := filepath.Match(pat, entry.Name())
		if err != nil {
			return fmt.Errorf("match file %q for %q: %w", entry.Name(), src, err)
		}
		if !match {
			continue
		}
		ok, err := c.matches(set, entry.Name())
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		name := entry.Name()
		if err := copyFile(
			filepath.Join(dir, name), filepath.Join(into, name),
		); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open file %q: %w", src, err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("make dir for %q: %w", dst, err)
	}

	out, err := os.OpenFile(
		dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode().Perm(),
	)
	if err != nil {
		return fmt.Errorf("create file %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %q: %w", dst, err)
	}
	return out.Close()
}
