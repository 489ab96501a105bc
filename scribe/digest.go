package scribe

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// contextFileRecord is the canonical per-file record used to digest a
// build context directory. We keep our own record format so the digest is
// controlled by us and not affected by archive encoding details.
type contextFileRecord struct {
	Name string
	Mode int64
	Size int64

	Content string
}

func recordFile(dir, name string) (*contextFileRecord, error) {
	p := filepath.Join(dir, filepath.FromSlash(name))

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open file %q: %w", p, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("read file %q: %w", p, err)
	}

	return &contextFileRecord{
		Name:    name,
		Mode:    int64(stat.Mode()) & 0777,
		Size:    stat.Size(),
		Content: fmt.Sprintf("sha256:%x", h.Sum(nil)),
	}, nil
}

// ContextDigest computes a deterministic digest of a build context
// directory from the names, modes, sizes and contents of its files.
func ContextDigest(dir string) (string, error) {
	files, err := walkFiles(dir)
	if err != nil {
		return "", fmt.Errorf("walk context dir %q: %w", dir, err)
	}

	h := sha256.New()
	enc := json.NewEncoder(h)

	for _, name := range files {
		r, err := recordFile(dir, name)
		if err != nil {
			return "", fmt.Errorf("digest file %q: %w", name, err)
		}
		if err := enc.Encode(r); err != nil {
			return "", fmt.Errorf("write record for file %q: %w", name, err)
		}
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}
