package scribe

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// defaultTarTime is the fixed timestamp used in staged archives. Using a
// fixed time keeps archive bytes stable across runs, so the build context
// digest only changes when file contents change.
var defaultTarTime = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func walkFiles(dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func writeTarFile(tw *tar.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open file %q: %w", src, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	const rootUser = 0
	if err := tw.WriteHeader(&tar.Header{
		Name:    name,
		Size:    stat.Size(),
		Mode:    int64(stat.Mode()) & 0777,
		Uid:     rootUser,
		Gid:     rootUser,
		ModTime: defaultTarTime,
	}); err != nil {
		return fmt.Errorf("write header %q: %w", name, err)
	}

	if _, err := io.Copy(tw, f); err != nil {
		return err
	}
	return nil
}

// tarDir archives the full contents of dir into a tar file at outFile.
// Entries are written in sorted name order with root ownership and a
// fixed mod time.
func tarDir(dir, outFile string) error {
	files, err := walkFiles(dir)
	if err != nil {
		return fmt.Errorf("walk dir %q: %w", dir, err)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create archive %q: %w", outFile, err)
	}

	tw := tar.NewWriter(out)
	for _, name := range files {
		src := filepath.Join(dir, filepath.FromSlash(name))
		if err := writeTarFile(tw, name, src); err != nil {
			tw.Close()
			out.Close()
			return fmt.Errorf("archive file %q: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("close archive %q: %w", outFile, err)
	}
	return out.Close()
}
