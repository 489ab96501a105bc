// Package scribe synthesizes Dockerfiles: it accumulates image-build
// instructions, defers file staging into an explicit backlog, and
// renders the result into a Dockerfile plus a staged build context
// directory.
package scribe

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config configures one Dockerfile synthesis session.
type Config struct {
	// ContextDir is the build context directory that receives staged
	// files and archives. Each session must own its context directory;
	// archive names are only unique within one session.
	ContextDir string

	// Resolver resolves non-URL string sources of ADD/COPY. Defaults to
	// resolving against the current directory.
	Resolver PathResolver

	// Copier moves bytes during backlog drain. Defaults to the local
	// file system copier.
	Copier Copier
}

// Dockerfile accumulates image-build instructions and a backlog of
// deferred staging actions, then renders the instructions to text.
//
// Declaration never touches the file system; the caller drains the
// backlog with Stage after all declarations, then calls Finalize and
// writes the result out.
type Dockerfile struct {
	ledger Ledger

	contextDir string
	resolver   PathResolver
	copier     Copier

	backlog []StagingAction

	addArchives  int
	copyArchives int
}

// New creates a Dockerfile session for the given config.
func New(config *Config) *Dockerfile {
	if config == nil {
		config = &Config{}
	}
	d := &Dockerfile{
		contextDir: config.ContextDir,
		resolver:   config.Resolver,
		copier:     config.Copier,
	}
	if d.resolver == nil {
		d.resolver = NewPathResolver(".")
	}
	if d.copier == nil {
		d.copier = NewLocalCopier()
	}
	return d
}

// Ledger exposes the underlying instruction ledger.
func (d *Dockerfile) Ledger() *Ledger { return &d.ledger }

// HasBase reports whether a base image or base Dockerfile has been set.
func (d *Dockerfile) HasBase() bool { return d.ledger.HasBase() }

// From sets the base image. It replaces any base previously set by From
// or ExtendDockerfile; the last call wins.
func (d *Dockerfile) From(image string) {
	d.ledger.setBase([]string{"FROM " + image})
}

// ExtendDockerfile reads a Dockerfile and installs its lines, verbatim,
// as the base instructions. It replaces any base previously set by From
// or ExtendDockerfile.
func (d *Dockerfile) ExtendDockerfile(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read base dockerfile: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(bs), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	d.ledger.setBase(lines)
	return nil
}

// execForm renders an argument list in Docker's exec form:
// ["a", "b", "c"].
func execForm(list []string) string {
	quoted := make([]string, 0, len(list))
	for _, s := range list {
		quoted = append(quoted, fmt.Sprintf("%q", s))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Cmd records a CMD instruction in exec form.
func (d *Dockerfile) Cmd(list ...string) {
	d.ledger.AppendOngoing("cmd", execForm(list))
}

// Entrypoint records an ENTRYPOINT instruction in exec form.
func (d *Dockerfile) Entrypoint(list ...string) {
	d.ledger.AppendOngoing("entrypoint", execForm(list))
}

// Add records an ADD instruction. A URL source is referenced directly; a
// path source is resolved and staged into the build context.
func (d *Dockerfile) Add(source, dest string) error {
	return d.addCopy("add", source, dest)
}

// Copy records a COPY instruction. A URL source is referenced directly;
// a path source is resolved and staged into the build context.
func (d *Dockerfile) Copy(source, dest string) error {
	return d.addCopy("copy", source, dest)
}

func checkFileSet(name string, set *FileSet) error {
	if set == nil || len(set.Srcs) == 0 {
		return fmt.Errorf(
			"%w: %s needs at least one source", ErrBadArguments, name,
		)
	}
	return nil
}

// AddFileSet records an ADD instruction for an inline copy
// specification. The files are staged into a deterministically named tar
// archive in the build context, added at the image root.
func (d *Dockerfile) AddFileSet(set *FileSet) error {
	if err := checkFileSet("add", set); err != nil {
		return err
	}
	d.addArchives++
	return d.stageArchive("add", fmt.Sprintf("add_%d.tar", d.addArchives), set)
}

// CopyFileSet is AddFileSet for COPY.
func (d *Dockerfile) CopyFileSet(set *FileSet) error {
	if err := checkFileSet("copy", set); err != nil {
		return err
	}
	d.copyArchives++
	return d.stageArchive("copy", fmt.Sprintf("copy_%d.tar", d.copyArchives), set)
}

// isURL reports whether s parses as an absolute URL. Parse failures mean
// "not a URL"; such sources fall through to path resolution.
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func (d *Dockerfile) addCopy(name, source, dest string) error {
	if isURL(source) {
		d.ledger.AppendOngoing(name, source, dest)
		return nil
	}

	resolved, err := d.resolver.Resolve(source)
	if err != nil {
		return fmt.Errorf("resolve source %q: %w", source, err)
	}
	return d.stageFile(name, resolved, dest)
}

func (d *Dockerfile) stageFile(name, source, dest string) error {
	stat, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat source %q: %w", source, err)
	}

	base := filepath.Base(source)
	target := d.contextDir
	if stat.IsDir() {
		// Directory contents land in a same-named subdirectory of the
		// context, so the instruction can reference them by base name.
		target = filepath.Join(d.contextDir, base)
	}

	d.backlog = append(d.backlog, func() error {
		return d.copier.Copy(&FileSet{Srcs: []string{source}}, target)
	})
	d.ledger.AppendOngoing(name, base, dest)
	return nil
}

func (d *Dockerfile) stageArchive(name, tarName string, set *FileSet) error {
	d.backlog = append(d.backlog, func() error {
		tmp, err := os.MkdirTemp("", "scribe-stage-")
		if err != nil {
			return fmt.Errorf("make staging dir: %w", err)
		}
		defer os.RemoveAll(tmp)

		if err := d.copier.Copy(set, tmp); err != nil {
			return fmt.Errorf("stage files for %q: %w", tarName, err)
		}
		if err := tarDir(tmp, filepath.Join(d.contextDir, tarName)); err != nil {
			return fmt.Errorf("build archive %q: %w", tarName, err)
		}
		return nil
	})
	d.ledger.AppendOngoing(name, tarName, "/")
	return nil
}

// Finalize renders all ongoing instructions into finalized lines,
// resolving deferred arguments.
func (d *Dockerfile) Finalize() { d.ledger.Finalize() }

// Instructions returns the rendered instruction lines: base instructions
// first, then all finalized lines in declaration order.
func (d *Dockerfile) Instructions() []string {
	return d.ledger.Instructions()
}

// WriteFile writes the instruction lines to path, one per line, each
// terminated by a newline.
func (d *Dockerfile) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dockerfile: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, line := range d.Instructions() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			f.Close()
			return fmt.Errorf("write dockerfile: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write dockerfile: %w", err)
	}
	return f.Close()
}
