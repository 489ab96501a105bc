package scribe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// BuildConfig configures one Build run.
type BuildConfig struct {
	// WorkDir is the root for relative paths in the build description.
	// Defaults to the current directory.
	WorkDir string

	// ContextDir receives staged files and the rendered Dockerfile. It
	// is created if missing. Defaults to a "context" directory under
	// WorkDir.
	ContextDir string

	// OutFile is the rendered Dockerfile path. Defaults to "Dockerfile"
	// inside ContextDir.
	OutFile string

	// BuildLog is an optional SQLite build log file. Empty disables
	// recording.
	BuildLog string

	// Resolver and Copier override the default collaborators.
	Resolver PathResolver
	Copier   Copier
}

func (c *BuildConfig) workDir() string {
	if c.WorkDir == "" {
		return "."
	}
	return c.WorkDir
}

func (c *BuildConfig) contextDir() string {
	if c.ContextDir == "" {
		return filepath.Join(c.workDir(), "context")
	}
	return c.ContextDir
}

func (c *BuildConfig) outFile() string {
	if c.OutFile == "" {
		return filepath.Join(c.contextDir(), "Dockerfile")
	}
	return c.OutFile
}

// Build synthesizes a Dockerfile and its build context from a build
// description file: it declares every instruction, drains the staging
// backlog into the context directory, finalizes the instruction ledger
// and writes the Dockerfile out. When a build log is configured, the run
// is recorded with the context digest.
func Build(specFile string, config *BuildConfig) error {
	if config == nil {
		config = &BuildConfig{}
	}

	spec, err := ParseSpecFile(specFile)
	if err != nil {
		return fmt.Errorf("parse spec file: %w", err)
	}

	contextDir := config.contextDir()
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		return fmt.Errorf("make context dir: %w", err)
	}

	resolver := config.Resolver
	if resolver == nil {
		resolver = NewPathResolver(config.workDir())
	}

	d := New(&Config{
		ContextDir: contextDir,
		Resolver:   resolver,
		Copier:     config.Copier,
	})

	if err := spec.Apply(d, config.workDir()); err != nil {
		return fmt.Errorf("apply spec: %w", err)
	}

	log.Printf("staging %d action(s) into %s", len(d.Backlog()), contextDir)
	if err := d.Stage(); err != nil {
		return fmt.Errorf("stage build context: %w", err)
	}

	d.Finalize()

	out := config.outFile()
	if err := d.WriteFile(out); err != nil {
		return fmt.Errorf("write dockerfile: %w", err)
	}
	log.Printf("wrote %s (%d instruction(s))", out, len(d.Instructions()))

	if config.BuildLog == "" {
		return nil
	}
	return recordBuild(config.BuildLog, spec.Name, contextDir, d)
}

func recordBuild(logFile, name, contextDir string, d *Dockerfile) error {
	digest, err := ContextDigest(contextDir)
	if err != nil {
		return fmt.Errorf("digest context: %w", err)
	}

	buildLog, err := OpenBuildLog(logFile)
	if err != nil {
		return err
	}
	defer buildLog.Close()

	ctx := context.Background()

	last, err := buildLog.Last(ctx, name)
	if err != nil && !errors.Is(err, ErrNoBuildRecord) {
		return err
	}
	if last != nil && last.Digest == digest {
		log.Printf("context unchanged since %s", last.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return buildLog.Record(ctx, &BuildRecord{
		Name:         name,
		Digest:       digest,
		Instructions: len(d.Instructions()),
	})
}
