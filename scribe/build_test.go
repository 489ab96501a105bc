package scribe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "app", "main.sh"), "#!/bin/sh")
	writeTestFile(t, filepath.Join(workDir, "build.scribe.yaml"), `
name: myapp
from: alpine:3.18
instructions:
  - name: workdir
    args: ["/app"]
  - name: add
    src: app
    dest: /app
  - name: cmd
    list: ["/app/main.sh"]
`)

	logFile := filepath.Join(t.TempDir(), "scribe.db")
	config := &BuildConfig{
		WorkDir:  workDir,
		BuildLog: logFile,
	}

	specFile := filepath.Join(workDir, "build.scribe.yaml")
	if err := Build(specFile, config); err != nil {
		t.Fatalf("build: %v", err)
	}

	bs, err := os.ReadFile(filepath.Join(workDir, "context", "Dockerfile"))
	if err != nil {
		t.Fatalf("read dockerfile: %v", err)
	}
	want := "FROM alpine:3.18\n" +
		"WORKDIR /app\n" +
		"ADD app /app\n" +
		"CMD [\"/app/main.sh\"]\n"
	if string(bs) != want {
		t.Errorf("got dockerfile %q, want %q", bs, want)
	}

	if _, err := os.Stat(
		filepath.Join(workDir, "context", "app", "main.sh"),
	); err != nil {
		t.Errorf("stat staged file: %v", err)
	}

	buildLog, err := OpenBuildLog(logFile)
	if err != nil {
		t.Fatalf("open build log: %v", err)
	}
	defer buildLog.Close()

	r, err := buildLog.Last(context.Background(), "myapp")
	if err != nil {
		t.Fatalf("last record: %v", err)
	}
	if !strings.HasPrefix(r.Digest, "sha256:") {
		t.Errorf("got digest %q, want a sha256 digest", r.Digest)
	}
	if r.Instructions != 4 {
		t.Errorf("got %d instructions, want 4", r.Instructions)
	}
}

func TestBuildBaseDockerfile(t *testing.T) {
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "base.Dockerfile"),
		"FROM ubuntu:22.04\nRUN apt-get update\n")
	writeTestFile(t, filepath.Join(workDir, "build.scribe.yaml"), `
name: extended
base_dockerfile: base.Dockerfile
instructions:
  - name: run
    args: ["echo hi"]
`)

	config := &BuildConfig{WorkDir: workDir}
	if err := Build(
		filepath.Join(workDir, "build.scribe.yaml"), config,
	); err != nil {
		t.Fatalf("build: %v", err)
	}

	bs, err := os.ReadFile(filepath.Join(workDir, "context", "Dockerfile"))
	if err != nil {
		t.Fatalf("read dockerfile: %v", err)
	}
	want := "FROM ubuntu:22.04\nRUN apt-get update\nRUN echo hi\n"
	if string(bs) != want {
		t.Errorf("got dockerfile %q, want %q", bs, want)
	}
}

func TestBuildBadSpec(t *testing.T) {
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "build.scribe.yaml"),
		"from: alpine:3.18\nbase_dockerfile: x\n")

	err := Build(filepath.Join(workDir, "build.scribe.yaml"), &BuildConfig{
		WorkDir: workDir,
	})
	if err == nil {
		t.Fatalf("build with conflicting bases did not fail")
	}
	if !strings.Contains(err.Error(), "apply spec") {
		t.Errorf("got error %v, want an apply error", err)
	}
}
