package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dockscribe/scribe/scribe"
)

const usage = `
scribe - synthesizes a Dockerfile and a staged build context directory
from a declarative build description.

Usage:
  scribe [flags] <build.scribe.yaml>   Synthesize Dockerfile and context
  scribe log [flags] <name>            Show the last recorded build

Flags:
`

func runLog(args []string) {
	flags := flag.NewFlagSet("log", flag.ExitOnError)
	logFile := flags.String("build_log", "scribe.db", "build log file")
	flags.Parse(args)

	if flags.NArg() != 1 {
		log.Fatal("log needs exactly one build name")
	}

	buildLog, err := scribe.OpenBuildLog(*logFile)
	if err != nil {
		log.Fatal(err)
	}
	defer buildLog.Close()

	r, err := buildLog.Last(context.Background(), flags.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf(
		"%s %s %d instruction(s) at %s\n",
		r.Name, r.Digest, r.Instructions,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}

func main() {
	// Check for subcommand before flag parsing.
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		switch os.Args[1] {
		case "log":
			runLog(os.Args[2:])
			return
		}
	}

	workDir := flag.String("work_dir", ".", "root directory for the build")
	contextDir := flag.String(
		"context", "",
		"build context directory; empty means <work_dir>/context",
	)
	outFile := flag.String(
		"out", "",
		"output Dockerfile path; empty means <context>/Dockerfile",
	)
	buildLog := flag.String(
		"build_log", "",
		"build log file; empty disables build recording",
	)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	config := &scribe.BuildConfig{
		WorkDir:    *workDir,
		ContextDir: *contextDir,
		OutFile:    *outFile,
		BuildLog:   *buildLog,
	}

	if err := scribe.Build(args[0], config); err != nil {
		log.Fatal(err)
	}
}
