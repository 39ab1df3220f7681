/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"exercisepack/internal/config"
	"exercisepack/submission"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var version = "0.0.0"

const usage = `usage: exercisepack <command> [flags]

commands:
  prepare-stub        derive the student-facing stub from an exercise
  prepare-solution    derive the model solution from an exercise
  prepare-submission  package a submission for grading
`

// paramFlag collects repeated -param KEY=VALUE flags. A comma separated
// value becomes an array parameter.
type paramFlag struct {
	params *submission.Params
}

func (p *paramFlag) String() string { return "" }

func (p *paramFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("parameter %q is not of the form KEY=VALUE", raw)
	}
	if strings.Contains(value, ",") {
		return p.params.InsertArray(key, strings.Split(value, ","))
	}
	return p.params.InsertString(key, value)
}

func run(args []string, zapLogger *zap.Logger) int {
	defer func() { _ = zapLogger.Sync() }()
	zapLogger.Info("starting exercisepack", zap.String("version", version), zap.String("commit", config.Commit))

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "prepare-stub", "prepare-solution":
		err = runPrepareTree(args[0], args[1:], zapLogger)
	case "prepare-submission":
		err = runPrepareSubmission(args[1:], zapLogger)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
	if err != nil {
		zapLogger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		return 1
	}
	return 0
}

func runPrepareTree(command string, args []string, zapLogger *zap.Logger) error {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	source := flags.String("source", "", "exercise source directory")
	output := flags.String("output", "", "destination directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *source == "" || *output == "" {
		return fmt.Errorf("%s requires -source and -output", command)
	}

	proc := submission.NewProcessor(zapLogger.Named("processor"), &afero.Afero{Fs: afero.NewOsFs()})
	if command == "prepare-solution" {
		return proc.PrepareSolution(*source, *output)
	}
	return proc.PrepareStub(*source, *output)
}

func runPrepareSubmission(args []string, zapLogger *zap.Logger) error {
	flags := flag.NewFlagSet("prepare-submission", flag.ContinueOnError)
	archive := flags.String("archive", "", "submitted zip archive")
	clone := flags.String("clone", "", "instructor exercise clone directory")
	output := flags.String("output", "", "output archive path")
	topLevelDir := flags.String("top-level-dir", "", "wrap archive entries in this directory")
	stub := flags.String("stub", "", "stub archive supplying test-side files")
	outputZip := flags.Bool("zip", false, "write a zip instead of a tar archive")
	params := &paramFlag{params: submission.NewParams()}
	flags.Var(params, "param", "grading parameter KEY=VALUE, repeatable")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *archive == "" || *clone == "" || *output == "" {
		return fmt.Errorf("prepare-submission requires -archive, -clone and -output")
	}

	packager := submission.NewPackager(zapLogger.Named("packager"))
	return packager.Prepare(submission.PrepareOptions{
		SubmissionArchive: *archive,
		OutputPath:        *output,
		TopLevelDirName:   *topLevelDir,
		Params:            params.params,
		ClonePath:         *clone,
		StubArchivePath:   *stub,
		OutputZip:         *outputZip,
	})
}
