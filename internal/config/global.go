/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package config

import (
	"runtime/debug"
)

// Commit identifies the build in the startup log. Empty when the binary
// was built outside version control.
var Commit = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}()

// Process-wide tables for exercise processing, read-only after
// initialization.
var (
	// SkipPatterns are glob patterns for directory and file names that are
	// never copied into processed output trees.
	SkipPatterns = []string{".tmcrc", "metadata.yml", "*Hidden*", "private"}

	// BinaryExtensions lists file extensions copied verbatim instead of
	// being run through the tag parser. Files without an extension are
	// treated as binary as well.
	BinaryExtensions = []string{"class", "jar", "exe", "jpg", "jpeg", "gif", "png", "zip", "tar", "gz", "db", "bin", "csv", "tsv"}

	// ArchiveJunkNames are OS and editor noise entries filtered out when
	// unpacking submitted archives.
	ArchiveJunkNames = []string{".DS_Store", "desktop.ini", "Thumbs.db", ".directory", "__MACOSX"}

	// IDEDirs are IDE metadata directories carried into the packaged
	// submission when present.
	IDEDirs = []string{"nbproject", ".classpath", ".project", ".settings", ".idea"}
)

const (
	// ProjectConfigFileName is the YAML sidecar at the exercise root.
	ProjectConfigFileName = ".tmcproject.yml"
	// IgnoreFileName marks a directory as excluded from processing.
	IgnoreFileName = ".tmcignore"
	// ParamsFileName is the parameter file written into packaged submissions.
	ParamsFileName = ".tmcparams"
)
