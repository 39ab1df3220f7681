/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

// Package policy decides which files of an exercise belong to the student
// and which to the exercise author.
package policy

import (
	"path/filepath"
	"strings"

	"exercisepack/internal/config"

	"github.com/spf13/afero"
)

// Classification is the ownership verdict for a single path.
type Classification int

// Classification values. ExerciseFile is the default for anything not
// recognizably owned by the student.
const (
	ExerciseFile Classification = iota
	StudentFile
	ForceUpdated
)

func (c Classification) String() string {
	switch c {
	case StudentFile:
		return "student-file"
	case ForceUpdated:
		return "force-updated"
	default:
		return "exercise-file"
	}
}

// StudentFilePolicy answers ownership questions for exercise paths.
//
// Student files are any files the student is expected to create or modify.
// They are preserved across exercise updates and included in submissions.
type StudentFilePolicy interface {
	// Classify determines the ownership of path within the given project.
	Classify(path, projectRoot string, cfg config.ProjectConfig) (Classification, error)
	// IsStudentSourceFile is the ecosystem heuristic, applied to a path
	// relative to the project root.
	IsStudentSourceFile(relPath string) bool
	// ConfigParentPath is the directory holding the config sidecar.
	ConfigParentPath() string
	// IsUpdatingForced reports whether path is under a force_update
	// directory. Consulted only during exercise updates.
	IsUpdatingForced(path string, cfg config.ProjectConfig) (bool, error)
}

// Base implements the default classification algorithm on top of an
// ecosystem-specific source-file heuristic.
type Base struct {
	fs           *afero.Afero
	configParent string
	isSourceFile func(relPath string) bool
}

// NewBase creates a policy rooted at configParent. The isSourceFile
// heuristic receives paths relative to the project root.
func NewBase(fs *afero.Afero, configParent string, isSourceFile func(string) bool) *Base {
	return &Base{
		fs:           fs,
		configParent: configParent,
		isSourceFile: isSourceFile,
	}
}

// Classify implements the default decision procedure. Paths that do not
// exist, the config sidecar and the project root itself are always
// exercise files; extra_exercise_files containment overrides the
// heuristic.
func (b *Base) Classify(path, projectRoot string, cfg config.ProjectConfig) (Classification, error) {
	exists, err := b.fs.Exists(path)
	if err != nil {
		return ExerciseFile, err
	}
	if !exists {
		return ExerciseFile, nil
	}
	if filepath.Base(path) == config.ProjectConfigFileName {
		return ExerciseFile, nil
	}

	forced, err := b.IsUpdatingForced(path, cfg)
	if err != nil {
		return ExerciseFile, err
	}
	if forced {
		return ForceUpdated, nil
	}

	extraExercise, err := b.isUnderConfigDirs(path, cfg.ExtraExerciseFiles, true)
	if err != nil {
		return ExerciseFile, err
	}
	if extraExercise {
		return ExerciseFile, nil
	}

	if filepath.Clean(path) == filepath.Clean(projectRoot) {
		return ExerciseFile, nil
	}

	extraStudent, err := b.isUnderConfigDirs(path, cfg.ExtraStudentFiles, false)
	if err != nil {
		return ExerciseFile, err
	}
	if extraStudent {
		return StudentFile, nil
	}

	rel, err := filepath.Rel(projectRoot, path)
	if err != nil {
		rel = path
	}
	if b.isSourceFile(rel) {
		return StudentFile, nil
	}
	return ExerciseFile, nil
}

// IsStudentSourceFile applies the ecosystem heuristic.
func (b *Base) IsStudentSourceFile(relPath string) bool {
	return b.isSourceFile(relPath)
}

// ConfigParentPath returns the directory containing the config sidecar.
func (b *Base) ConfigParentPath() string {
	return b.configParent
}

// IsUpdatingForced reports whether path falls under a force_update
// directory of the config.
func (b *Base) IsUpdatingForced(path string, cfg config.ProjectConfig) (bool, error) {
	return b.isUnderConfigDirs(path, cfg.ForceUpdate, true)
}

// isUnderConfigDirs checks whether path equals or falls under any of the
// given config-relative entries. With dirOnly set, entries that are not
// directories on disk are skipped.
func (b *Base) isUnderConfigDirs(path string, entries []string, dirOnly bool) (bool, error) {
	cleaned := filepath.Clean(path)
	for _, entry := range entries {
		root := filepath.Join(b.configParent, entry)
		if dirOnly {
			isDir, err := b.fs.DirExists(root)
			if err != nil {
				return false, err
			}
			if !isDir {
				continue
			}
		}
		if cleaned == root || isWithin(root, cleaned) {
			return true, nil
		}
	}
	return false, nil
}

// isWithin reports whether path lies strictly under dir.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
