/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package policy

import (
	"path/filepath"

	"exercisepack/internal/config"
)

// Nothing is a policy where no file is ever a student file.
type Nothing struct{}

// NewNothing creates a policy that classifies everything as exercise-owned.
func NewNothing() *Nothing {
	return &Nothing{}
}

// Classify always yields ExerciseFile.
func (*Nothing) Classify(_, _ string, _ config.ProjectConfig) (Classification, error) {
	return ExerciseFile, nil
}

// IsStudentSourceFile is always false.
func (*Nothing) IsStudentSourceFile(string) bool { return false }

// ConfigParentPath returns the empty path.
func (*Nothing) ConfigParentPath() string { return "" }

// IsUpdatingForced is always false.
func (*Nothing) IsUpdatingForced(string, config.ProjectConfig) (bool, error) {
	return false, nil
}

// Everything is a policy where every file is a student file, apart from
// the project root and the config sidecar, which are never student-owned.
type Everything struct {
	configParent string
}

// NewEverything creates a policy that classifies all regular files as
// student-owned.
func NewEverything(configParent string) *Everything {
	return &Everything{configParent: configParent}
}

// Classify yields StudentFile for everything except the project root and
// the config sidecar.
func (e *Everything) Classify(path, projectRoot string, _ config.ProjectConfig) (Classification, error) {
	if filepath.Base(path) == config.ProjectConfigFileName {
		return ExerciseFile, nil
	}
	if filepath.Clean(path) == filepath.Clean(projectRoot) {
		return ExerciseFile, nil
	}
	return StudentFile, nil
}

// IsStudentSourceFile is always true.
func (*Everything) IsStudentSourceFile(string) bool { return true }

// ConfigParentPath returns the configured sidecar directory.
func (e *Everything) ConfigParentPath() string { return e.configParent }

// IsUpdatingForced is always false.
func (*Everything) IsUpdatingForced(string, config.ProjectConfig) (bool, error) {
	return false, nil
}
