/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package config

// ProjectConfig is the per-exercise configuration loaded from the
// .tmcproject.yml sidecar at the project root. It lists exceptions to the
// default student-file classification. Immutable after load.
type ProjectConfig struct {
	// ExtraStudentFiles are relative paths owned by the student even though
	// the ecosystem heuristic would not consider them student files.
	ExtraStudentFiles []string `yaml:"extra_student_files"`
	// ExtraExerciseFiles are relative directories that are always
	// exercise-owned, overriding the source-file heuristic.
	ExtraExerciseFiles []string `yaml:"extra_exercise_files"`
	// ForceUpdate lists relative directories whose contents are always
	// overwritten when an exercise is updated.
	ForceUpdate []string `yaml:"force_update"`
}
