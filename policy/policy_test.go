/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package policy

import (
	"path/filepath"
	"strings"
	"testing"

	"exercisepack/internal/config"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// pythonSource mirrors the Python ecosystem heuristic for testing the base
// classification independently of the plugin registry.
func pythonSource(rel string) bool {
	if !isWithin("src", rel) {
		return false
	}
	if strings.HasSuffix(rel, ".pyc") {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "__pycache__" {
			return false
		}
	}
	return true
}

func TestClassify(t *testing.T) {
	defer goleak.VerifyNone(t)
	cfg := config.ProjectConfig{
		ExtraStudentFiles:  []string{"userdata/notes.txt"},
		ExtraExerciseFiles: []string{"src/generated"},
		ForceUpdate:        []string{"lib"},
	}
	files := []string{
		"/proj/src/main.py",
		"/proj/src/util.pyc",
		"/proj/src/__pycache__/main.cpython-311.pyc",
		"/proj/src/generated/api.py",
		"/proj/test/test_main.py",
		"/proj/userdata/notes.txt",
		"/proj/lib/helper.py",
		"/proj/" + config.ProjectConfigFileName,
	}

	testCases := map[string]struct {
		path string
		want Classification
	}{
		"source file under src": {
			path: "/proj/src/main.py",
			want: StudentFile,
		},
		"pyc is not student owned": {
			path: "/proj/src/util.pyc",
			want: ExerciseFile,
		},
		"pycache is not student owned": {
			path: "/proj/src/__pycache__/main.cpython-311.pyc",
			want: ExerciseFile,
		},
		"extra exercise dir overrides heuristic": {
			path: "/proj/src/generated/api.py",
			want: ExerciseFile,
		},
		"test file is exercise owned": {
			path: "/proj/test/test_main.py",
			want: ExerciseFile,
		},
		"extra student file": {
			path: "/proj/userdata/notes.txt",
			want: StudentFile,
		},
		"force updated dir": {
			path: "/proj/lib/helper.py",
			want: ForceUpdated,
		},
		"config sidecar": {
			path: "/proj/" + config.ProjectConfigFileName,
			want: ExerciseFile,
		},
		"project root": {
			path: "/proj",
			want: ExerciseFile,
		},
		"nonexistent path": {
			path: "/proj/src/missing.py",
			want: ExerciseFile,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			fs := &afero.Afero{Fs: afero.NewMemMapFs()}
			for _, f := range files {
				require.NoError(fs.WriteFile(f, []byte("content"), 0o644))
			}
			policy := NewBase(fs, "/proj", pythonSource)

			got, err := policy.Classify(tc.path, "/proj", cfg)
			require.NoError(err)
			assert.Equal(tc.want, got, "path %s", tc.path)
		})
	}
}

func TestIsUpdatingForced(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	fs := &afero.Afero{Fs: afero.NewMemMapFs()}
	require.NoError(fs.WriteFile("/proj/lib/dep.jar", []byte{1, 2}, 0o644))
	require.NoError(fs.WriteFile("/proj/src/Main.java", []byte("x"), 0o644))
	policy := NewBase(fs, "/proj", func(string) bool { return false })
	cfg := config.ProjectConfig{ForceUpdate: []string{"lib"}}

	forced, err := policy.IsUpdatingForced("/proj/lib/dep.jar", cfg)
	require.NoError(err)
	assert.True(forced)

	forced, err = policy.IsUpdatingForced("/proj/src/Main.java", cfg)
	require.NoError(err)
	assert.False(forced)
}

func TestDegeneratePolicies(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	cfg := config.ProjectConfig{}

	nothing := NewNothing()
	got, err := nothing.Classify("/proj/src/main.py", "/proj", cfg)
	require.NoError(err)
	assert.Equal(ExerciseFile, got)
	assert.False(nothing.IsStudentSourceFile("src/main.py"))

	everything := NewEverything("/proj")
	got, err = everything.Classify("/proj/anything.txt", "/proj", cfg)
	require.NoError(err)
	assert.Equal(StudentFile, got)

	// the sidecar and the root are never student files, for any policy
	got, err = everything.Classify("/proj/"+config.ProjectConfigFileName, "/proj", cfg)
	require.NoError(err)
	assert.Equal(ExerciseFile, got)
	got, err = everything.Classify("/proj", "/proj", cfg)
	require.NoError(err)
	assert.Equal(ExerciseFile, got)
}
