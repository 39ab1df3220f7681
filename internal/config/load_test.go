/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoad(t *testing.T) {
	defer goleak.VerifyNone(t)
	testCases := map[string]struct {
		content   *string
		expectErr bool
		want      ProjectConfig
	}{
		"all keys": {
			content: strPtr(`
extra_student_files:
  - test/StudentTest.java
  - test/OtherTest.java
extra_exercise_files:
  - assets
force_update:
  - lib
`),
			want: ProjectConfig{
				ExtraStudentFiles:  []string{"test/StudentTest.java", "test/OtherTest.java"},
				ExtraExerciseFiles: []string{"assets"},
				ForceUpdate:        []string{"lib"},
			},
		},
		"missing file": {
			content: nil,
			want:    ProjectConfig{},
		},
		"empty file": {
			content: strPtr(""),
			want:    ProjectConfig{},
		},
		"unknown keys ignored": {
			content: strPtr("some_future_key: true\nextra_student_files:\n  - notes.txt\n"),
			want:    ProjectConfig{ExtraStudentFiles: []string{"notes.txt"}},
		},
		"malformed yaml": {
			content:   strPtr(":\n\t- broken"),
			expectErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			fs := &afero.Afero{Fs: afero.NewMemMapFs()}
			require.NoError(fs.MkdirAll("/exercise", 0o755))
			if tc.content != nil {
				require.NoError(fs.WriteFile("/exercise/"+ProjectConfigFileName, []byte(*tc.content), 0o644))
			}

			cfg, err := Load(fs, "/exercise")
			if tc.expectErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(tc.want, cfg)
		})
	}
}

func strPtr(s string) *string { return &s }
