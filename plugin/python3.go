/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package plugin

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// python3Plugin recognizes Python projects. Compiled caches are never
// student files even when they live under src.
var python3Plugin LanguagePlugin = &langPlugin{
	name:   "python3",
	layout: LayoutGeneric,
	detect: func(fs *afero.Afero, path string) bool {
		for _, marker := range []string{"setup.py", "requirements.txt", filepath.Join("src", "__main__.py"), filepath.Join("tmc", "__main__.py")} {
			if fileExists(fs, filepath.Join(path, marker)) {
				return true
			}
		}
		return false
	},
	isSourceFile: func(rel string) bool {
		if !strings.HasPrefix(rel, "src"+string(filepath.Separator)) {
			return false
		}
		if filepath.Ext(rel) == ".pyc" {
			return false
		}
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			if part == "__pycache__" {
				return false
			}
		}
		return true
	},
	studentPaths:  []string{"src"},
	exercisePaths: []string{"test", "tmc"},
}
