/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package plugin

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// csharpPlugin recognizes C# projects by the presence of a .csproj file
// anywhere under src.
var csharpPlugin LanguagePlugin = &langPlugin{
	name:   "csharp",
	layout: LayoutGeneric,
	detect: func(fs *afero.Afero, path string) bool {
		fsys := afero.NewIOFS(afero.NewBasePathFs(fs.Fs, path))
		matches, err := doublestar.Glob(fsys, "src/**/*.csproj", doublestar.WithFilesOnly())
		return err == nil && len(matches) > 0
	},
	isSourceFile: func(rel string) bool {
		if !strings.HasPrefix(rel, "src"+string(filepath.Separator)) {
			return false
		}
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			if part == "bin" || part == "obj" {
				return false
			}
		}
		return true
	},
	studentPaths:  []string{"src"},
	exercisePaths: []string{"test"},
}
