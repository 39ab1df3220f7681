/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package plugin

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// mavenPlugin recognizes Java projects built with Maven. Student code
// lives under src/main, tests under src/test.
var mavenPlugin LanguagePlugin = &langPlugin{
	name:   "maven",
	layout: LayoutMaven,
	detect: func(fs *afero.Afero, path string) bool {
		return fileExists(fs, filepath.Join(path, "pom.xml"))
	},
	isSourceFile: func(rel string) bool {
		return strings.HasPrefix(rel, "src"+string(filepath.Separator)+"main"+string(filepath.Separator))
	},
	studentPaths:  []string{"src/main"},
	exercisePaths: []string{"src/test"},
}
