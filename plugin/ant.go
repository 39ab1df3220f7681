/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package plugin

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// antPlugin recognizes Java projects built with Apache Ant. Student code
// lives directly under src.
var antPlugin LanguagePlugin = &langPlugin{
	name:   "ant",
	layout: LayoutGeneric,
	detect: func(fs *afero.Afero, path string) bool {
		return fileExists(fs, filepath.Join(path, "build.xml"))
	},
	isSourceFile: func(rel string) bool {
		return strings.HasPrefix(rel, "src"+string(filepath.Separator))
	},
	studentPaths:  []string{"src"},
	exercisePaths: []string{"test", "lib"},
}
