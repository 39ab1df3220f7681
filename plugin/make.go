/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package plugin

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// makePlugin recognizes C projects driven by a Makefile.
var makePlugin LanguagePlugin = &langPlugin{
	name:   "make",
	layout: LayoutMake,
	detect: func(fs *afero.Afero, path string) bool {
		return fileExists(fs, filepath.Join(path, "Makefile"))
	},
	isSourceFile: func(rel string) bool {
		return strings.HasPrefix(rel, "src"+string(filepath.Separator))
	},
	studentPaths:  []string{"src"},
	exercisePaths: []string{"test"},
}
