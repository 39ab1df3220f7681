/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Load reads the project config sidecar from the given project root. A
// missing sidecar yields the zero config; malformed YAML is an error.
// Unknown keys are ignored.
func Load(fs *afero.Afero, projectRoot string) (cfg ProjectConfig, err error) {
	path := filepath.Join(projectRoot, ProjectConfigFileName)
	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ProjectConfig{}, nil
		}
		return ProjectConfig{}, fmt.Errorf("failed to open project config %v: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// empty sidecar
			return ProjectConfig{}, nil
		}
		return ProjectConfig{}, fmt.Errorf("failed to parse project config %v: %w", path, err)
	}
	return cfg, nil
}
