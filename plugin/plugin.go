/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

// Package plugin resolves exercise directories to their source-code
// ecosystem and supplies the per-ecosystem student file policy and
// packaging layout.
package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"exercisepack/internal/config"
	"exercisepack/policy"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when no ecosystem matches a project root.
var ErrNotFound = errors.New("no matching plugin found")

// Layout selects the packaging merge shape used by the submission
// packager.
type Layout int

// The three recognized packaging shapes.
const (
	LayoutGeneric Layout = iota
	LayoutMaven
	LayoutMake
)

// PackagingConfiguration lists the relative paths copied from the student
// submission and from the exercise clone when packaging.
type PackagingConfiguration struct {
	StudentFilePaths  []string
	ExerciseFilePaths []string
}

// LanguagePlugin describes one supported source-code ecosystem. Plugins
// are stateless; the registry is a closed set resolved once per project
// root.
type LanguagePlugin interface {
	Name() string
	Layout() Layout
	// IsExerciseTypeCorrect checks whether the directory looks like a
	// project of this ecosystem.
	IsExerciseTypeCorrect(fs *afero.Afero, path string) bool
	// StudentFilePolicy builds the ecosystem policy for a project root.
	StudentFilePolicy(fs *afero.Afero, projectRoot string) policy.StudentFilePolicy
	// PackagingConfiguration merges the ecosystem's default path lists with
	// the project config extras.
	PackagingConfiguration(fs *afero.Afero, projectRoot string) (PackagingConfiguration, error)
}

// langPlugin is the shared implementation backing every registered
// ecosystem.
type langPlugin struct {
	name          string
	layout        Layout
	detect        func(fs *afero.Afero, path string) bool
	isSourceFile  func(relPath string) bool
	studentPaths  []string
	exercisePaths []string
}

func (p *langPlugin) Name() string   { return p.name }
func (p *langPlugin) Layout() Layout { return p.layout }

func (p *langPlugin) IsExerciseTypeCorrect(fs *afero.Afero, path string) bool {
	return p.detect(fs, path)
}

func (p *langPlugin) StudentFilePolicy(fs *afero.Afero, projectRoot string) policy.StudentFilePolicy {
	return policy.NewBase(fs, projectRoot, p.isSourceFile)
}

func (p *langPlugin) PackagingConfiguration(fs *afero.Afero, projectRoot string) (PackagingConfiguration, error) {
	cfg, err := config.Load(fs, projectRoot)
	if err != nil {
		return PackagingConfiguration{}, err
	}
	return PackagingConfiguration{
		StudentFilePaths:  append(append([]string{}, p.studentPaths...), cfg.ExtraStudentFiles...),
		ExerciseFilePaths: append(append([]string{}, p.exercisePaths...), cfg.ExtraExerciseFiles...),
	}, nil
}

// registry is the closed, ordered set of supported ecosystems. Order
// matters: Maven is checked before Ant since Maven projects may carry a
// build.xml as well.
var registry = []LanguagePlugin{
	mavenPlugin,
	antPlugin,
	makePlugin,
	python3Plugin,
	csharpPlugin,
}

// Get resolves the ecosystem of a project root.
func Get(fs *afero.Afero, projectRoot string) (LanguagePlugin, error) {
	for _, p := range registry {
		if p.IsExerciseTypeCorrect(fs, projectRoot) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w for %v", ErrNotFound, projectRoot)
}

// FindProjectRoot searches root breadth-first for the first directory
// recognized by any registered ecosystem. Candidates at the same depth are
// visited in lexicographic order so the result is deterministic. Returns
// an empty string when nothing matches.
func FindProjectRoot(fs *afero.Afero, root string) (string, error) {
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		for _, p := range registry {
			if p.IsExerciseTypeCorrect(fs, dir) {
				return dir, nil
			}
		}

		entries, err := fs.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("failed to read directory %v: %w", dir, err)
		}
		var children []string
		for _, entry := range entries {
			if entry.IsDir() {
				children = append(children, filepath.Join(dir, entry.Name()))
			}
		}
		sort.Strings(children)
		queue = append(queue, children...)
	}
	return "", nil
}

func fileExists(fs *afero.Afero, path string) bool {
	ok, err := fs.Exists(path)
	return err == nil && ok
}
