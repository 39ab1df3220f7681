/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

// Package submission derives stub and solution trees from instructor
// exercise sources and reassembles gradable submission archives.
package submission

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"exercisepack/internal/config"
	"exercisepack/metasyntax"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// KeepFunc decides whether a parsed span is kept in the output file.
type KeepFunc func(metasyntax.Span) bool

// SolutionFilter keeps everything except stub stand-in lines, yielding
// the instructor's reference implementation.
func SolutionFilter(s metasyntax.Span) bool {
	return s.Kind != metasyntax.Stub
}

// StubFilter keeps everything except solution regions and hidden
// regions; files carrying the solution-file marker are skipped entirely.
func StubFilter(s metasyntax.Span) bool {
	return s.Kind != metasyntax.Solution && s.Kind != metasyntax.Hidden && s.Kind != metasyntax.SolutionFileMarker
}

// Processor walks an exercise tree and mirrors it into a destination,
// filtering tagged text files and copying binary files verbatim.
type Processor struct {
	log *zap.Logger
	fs  *afero.Afero
}

// NewProcessor creates a Processor operating on the given filesystem.
func NewProcessor(log *zap.Logger, fs *afero.Afero) *Processor {
	return &Processor{log: log, fs: fs}
}

// PrepareSolution derives the instructor's reference tree: stub stand-in
// lines are removed, solution regions are kept.
func (p *Processor) PrepareSolution(sourceRoot, destRoot string) error {
	return p.Process(sourceRoot, destRoot, SolutionFilter)
}

// PrepareStub derives the student-facing tree: solution regions are
// removed and solution-only files are dropped.
func (p *Processor) PrepareStub(sourceRoot, destRoot string) error {
	return p.Process(sourceRoot, destRoot, StubFilter)
}

// Process walks sourceRoot and mirrors every retained file under
// destRoot. Hidden directories, skip-listed names and directories
// containing an ignore file are pruned. Walk errors on individual entries
// are logged and skipped; copy and parse errors abort.
func (p *Processor) Process(sourceRoot, destRoot string, keep KeepFunc) error {
	p.log.Info("processing exercise tree", zap.String("source", sourceRoot), zap.String("dest", destRoot))
	return p.fs.Walk(sourceRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			p.log.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path == sourceRoot {
				return nil
			}
			prune, err := p.pruneDir(path, info.Name())
			if err != nil {
				return err
			}
			if prune {
				p.log.Debug("pruning directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if onSkipList(info.Name()) {
			p.log.Debug("on skip list", zap.String("path", path))
			return nil
		}
		return p.copyFile(path, sourceRoot, destRoot, keep)
	})
}

// pruneDir reports whether a directory is excluded from the walk.
func (p *Processor) pruneDir(path, name string) (bool, error) {
	if strings.HasPrefix(name, ".") {
		return true, nil
	}
	if onSkipList(name) {
		return true, nil
	}
	hasIgnore, err := p.fs.Exists(filepath.Join(path, config.IgnoreFileName))
	if err != nil {
		return false, fmt.Errorf("failed to check %v: %w", path, err)
	}
	return hasIgnore, nil
}

// onSkipList matches an entry name against the permanent skip patterns.
func onSkipList(name string) bool {
	for _, pattern := range config.SkipPatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// isBinary reports whether the extension is on the verbatim-copy
// allowlist. Files without an extension count as binary.
func isBinary(ext string) bool {
	if ext == "" {
		return true
	}
	for _, b := range config.BinaryExtensions {
		if ext == b {
			return true
		}
	}
	return false
}

// copyFile mirrors one file into the destination tree, filtering text
// files through the tag parser.
func (p *Processor) copyFile(path, sourceRoot, destRoot string, keep KeepFunc) (err error) {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil {
		return fmt.Errorf("failed to relativize %v: %w", path, err)
	}
	destPath := filepath.Join(destRoot, rel)
	if err := p.fs.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create dir %v: %w", filepath.Dir(destPath), err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if isBinary(ext) {
		p.log.Debug("copying binary file", zap.String("from", path), zap.String("to", destPath))
		content, err := p.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %v: %w", path, err)
		}
		if err := p.fs.WriteFile(destPath, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %v: %w", destPath, err)
		}
		return nil
	}

	p.log.Debug("filtering text file", zap.String("from", path), zap.String("to", destPath))
	file, err := p.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %v: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	spans, err := metasyntax.Parse(file, ext)
	if err != nil {
		return fmt.Errorf("failed to parse %v: %w", path, err)
	}

	var out bytes.Buffer
	for _, span := range spans {
		if span.Kind == metasyntax.SolutionFileMarker && !keep(span) {
			p.log.Debug("skipping solution file", zap.String("path", path))
			return nil
		}
		if keep(span) {
			out.WriteString(span.Text)
		}
	}
	if err := p.fs.WriteFile(destPath, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %v: %w", destPath, err)
	}
	return nil
}
