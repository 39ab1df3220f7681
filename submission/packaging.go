/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package submission

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"exercisepack/internal/archive"
	"exercisepack/internal/config"
	"exercisepack/internal/fsutil"
	"exercisepack/plugin"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNoProjectRoot is returned when a submitted archive contains no
// recognizable project.
var ErrNoProjectRoot = errors.New("no project directory found in archive")

// PrepareOptions are the inputs for packaging one submission.
type PrepareOptions struct {
	// SubmissionArchive is the zip returned by the student.
	SubmissionArchive string
	// OutputPath receives the final archive. Written atomically.
	OutputPath string
	// TopLevelDirName, when set, prefixes every archive entry.
	TopLevelDirName string
	// Params are serialized into the .tmcparams file.
	Params *Params
	// ClonePath is the instructor's exercise clone.
	ClonePath string
	// StubArchivePath optionally supplies test-side files from the
	// unmodified stub instead of the clone.
	StubArchivePath string
	// OutputZip selects zip output instead of POSIX tar.
	OutputZip bool
}

// Packager reconstructs gradable submission archives by merging student
// files with the instructor's exercise files. It operates on the host
// filesystem; independent Prepare calls may run concurrently since each
// uses its own scratch directory.
type Packager struct {
	log *zap.Logger
	fs  *afero.Afero
}

// NewPackager creates a Packager backed by the host filesystem.
func NewPackager(log *zap.Logger) *Packager {
	return &Packager{
		log: log,
		fs:  &afero.Afero{Fs: afero.NewOsFs()},
	}
}

// Prepare unpacks a student's submission, merges it with the instructor
// clone per the ecosystem's packaging layout and writes the result as a
// zip or tar archive. Any failure aborts without leaving partial output
// at OutputPath.
func (p *Packager) Prepare(opts PrepareOptions) (err error) {
	p.log.Info("preparing submission",
		zap.String("archive", opts.SubmissionArchive),
		zap.String("clone", opts.ClonePath),
		zap.String("output", opts.OutputPath))

	scratch, err := os.MkdirTemp("", "exercisepack-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		err = multierr.Append(err, os.RemoveAll(scratch))
	}()

	received := filepath.Join(scratch, "received")
	if err := archive.Unzip(opts.SubmissionArchive, received, isJunkName); err != nil {
		return err
	}

	projectRoot, err := plugin.FindProjectRoot(p.fs, received)
	if err != nil {
		return err
	}
	if projectRoot == "" {
		return fmt.Errorf("%w: %v", ErrNoProjectRoot, opts.SubmissionArchive)
	}
	p.log.Debug("found project root", zap.String("root", projectRoot))

	plug, err := plugin.Get(p.fs, projectRoot)
	if err != nil {
		return err
	}
	p.log.Debug("resolved plugin", zap.String("plugin", plug.Name()))

	// test-side files come from the stub archive when given
	testsDir := opts.ClonePath
	if opts.StubArchivePath != "" {
		stubDir := filepath.Join(scratch, "stub")
		if err := archive.Unzip(opts.StubArchivePath, stubDir, isJunkName); err != nil {
			return err
		}
		stubRoot, err := plugin.FindProjectRoot(p.fs, stubDir)
		if err != nil {
			return err
		}
		if stubRoot == "" {
			return fmt.Errorf("%w: %v", ErrNoProjectRoot, opts.StubArchivePath)
		}
		testsDir = stubRoot
	}

	dest := filepath.Join(scratch, "dest")
	if err := p.writeParams(dest, opts.Params); err != nil {
		return err
	}
	if err := p.copyIDEDirs(projectRoot, opts.ClonePath, dest); err != nil {
		return err
	}
	if err := p.mergeLayout(plug, projectRoot, testsDir, opts.ClonePath, dest); err != nil {
		return err
	}
	if err := p.copyExtraStudentFiles(opts.ClonePath, projectRoot, dest); err != nil {
		return err
	}

	return p.writeArchive(dest, opts)
}

// isJunkName matches OS and editor noise entries dropped during
// extraction.
func isJunkName(name string) bool {
	for _, junk := range config.ArchiveJunkNames {
		if name == junk {
			return true
		}
	}
	return false
}

func (p *Packager) writeParams(dest string, params *Params) (err error) {
	if err := p.fs.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create dir %v: %w", dest, err)
	}
	if params == nil {
		params = NewParams()
	}
	path := filepath.Join(dest, config.ParamsFileName)
	p.log.Debug("writing params", zap.String("path", path))
	file, err := p.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()
	return params.Write(file)
}

// copyIDEDirs carries IDE metadata from the received project when
// present, else from the instructor clone.
func (p *Packager) copyIDEDirs(projectRoot, clonePath, dest string) error {
	for _, ide := range config.IDEDirs {
		inReceived := filepath.Join(projectRoot, ide)
		inClone := filepath.Join(clonePath, ide)
		if ok, _ := p.fs.Exists(inReceived); ok {
			if err := fsutil.CopyInto(p.fs, inReceived, dest); err != nil {
				return err
			}
		} else if ok, _ := p.fs.Exists(inClone); ok {
			if err := fsutil.CopyInto(p.fs, inClone, dest); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeLayout applies the ecosystem's packaging shape.
func (p *Packager) mergeLayout(plug plugin.LanguagePlugin, projectRoot, testsDir, clonePath, dest string) error {
	switch plug.Layout() {
	case plugin.LayoutMaven:
		return p.mergeMaven(plug, projectRoot, testsDir, clonePath, dest)
	case plugin.LayoutMake:
		return p.mergeMake(testsDir, clonePath, dest)
	default:
		return p.mergeGeneric(plug, projectRoot, testsDir, clonePath, dest)
	}
}

// mergeMaven: build descriptor and src/main from the clone, src/test from
// the test source, then the configured path lists with parent structure
// preserved, then the clone's top-level files.
func (p *Packager) mergeMaven(plug plugin.LanguagePlugin, projectRoot, testsDir, clonePath, dest string) error {
	if err := fsutil.CopyFile(p.fs, filepath.Join(clonePath, "pom.xml"), filepath.Join(dest, "pom.xml")); err != nil {
		return err
	}
	mainPath := filepath.Join(clonePath, "src", "main")
	if ok, _ := p.fs.DirExists(mainPath); ok {
		if err := fsutil.CopyInto(p.fs, mainPath, filepath.Join(dest, "src")); err != nil {
			return err
		}
	}
	testPath := filepath.Join(testsDir, "src", "test")
	if ok, _ := p.fs.DirExists(testPath); ok {
		if err := fsutil.CopyInto(p.fs, testPath, filepath.Join(dest, "src")); err != nil {
			return err
		}
	}

	cfg, err := plug.PackagingConfiguration(p.fs, clonePath)
	if err != nil {
		return err
	}
	for _, path := range cfg.StudentFilePaths {
		if err := p.copyConfiguredPath(projectRoot, dest, path, true); err != nil {
			return err
		}
	}
	for _, path := range cfg.ExerciseFilePaths {
		if err := p.copyConfiguredPath(testsDir, dest, path, true); err != nil {
			return err
		}
	}
	return fsutil.CopyTopLevelFiles(p.fs, clonePath, dest)
}

// mergeMake: the clone's src and test trees plus the test source's
// top-level files.
func (p *Packager) mergeMake(testsDir, clonePath, dest string) error {
	for _, dir := range []string{"src", "test"} {
		path := filepath.Join(clonePath, dir)
		if ok, _ := p.fs.DirExists(path); ok {
			if err := fsutil.CopyInto(p.fs, path, dest); err != nil {
				return err
			}
		}
	}
	return fsutil.CopyTopLevelFiles(p.fs, testsDir, dest)
}

// mergeGeneric: the clone's lib directory, the configured path lists
// flattened into the destination root, then the clone's top-level files.
func (p *Packager) mergeGeneric(plug plugin.LanguagePlugin, projectRoot, testsDir, clonePath, dest string) error {
	libDir := filepath.Join(clonePath, "lib")
	if ok, _ := p.fs.DirExists(libDir); ok {
		if err := fsutil.CopyInto(p.fs, libDir, dest); err != nil {
			return err
		}
	}

	cfg, err := plug.PackagingConfiguration(p.fs, clonePath)
	if err != nil {
		return err
	}
	for _, path := range cfg.StudentFilePaths {
		if err := p.copyConfiguredPath(projectRoot, dest, path, false); err != nil {
			return err
		}
	}
	for _, path := range cfg.ExerciseFilePaths {
		if err := p.copyConfiguredPath(testsDir, dest, path, false); err != nil {
			return err
		}
	}
	return fsutil.CopyTopLevelFiles(p.fs, clonePath, dest)
}

// copyConfiguredPath copies one configured relative path from sourceRoot
// into dest, either preserving its parent structure or flattened into the
// destination root.
func (p *Packager) copyConfiguredPath(sourceRoot, dest, relPath string, preserveParents bool) error {
	src := filepath.Join(sourceRoot, filepath.FromSlash(relPath))
	ok, err := p.fs.Exists(src)
	if err != nil || !ok {
		return err
	}
	target := dest
	if preserveParents {
		if parent := filepath.Dir(filepath.FromSlash(relPath)); parent != "." {
			target = filepath.Join(dest, parent)
		}
	}
	return fsutil.CopyInto(p.fs, src, target)
}

// copyExtraStudentFiles preserves the student's extra files named in the
// clone's project config.
func (p *Packager) copyExtraStudentFiles(clonePath, projectRoot, dest string) error {
	cfg, err := config.Load(p.fs, clonePath)
	if err != nil {
		return err
	}
	for _, extra := range cfg.ExtraStudentFiles {
		src := filepath.Join(projectRoot, filepath.FromSlash(extra))
		ok, err := p.fs.Exists(src)
		if err != nil {
			return err
		}
		if ok {
			if err := fsutil.Copy(p.fs, src, filepath.Join(dest, filepath.FromSlash(extra))); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeArchive emits the destination tree as the final artifact. The
// archive is written to a temp file and renamed so a failure never leaves
// partial output at OutputPath.
func (p *Packager) writeArchive(dest string, opts PrepareOptions) error {
	outDir := filepath.Dir(opts.OutputPath)
	if err := p.fs.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create dir %v: %w", outDir, err)
	}
	tmp, err := os.CreateTemp(outDir, ".exercisepack-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %v: %w", tmpPath, err)
	}

	p.log.Debug("writing archive", zap.String("path", opts.OutputPath), zap.Bool("zip", opts.OutputZip))
	if opts.OutputZip {
		err = archive.ZipDir(dest, tmpPath, opts.TopLevelDirName)
	} else {
		err = archive.TarDir(dest, tmpPath, opts.TopLevelDirName)
	}
	if err != nil {
		return multierr.Append(err, os.Remove(tmpPath))
	}
	if err := os.Rename(tmpPath, opts.OutputPath); err != nil {
		return multierr.Append(fmt.Errorf("failed to move archive to %v: %w", opts.OutputPath, err), os.Remove(tmpPath))
	}
	return nil
}
