/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

// Package fsutil provides filesystem copy helpers shared by the exercise
// processing and packaging pipelines.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Copy copies src to dst. Directories are copied recursively, files
// byte-for-byte. Parent directories of dst are created as needed.
func Copy(fs *afero.Afero, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %v: %w", src, err)
	}
	if info.IsDir() {
		return copyDir(fs, src, dst)
	}
	return CopyFile(fs, src, dst)
}

// CopyInto copies src into destDir, keeping its base name.
func CopyInto(fs *afero.Afero, src, destDir string) error {
	return Copy(fs, src, filepath.Join(destDir, filepath.Base(src)))
}

// CopyFile copies a single regular file, creating parent directories.
func CopyFile(fs *afero.Afero, src, dst string) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %v: %w", src, err)
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create dir %v: %w", filepath.Dir(dst), err)
	}
	out, err := fs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", dst, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %v to %v: %w", src, dst, err)
	}
	return nil
}

func copyDir(fs *afero.Afero, src, dst string) error {
	return fs.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		return CopyFile(fs, path, target)
	})
}

// CopyTopLevelFiles copies the regular files directly under srcDir into
// destDir, non-recursively.
func CopyTopLevelFiles(fs *afero.Afero, srcDir, destDir string) error {
	entries, err := fs.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read dir %v: %w", srcDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := CopyFile(fs, filepath.Join(srcDir, entry.Name()), filepath.Join(destDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
