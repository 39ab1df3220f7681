/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

// Package archive packs and unpacks the zip and tar containers used for
// exercise submissions. It operates on the host filesystem since the
// underlying container libraries do.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Unzip extracts the archive at src into dest. Entries for which skip
// returns true (matched by any path component) are dropped. Entry paths
// escaping dest are rejected.
func Unzip(src, dest string, skip func(name string) bool) (err error) {
	reader, err := zip.OpenReader(src)
	if err != nil {
		// insecure entry paths yield a usable reader alongside the error
		if reader != nil {
			err = multierr.Append(err, reader.Close())
		}
		return fmt.Errorf("failed to read archive %v: %w", src, err)
	}
	defer func() {
		err = multierr.Append(err, reader.Close())
	}()

	for _, file := range reader.File {
		name := filepath.FromSlash(file.Name)
		if skipEntry(name, skip) {
			continue
		}
		target := filepath.Join(dest, name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(filepath.Separator)) {
			return fmt.Errorf("archive entry %v escapes destination", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create dir %v: %w", target, err)
			}
			continue
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func skipEntry(name string, skip func(string) bool) bool {
	if skip == nil {
		return false
	}
	for _, part := range strings.Split(name, string(filepath.Separator)) {
		if skip(part) {
			return true
		}
	}
	return false
}

func extractFile(file *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create dir %v: %w", filepath.Dir(target), err)
	}
	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %v: %w", file.Name, err)
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", target, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to extract %v: %w", file.Name, err)
	}
	return nil
}

// ZipDir writes the tree rooted at srcDir into a zip archive at outPath.
// Entry paths are relative to srcDir, use forward slashes and carry the
// optional prefix.
func ZipDir(srcDir, outPath, prefix string) (err error) {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %v: %w", outPath, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	writer := zip.NewWriter(out)
	defer func() {
		err = multierr.Append(err, writer.Close())
	}()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if path == srcDir {
			return nil
		}
		rel, rerr := filepath.Rel(srcDir, path)
		if rerr != nil {
			return rerr
		}
		name := filepath.ToSlash(rel)
		if prefix != "" {
			name = prefix + "/" + name
		}
		if info.IsDir() {
			_, derr := writer.Create(name + "/")
			return derr
		}
		entry, eerr := writer.Create(name)
		if eerr != nil {
			return eerr
		}
		file, oerr := os.Open(path)
		if oerr != nil {
			return fmt.Errorf("failed to open %v: %w", path, oerr)
		}
		defer file.Close()
		if _, cerr := io.Copy(entry, file); cerr != nil {
			return fmt.Errorf("failed to add %v to archive: %w", path, cerr)
		}
		return nil
	})
}
