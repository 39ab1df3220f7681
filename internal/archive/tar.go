/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	moby "github.com/moby/go-archive"
	"go.uber.org/multierr"
)

// TarDir writes the tree rooted at srcDir into an uncompressed POSIX tar
// archive at outPath. With a prefix, every entry is rebased under it;
// without one, entries are relative to srcDir.
func TarDir(srcDir, outPath, prefix string) (err error) {
	var stream io.ReadCloser
	if prefix == "" {
		stream, err = moby.TarWithOptions(srcDir, &moby.TarOptions{})
	} else {
		base := filepath.Base(srcDir)
		stream, err = moby.TarWithOptions(filepath.Dir(srcDir), &moby.TarOptions{
			IncludeFiles: []string{base},
			RebaseNames:  map[string]string{base: prefix},
		})
	}
	if err != nil {
		return fmt.Errorf("failed to tar %v: %w", srcDir, err)
	}
	defer func() {
		err = multierr.Append(err, stream.Close())
	}()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %v: %w", outPath, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if _, err := io.Copy(out, stream); err != nil {
		return fmt.Errorf("failed to write archive %v: %w", outPath, err)
	}
	return nil
}
