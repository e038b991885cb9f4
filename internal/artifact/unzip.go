// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Unzip extracts the archive in data into dest. When every entry lives
// below a single top-level directory named strip, that directory level is
// dropped. Entries escaping dest are rejected.
func Unzip(ctx context.Context, data []byte, dest, strip string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	prefix := ""
	if strip != "" && allBelow(reader.File, strip+"/") {
		prefix = strip + "/"
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := strings.TrimPrefix(file.Name, prefix)
		if name == "" {
			continue
		}

		destPath := filepath.Join(dest, filepath.FromSlash(name))
		relPath, relErr := filepath.Rel(dest, destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return fmt.Errorf("invalid path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
		if err := extractFile(file, destPath); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func allBelow(files []*zip.File, prefix string) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if f.Name != strings.TrimSuffix(prefix, "/")+"/" && !strings.HasPrefix(f.Name, prefix) {
			return false
		}
	}
	return true
}

func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: archives come from the configured course server
	_, err = io.Copy(destFile, rc)
	return err
}
