// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// ErrWrite is the sentinel for failures materialising an artifact.
var ErrWrite = errors.New("artifact write failed")

type (
	// WriteError reports that Component could not be written to Path.
	WriteError struct {
		Component course.ComponentName
		Path      string
		Err       error
	}

	// ZipWriter extracts component archives into a Layout. An existing
	// component directory is replaced only after the new content has been
	// extracted completely.
	ZipWriter struct {
		layout Layout
		logger *slog.Logger
	}
)

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s to %s: %v", e.Component, e.Path, e.Err)
}

// Unwrap returns ErrWrite and the underlying cause.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

// NewZipWriter creates a writer for layout. A nil logger selects slog.Default().
func NewZipWriter(layout Layout, logger *slog.Logger) *ZipWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZipWriter{layout: layout, logger: logger}
}

// Layout returns the layout the writer extracts into.
func (w *ZipWriter) Layout() Layout { return w.layout }

// Write extracts data, a zip archive, into the directory of c.
func (w *ZipWriter) Write(ctx context.Context, c *course.Component, data []byte) error {
	dest := w.layout.Dir(c.Kind(), c.Name())
	fail := func(err error) error {
		return &WriteError{Component: c.Name(), Path: dest, Err: err}
	}
	if err := c.Validate(); err != nil {
		return fail(err)
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fail(err)
	}
	staging, err := os.MkdirTemp(parent, "."+string(c.Name())+"-*")
	if err != nil {
		return fail(err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := Unzip(ctx, data, staging, string(c.Name())); err != nil {
		return fail(err)
	}

	if err := os.RemoveAll(dest); err != nil {
		return fail(fmt.Errorf("remove previous content: %w", err))
	}
	if err := os.Rename(staging, dest); err != nil {
		return fail(err)
	}

	w.logger.Debug("artifact written", "component", c.Name(), "path", dest, "bytes", len(data))
	return nil
}

// Remove deletes the directory of c. A missing directory is not an error.
func (w *ZipWriter) Remove(c *course.Component) error {
	dest := w.layout.Dir(c.Kind(), c.Name())
	if err := c.Validate(); err != nil {
		return &WriteError{Component: c.Name(), Path: dest, Err: err}
	}
	if err := os.RemoveAll(dest); err != nil {
		return &WriteError{Component: c.Name(), Path: dest, Err: err}
	}
	return nil
}
