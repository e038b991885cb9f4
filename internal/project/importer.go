// SPDX-License-Identifier: MPL-2.0

package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aplus-courses/coursekit/internal/artifact"
	"github.com/aplus-courses/coursekit/pkg/course"
)

// IDESettingsDirName is the directory below the config dir that receives the
// IDE settings archive.
const IDESettingsDirName = "ide-settings"

type (
	// Fetcher downloads settings archives.
	Fetcher interface {
		Fetch(ctx context.Context, url string) ([]byte, error)
	}

	// Importer unpacks the settings archives a course publishes as resources.
	Importer struct {
		fetcher   Fetcher
		configDir string
		logger    *slog.Logger
	}
)

// NewImporter creates an importer that unpacks IDE settings below configDir.
func NewImporter(f Fetcher, configDir string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{fetcher: f, configDir: configDir, logger: logger}
}

// IDESettingsDir returns where IDE settings are unpacked.
func (im *Importer) IDESettingsDir() string {
	return filepath.Join(im.configDir, IDESettingsDirName)
}

// ImportProjectSettings unpacks the course's project settings archive into
// the project. It reports false when the course publishes none.
func (im *Importer) ImportProjectSettings(ctx context.Context, p *Project, c *course.Course) (bool, error) {
	url, ok := c.ResourceURL(course.ResourceProjectSettings)
	if !ok || url == "" {
		return false, nil
	}
	if err := im.unpack(ctx, url, p.SettingsDir()); err != nil {
		return false, fmt.Errorf("import project settings: %w", err)
	}
	im.logger.Info("project settings imported", "course", c.ID(), "dir", p.SettingsDir())
	return true, nil
}

// ImportIDESettings unpacks the course's IDE settings archive unless st shows
// they were already imported for this course. On success st is updated and
// saved to the project.
func (im *Importer) ImportIDESettings(ctx context.Context, p *Project, c *course.Course, st *SettingsState) (bool, error) {
	url, ok := c.ResourceURL(course.ResourceIDESettings)
	if !ok || url == "" {
		return false, nil
	}
	if st.ImportedIDESettings == c.ID() {
		im.logger.Debug("ide settings already imported", "course", c.ID())
		return false, nil
	}

	if err := im.unpack(ctx, url, im.IDESettingsDir()); err != nil {
		return false, fmt.Errorf("import ide settings: %w", err)
	}

	st.ImportedIDESettings = c.ID()
	if err := p.SaveState(st); err != nil {
		return true, err
	}
	im.logger.Info("ide settings imported", "course", c.ID(), "dir", im.IDESettingsDir())
	return true, nil
}

// unpack replaces dest with the contents of the archive at url.
func (im *Importer) unpack(ctx context.Context, url, dest string) error {
	data, err := im.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	staging := dest + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return err
	}
	if err := artifact.Unzip(ctx, data, staging, ""); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	if err := os.RemoveAll(dest); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	return os.Rename(staging, dest)
}
