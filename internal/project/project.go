// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MetaDir is the project subdirectory owned by coursekit.
	MetaDir = ".coursekit"
	// CourseFileName holds the URL or path of the selected course.
	CourseFileName = "course-url"
	// StateFileName holds the settings-import state.
	StateFileName = "state.cue"
	// SettingsDirName receives the unpacked project settings.
	SettingsDirName = "settings"
)

// ErrNoCourse is returned when no course has been selected for the project.
var ErrNoCourse = errors.New("no course selected for project")

// Project is a directory that components are installed into.
type Project struct {
	dir string
}

// Open returns the project rooted at the absolute form of dir. The directory
// must exist.
func Open(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open project: %s is not a directory", abs)
	}
	return &Project{dir: abs}, nil
}

// Dir returns the project root.
func (p *Project) Dir() string { return p.dir }

// MetaPath joins elem below the coursekit metadata directory.
func (p *Project) MetaPath(elem ...string) string {
	return filepath.Join(append([]string{p.dir, MetaDir}, elem...)...)
}

// SettingsDir returns where project settings are unpacked.
func (p *Project) SettingsDir() string { return p.MetaPath(SettingsDirName) }

// CourseURL returns the recorded course location, or ErrNoCourse.
func (p *Project) CourseURL() (string, error) {
	data, err := os.ReadFile(p.MetaPath(CourseFileName))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoCourse
	}
	if err != nil {
		return "", fmt.Errorf("read course file: %w", err)
	}
	url := strings.TrimSpace(string(data))
	if url == "" {
		return "", ErrNoCourse
	}
	return url, nil
}

// SetCourseURL records the course location.
func (p *Project) SetCourseURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("course url must not be empty")
	}
	return p.writeMeta(CourseFileName, []byte(url+"\n"))
}

func (p *Project) writeMeta(name string, data []byte) error {
	if err := os.MkdirAll(p.MetaPath(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", MetaDir, err)
	}

	// Write to a sibling and rename so readers never observe a torn file.
	path := p.MetaPath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
