// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// LibraryDir is the directory below the project root that holds libraries.
const LibraryDir = course.LibraryDir

// Layout maps components to directories below Root.
type Layout struct {
	Root string
}

// NewLayout returns a layout rooted at the absolute form of root.
func NewLayout(root string) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Root: abs}, nil
}

// Dir returns the directory of the named component.
func (l Layout) Dir(kind course.Kind, name course.ComponentName) string {
	if kind == course.KindLibrary {
		return filepath.Join(l.Root, LibraryDir, string(name))
	}
	return filepath.Join(l.Root, string(name))
}

// Probe reports StateInstalled when the component directory exists.
func (l Layout) Probe(kind course.Kind, name course.ComponentName) course.State {
	info, err := os.Stat(l.Dir(kind, name))
	if err == nil && info.IsDir() {
		return course.StateInstalled
	}
	return course.StateNotInstalled
}

// Resolve returns the kind and name of the component whose directory is
// path or contains it. Paths outside Root, Root itself and hidden entries
// resolve to nothing. The library directory itself resolves to KindLibrary
// with an empty name, standing for every library.
func (l Layout) Resolve(path string) (course.Kind, course.ComponentName, bool) {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] == LibraryDir {
		if len(parts) < 2 || parts[1] == "" {
			return course.KindLibrary, "", true
		}
		if strings.HasPrefix(parts[1], ".") {
			return "", "", false
		}
		return course.KindLibrary, course.ComponentName(parts[1]), true
	}
	if strings.HasPrefix(parts[0], ".") {
		return "", "", false
	}
	return course.KindModule, course.ComponentName(parts[0]), true
}
