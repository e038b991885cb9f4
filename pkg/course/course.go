// SPDX-License-Identifier: MPL-2.0

package course

import (
	"fmt"
	"maps"
	"slices"
)

const (
	// ResourceIDESettings names the resource holding the IDE settings archive.
	ResourceIDESettings = "ideSettings"
	// ResourceProjectSettings names the resource holding the project settings archive.
	ResourceProjectSettings = "projectSettings"
)

type (
	// Definition carries everything needed to construct a Course.
	Definition struct {
		ID              string
		Name            string
		Origin          string
		Components      []*Component
		ResourceURLs    map[string]string
		RequiredPlugins map[string]string
	}

	// Course is one loaded course configuration. It lives while the course is
	// open and is discarded, not persisted, when it is closed or reloaded.
	Course struct {
		id              string
		name            string
		origin          string
		components      []*Component
		resourceURLs    map[string]string
		requiredPlugins map[string]string
	}
)

// NewCourse validates def and attaches every component to the new course.
// Component names must be valid and unique, and no module may be named
// LibraryDir.
func NewCourse(def Definition) (*Course, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidCourse)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidCourse)
	}

	seen := make(map[ComponentName]struct{}, len(def.Components))
	for _, c := range def.Components {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[c.Name()]; dup {
			return nil, &DuplicateComponentError{Name: c.Name()}
		}
		seen[c.Name()] = struct{}{}
	}

	crs := &Course{
		id:              def.ID,
		name:            def.Name,
		origin:          def.Origin,
		components:      slices.Clone(def.Components),
		resourceURLs:    maps.Clone(def.ResourceURLs),
		requiredPlugins: maps.Clone(def.RequiredPlugins),
	}
	if crs.resourceURLs == nil {
		crs.resourceURLs = map[string]string{}
	}
	if crs.requiredPlugins == nil {
		crs.requiredPlugins = map[string]string{}
	}
	for _, c := range crs.components {
		c.course = crs
	}
	return crs, nil
}

// ID returns the course identifier.
func (c *Course) ID() string { return c.id }

// Name returns the course name.
func (c *Course) Name() string { return c.name }

// Origin returns where the course configuration was loaded from.
func (c *Course) Origin() string { return c.origin }

// Components returns the components in configuration order.
func (c *Course) Components() []*Component { return slices.Clone(c.components) }

// Modules returns only the module components, in configuration order.
func (c *Course) Modules() []*Component { return c.ofKind(KindModule) }

// Libraries returns only the library components, in configuration order.
func (c *Course) Libraries() []*Component { return c.ofKind(KindLibrary) }

func (c *Course) ofKind(k Kind) []*Component {
	var out []*Component
	for _, comp := range c.components {
		if comp.kind == k {
			out = append(out, comp)
		}
	}
	return out
}

// ResourceURL returns the URL registered under key.
func (c *Course) ResourceURL(key string) (string, bool) {
	u, ok := c.resourceURLs[key]
	return u, ok
}

// ResourceURLs returns a copy of all resource URLs.
func (c *Course) ResourceURLs() map[string]string { return maps.Clone(c.resourceURLs) }

// RequiredPlugins returns a copy of the plugin id -> display name map.
func (c *Course) RequiredPlugins() map[string]string { return maps.Clone(c.requiredPlugins) }
