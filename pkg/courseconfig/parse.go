// SPDX-License-Identifier: MPL-2.0

package courseconfig

import (
	_ "embed"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/aplus-courses/coursekit/pkg/course"
	"github.com/aplus-courses/coursekit/pkg/cueutil"
)

//go:embed course_schema.cue
var courseSchema []byte

type (
	// StateProber reports the initial state of a component about to be
	// constructed, usually by looking for its artifact in the project.
	StateProber interface {
		Probe(kind course.Kind, name course.ComponentName) course.State
	}

	// StateProberFunc adapts a function to StateProber.
	StateProberFunc func(kind course.Kind, name course.ComponentName) course.State

	document struct {
		ID              string            `json:"id"`
		Name            string            `json:"name"`
		Modules         []componentEntry  `json:"modules"`
		Libraries       []componentEntry  `json:"libraries"`
		Resources       map[string]string `json:"resources"`
		RequiredPlugins map[string]string `json:"requiredPlugins"`
	}

	componentEntry struct {
		Name         string   `json:"name"`
		URL          string   `json:"url"`
		Dependencies []string `json:"dependencies"`
	}
)

// Probe calls f.
func (f StateProberFunc) Probe(kind course.Kind, name course.ComponentName) course.State {
	return f(kind, name)
}

// NotInstalled is a StateProber that treats every component as absent.
var NotInstalled StateProber = StateProberFunc(func(course.Kind, course.ComponentName) course.State {
	return course.StateNotInstalled
})

// Parse validates data against the course schema and constructs a course.
// origin names the document in errors and seeds the identifier when the
// document has none. A nil prober behaves like NotInstalled.
func Parse(data []byte, origin string, prober StateProber) (*course.Course, error) {
	if prober == nil {
		prober = NotInstalled
	}

	doc, err := cueutil.Decode[document](courseSchema, "#Course", data, cueutil.WithFilename(origin))
	if err != nil {
		return nil, &MalformedConfigurationError{Origin: origin, Err: err}
	}

	id := doc.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(origin)).String()
	}

	components := make([]*course.Component, 0, len(doc.Modules)+len(doc.Libraries))
	for _, m := range doc.Modules {
		name := course.ComponentName(m.Name)
		components = append(components,
			course.NewModule(name, m.URL, names(m.Dependencies), prober.Probe(course.KindModule, name)))
	}
	for _, l := range doc.Libraries {
		name := course.ComponentName(l.Name)
		components = append(components,
			course.NewLibrary(name, l.URL, names(l.Dependencies), prober.Probe(course.KindLibrary, name)))
	}

	c, err := course.NewCourse(course.Definition{
		ID:              id,
		Name:            doc.Name,
		Origin:          origin,
		Components:      components,
		ResourceURLs:    maps.Clone(doc.Resources),
		RequiredPlugins: maps.Clone(doc.RequiredPlugins),
	})
	if err != nil {
		return nil, &MalformedConfigurationError{Origin: origin, Err: fmt.Errorf("build course: %w", err)}
	}
	return c, nil
}

func names(in []string) []course.ComponentName {
	out := make([]course.ComponentName, len(in))
	for i, s := range in {
		out[i] = course.ComponentName(s)
	}
	return out
}
