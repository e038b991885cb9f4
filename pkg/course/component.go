// SPDX-License-Identifier: MPL-2.0

package course

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	// KindModule is a code module materialised as its own directory in the project.
	KindModule Kind = "module"
	// KindLibrary is a library shared by modules.
	KindLibrary Kind = "library"

	// LibraryDir is the project directory that holds libraries. Modules live
	// beside it, so no module may take its name.
	LibraryDir = "lib"
)

// componentNamePattern allows the names course configurations use for modules
// and libraries, e.g. "O1", "GoodStuff", "scala-sdk-2.13.1".
var componentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]*$`)

type (
	// ComponentName is the unique key of a component within its course.
	ComponentName string

	// InvalidComponentNameError is returned when a ComponentName does not match
	// the expected format. It wraps ErrInvalidComponentName.
	InvalidComponentNameError struct {
		Value ComponentName
	}

	// ReservedComponentNameError is returned for a module named like the
	// library directory. It wraps ErrInvalidComponentName.
	ReservedComponentNameError struct {
		Name ComponentName
	}

	// Kind discriminates modules from libraries.
	Kind string

	// Component is an installable unit of a course. It references its
	// dependencies by name only and does not own their lifecycle.
	Component struct {
		name         ComponentName
		kind         Kind
		url          string
		dependencies []ComponentName
		course       *Course
		state        *StateMonitor
	}
)

// String returns the string representation of the ComponentName.
func (n ComponentName) String() string { return string(n) }

// Validate returns nil if the name is non-empty, starts with a letter and
// contains only letters, digits, dots, underscores or hyphens.
func (n ComponentName) Validate() error {
	if !componentNamePattern.MatchString(string(n)) {
		return &InvalidComponentNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidComponentNameError) Error() string {
	return fmt.Sprintf(
		"invalid component name %q: must start with a letter and contain only letters, digits, dots, underscores, or hyphens",
		string(e.Value),
	)
}

// Unwrap returns ErrInvalidComponentName for errors.Is() compatibility.
func (e *InvalidComponentNameError) Unwrap() error { return ErrInvalidComponentName }

// Error implements the error interface.
func (e *ReservedComponentNameError) Error() string {
	return fmt.Sprintf("module name %q is reserved for the library directory", string(e.Name))
}

// Unwrap returns ErrInvalidComponentName for errors.Is() compatibility.
func (e *ReservedComponentNameError) Unwrap() error { return ErrInvalidComponentName }

// Validate checks the name and, for modules, that the name does not collide
// with LibraryDir. The comparison ignores case for case-insensitive file systems.
func (c *Component) Validate() error {
	if err := c.name.Validate(); err != nil {
		return err
	}
	if c.kind == KindModule && strings.EqualFold(string(c.name), LibraryDir) {
		return &ReservedComponentNameError{Name: c.name}
	}
	return nil
}

// NewModule creates a module whose artifact is fetched from url.
func NewModule(name ComponentName, url string, dependencies []ComponentName, initial State) *Component {
	return newComponent(name, KindModule, url, dependencies, initial)
}

// NewLibrary creates a library. url may be empty for libraries the host
// environment provides itself.
func NewLibrary(name ComponentName, url string, dependencies []ComponentName, initial State) *Component {
	return newComponent(name, KindLibrary, url, dependencies, initial)
}

func newComponent(name ComponentName, kind Kind, url string, dependencies []ComponentName, initial State) *Component {
	return &Component{
		name:         name,
		kind:         kind,
		url:          url,
		dependencies: slices.Clone(dependencies),
		state:        NewStateMonitor(initial),
	}
}

// Name returns the component name.
func (c *Component) Name() ComponentName { return c.name }

// Kind returns whether the component is a module or a library.
func (c *Component) Kind() Kind { return c.kind }

// URL returns the artifact location, empty if the component cannot be fetched.
func (c *Component) URL() string { return c.url }

// Dependencies returns a copy of the names this component requires.
func (c *Component) Dependencies() []ComponentName { return slices.Clone(c.dependencies) }

// DependsOn reports whether name is a direct dependency.
func (c *Component) DependsOn(name ComponentName) bool {
	return slices.Contains(c.dependencies, name)
}

// Course returns the owning course, nil until the component is added to one.
func (c *Component) Course() *Course { return c.course }

// State returns the monitor tracking this component's installation state.
func (c *Component) State() *StateMonitor { return c.state }

// String returns "<kind> <name>".
func (c *Component) String() string {
	return fmt.Sprintf("%s %s", c.kind, c.name)
}
