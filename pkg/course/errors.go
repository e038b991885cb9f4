// SPDX-License-Identifier: MPL-2.0

package course

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateComponent is the sentinel wrapped by DuplicateComponentError.
	ErrDuplicateComponent = errors.New("duplicate component")
	// ErrUnknownComponent is the sentinel wrapped by UnknownComponentError.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrInconsistentGraph is the sentinel wrapped by InconsistentGraphError.
	ErrInconsistentGraph = errors.New("inconsistent component graph")
	// ErrInvalidComponentName is the sentinel wrapped by InvalidComponentNameError.
	ErrInvalidComponentName = errors.New("invalid component name")
	// ErrInvalidCourse is returned when a course definition lacks required fields.
	ErrInvalidCourse = errors.New("invalid course")
)

type (
	// DuplicateComponentError is returned when a component name is registered twice.
	DuplicateComponentError struct {
		Name ComponentName
	}

	// UnknownComponentError is returned when a lookup names no registered component.
	UnknownComponentError struct {
		Name ComponentName
	}

	// MissingDependency is one unresolved dependency edge.
	MissingDependency struct {
		Component  ComponentName
		Dependency ComponentName
	}

	// InconsistentGraphError lists every dependency name that does not resolve
	// to a component of the same graph.
	InconsistentGraphError struct {
		Missing []MissingDependency
	}
)

// Error implements the error interface.
func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %q is already registered", string(e.Name))
}

// Unwrap returns ErrDuplicateComponent for errors.Is() compatibility.
func (e *DuplicateComponentError) Unwrap() error { return ErrDuplicateComponent }

// Error implements the error interface.
func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("no component named %q", string(e.Name))
}

// Unwrap returns ErrUnknownComponent for errors.Is() compatibility.
func (e *UnknownComponentError) Unwrap() error { return ErrUnknownComponent }

// Error implements the error interface.
func (e *InconsistentGraphError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s -> %s", m.Component, m.Dependency))
	}
	return fmt.Sprintf("unresolved dependencies: %s", strings.Join(parts, ", "))
}

// Unwrap returns ErrInconsistentGraph for errors.Is() compatibility.
func (e *InconsistentGraphError) Unwrap() error { return ErrInconsistentGraph }
