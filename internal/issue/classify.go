// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"

	"github.com/aplus-courses/coursekit/internal/artifact"
	"github.com/aplus-courses/coursekit/internal/fetch"
	"github.com/aplus-courses/coursekit/internal/install"
	"github.com/aplus-courses/coursekit/pkg/course"
	"github.com/aplus-courses/coursekit/pkg/courseconfig"
)

// ForInstall describes a failed install of the named component.
func ForInstall(err error, name course.ComponentName) *ActionableError {
	if err == nil {
		return nil
	}
	ec := NewErrorContext().WithOperation("install component").WithResource(string(name)).Wrap(err)
	decorate(ec, err)
	return ec.Build()
}

// ForCourseLoad describes a failure to load the course at location.
func ForCourseLoad(err error, location string) *ActionableError {
	if err == nil {
		return nil
	}
	ec := NewErrorContext().WithOperation("load course").WithResource(location).Wrap(err)
	if !decorate(ec, err) {
		ec.WithIssue(CourseLoadFailedId).
			WithSuggestion("Check the course URL and run 'coursekit init' again if it changed")
	}
	return ec.Build()
}

// ForConfig describes a failure to load the configuration file at path.
func ForConfig(err error, path string) *ActionableError {
	if err == nil {
		return nil
	}
	return NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(ConfigLoadFailedId).
		WithSuggestion("Run 'coursekit config show' to see the effective configuration").
		Wrap(err).
		Build()
}

// decorate adds the issue and suggestions matching err. It reports whether
// err belonged to a known class.
func decorate(ec *ErrorContext, err error) bool {
	var (
		inconsistent *course.InconsistentGraphError
		writeErr     *artifact.WriteError
	)

	switch {
	case errors.Is(err, courseconfig.ErrMalformedConfiguration):
		ec.WithIssue(MalformedCourseId).
			WithSuggestion("Make sure the URL points at a course configuration document")
	case errors.As(err, &inconsistent):
		ec.WithIssue(InconsistentCourseId)
		for _, m := range inconsistent.Missing {
			ec.WithSuggestion(string(m.Component) + " depends on undefined " + string(m.Dependency))
		}
	case errors.Is(err, course.ErrUnknownComponent):
		ec.WithIssue(ComponentNotFoundId).
			WithSuggestion("Run 'coursekit status' to list the course components")
	case errors.Is(err, fetch.ErrAuthentication):
		ec.WithIssue(AuthenticationFailedId).
			WithSuggestion("Re-authenticate: create a new token and export it in the configured token variable")
	case errors.Is(err, fetch.ErrNetwork):
		ec.WithIssue(NetworkUnavailableId).
			WithSuggestion("Check your network connection and retry")
	case errors.Is(err, fetch.ErrUnexpectedResponse):
		ec.WithIssue(UnexpectedResponseId).
			WithSuggestion("Retry later or report the URL to the course staff")
	case errors.Is(err, fs.ErrPermission):
		ec.WithIssue(PermissionDeniedId).
			WithSuggestion("Check the permissions of the project directory")
	case errors.As(err, &writeErr):
		ec.WithIssue(InstallFailedId).
			WithSuggestion("Check free disk space and retry the install")
	case errors.Is(err, install.ErrNotInstallable):
		ec.WithSuggestion("This library is provided by the development environment and cannot be installed")
	default:
		return false
	}
	return true
}
