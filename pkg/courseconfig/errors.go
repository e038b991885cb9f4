// SPDX-License-Identifier: MPL-2.0

package courseconfig

import (
	"errors"
	"fmt"
)

// ErrMalformedConfiguration is the sentinel for documents that cannot be
// turned into a course.
var ErrMalformedConfiguration = errors.New("malformed course configuration")

// MalformedConfigurationError reports why the document at Origin was rejected.
// It is fatal for the course load.
type MalformedConfigurationError struct {
	Origin string
	Err    error
}

// Error implements the error interface.
func (e *MalformedConfigurationError) Error() string {
	return fmt.Sprintf("malformed course configuration %s: %v", e.Origin, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *MalformedConfigurationError) Unwrap() []error {
	return []error{ErrMalformedConfiguration, e.Err}
}
