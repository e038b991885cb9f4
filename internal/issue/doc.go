// SPDX-License-Identifier: MPL-2.0

// Package issue turns coursekit failures into user-facing errors.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing the problem. The Issue catalog holds longer
// Markdown guidance per failure class, rendered with glamour when the CLI
// runs in verbose mode. Classify maps the error taxonomy of the course,
// fetch, artifact and install packages onto both.
package issue
