// SPDX-License-Identifier: MPL-2.0

// Package artifact materialises fetched component archives in a project
// directory and maps project paths back to components.
//
// Modules live in <root>/<name>, libraries in <root>/lib/<name>. The same
// layout answers three questions: where a component is written, whether it
// is already present when a course is loaded, and which component a deleted
// path belonged to.
package artifact
