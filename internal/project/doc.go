// SPDX-License-Identifier: MPL-2.0

// Package project keeps the bookkeeping coursekit stores inside a project
// directory: the selected course, the settings-import state and the
// imported project settings.
package project
