// SPDX-License-Identifier: MPL-2.0

// Package install fetches, writes and publishes the state of course
// components.
//
// At most one install of a component is in flight at a time: the move into
// course.StateInstalling is a compare-and-swap and losing callers are told
// the install is already in progress. An invalidation that happens while an
// install is running always wins; the installer commits StateInstalled only
// if the component is still registered and nobody wrote its state since the
// install began.
package install
