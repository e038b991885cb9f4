// SPDX-License-Identifier: MPL-2.0

// Package course models the installable components of a course and their
// lifecycle inside a host development environment.
//
// # Model
//
//   - [Course]: identity, name, ordered components, resource URLs
//   - [Component]: a module or library, referenced by [ComponentName], with the
//     names of the components it depends on
//   - [StateMonitor]: the installation state of exactly one component
//
// # Dependency graph
//
// [Graph] indexes the components of one course load by name. Dependents
// (reverse dependency edges) are derived on every call rather than cached, the
// graph of a course is small and rebuilt on every load.
//
// Removal of a component, either of its host registration or of its files on
// disk, is reported through [Graph.OnComponentRemove] and
// [Graph.OnComponentFilesDeleted]. Both mark the component as [StateError] and
// cascade the invalidation through all transitive dependents. A component whose
// dependency is gone cannot be trusted even if its own artifact is present.
//
// Nothing in this package touches the network, the filesystem or the host
// runtime; those collaborators are wired by the callers.
package course
