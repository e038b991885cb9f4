// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers build component archives (ZipArchive, MustWriteZip) and
// lay out project trees (MustMkdirAll, MustWriteFile).
package testutil
