// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes user documents against embedded CUE schemas.
//
// Course configuration documents and the application config file share one
// flow: compile the schema, compile the document (CUE is a superset of JSON,
// so plain JSON course files are accepted), unify with the schema definition,
// validate and decode into a Go value.
//
//	//go:embed course_schema.cue
//	var schema []byte
//
//	doc, err := cueutil.Decode[document](schema, "#Course", data,
//	    cueutil.WithFilename(origin))
package cueutil
