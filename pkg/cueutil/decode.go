// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxSize bounds the size of a decoded document.
const DefaultMaxSize int64 = 4 << 20

type (
	// Option configures Decode.
	Option func(*options)

	options struct {
		filename string
		maxSize  int64
		concrete bool
	}
)

// WithFilename sets the name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxSize overrides DefaultMaxSize.
func WithMaxSize(n int64) Option {
	return func(o *options) { o.maxSize = n }
}

// WithConcrete controls whether every field must have a concrete value after
// unification. Defaults to true; optional config files turn it off.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// Decode unifies data with the definition def of schema and decodes the
// result into a new T. Errors carry the document name and the JSON path of
// the offending field.
func Decode[T any](schema []byte, def string, data []byte, opts ...Option) (*T, error) {
	o := options{filename: "<input>", maxSize: DefaultMaxSize, concrete: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckSize(data, o.maxSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(def))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s: %w", def, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &out, nil
}

// CheckSize fails when data is larger than maxSize.
func CheckSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
