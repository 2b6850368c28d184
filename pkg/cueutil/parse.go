// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the documents parsed unless WithMaxFileSize
// says otherwise.
const DefaultMaxFileSize int64 = 5 << 20

type (
	// ParseResult holds a decoded document.
	ParseResult[T any] struct {
		Value *T
		// Unified is the document unified with its schema, for callers that
		// need fields the Go struct does not carry.
		Unified cue.Value
	}

	// Option adjusts a parse.
	Option func(*parseOptions)

	parseOptions struct {
		maxFileSize int64
		filename    string
	}
)

// WithMaxFileSize replaces DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) { o.maxFileSize = size }
}

// WithFilename names the document in error positions.
func WithFilename(name string) Option {
	return func(o *parseOptions) { o.filename = name }
}

// ParseAndDecode compiles data, unifies it with the schemaPath definition of
// schema, validates the result and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := applyOptions(opts)
	filename := options.filename

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	return unifyAndDecode[T](ctx, schema, userValue, schemaPath, options)
}

// ParseAndDecodeString is a convenience wrapper that accepts schema as string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// ParseAndDecodeValue encodes an already decoded Go value (for example a
// YAML document unmarshalled into map[string]any) and runs it through the
// same unify, validate and decode steps as ParseAndDecode.
func ParseAndDecodeValue[T any](schema []byte, value any, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := applyOptions(opts)
	filename := options.filename

	ctx := cuecontext.New()
	userValue := ctx.Encode(value)
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	return unifyAndDecode[T](ctx, schema, userValue, schemaPath, options)
}

func applyOptions(opts []Option) parseOptions {
	options := parseOptions{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&options)
	}
	if options.filename == "" {
		options.filename = "<input>"
	}
	return options
}

func unifyAndDecode[T any](ctx *cue.Context, schema []byte, userValue cue.Value, schemaPath string, options parseOptions) (*ParseResult[T], error) {
	filename := options.filename

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}
