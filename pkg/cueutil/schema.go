// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled CUE definition that raw data trees are validated
// against. A Schema is safe for concurrent use.
type Schema struct {
	mu         sync.Mutex
	ctx        *cue.Context
	def        cue.Value
	definition string
	label      string
}

// CompileSchema compiles src and looks up definition (e.g. "#Core").
func CompileSchema(src []byte, definition string, opts ...Option) (*Schema, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<schema>"
	}

	if err := CheckFileSize(src, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(src, cue.Filename(filename))
	if schemaValue.Err() != nil {
		return nil, newSchemaError(schemaValue.Err(), filename)
	}

	def := schemaValue.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return nil, fmt.Errorf("schema definition %s not found in %s: %w", definition, filename, def.Err())
	}

	label := options.label
	if label == "" {
		label = definition
	}

	return &Schema{ctx: ctx, def: def, definition: definition, label: label}, nil
}

// MustCompileSchema is like CompileSchema but panics on error. It is meant
// for schemas embedded in the binary.
func MustCompileSchema(src []byte, definition string, opts ...Option) *Schema {
	s, err := CompileSchema(src, definition, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Definition returns the name of the root definition.
func (s *Schema) Definition() string { return s.definition }

// Validate unifies data with the definition, requires every field to be
// concrete and returns the completed tree with schema defaults filled in.
// Fields the definition does not mention are kept as given when the
// definition is open and rejected when it is closed.
func (s *Schema) Validate(data map[string]any) (map[string]any, error) {
	if data == nil {
		data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.ctx.Encode(data)
	if value.Err() != nil {
		return nil, newSchemaError(value.Err(), s.label)
	}

	unified := s.def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, newSchemaError(err, s.label)
	}

	var completed map[string]any
	if err := unified.Decode(&completed); err != nil {
		return nil, newSchemaError(err, s.label)
	}
	return completed, nil
}

// HasPath reports whether path names a field declared by the definition.
func (s *Schema) HasPath(path CUEPath) bool {
	if path.Validate() != nil {
		return false
	}

	cuePath := cue.MakePath(selectors(path)...)
	if cuePath.Err() != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.def.LookupPath(cuePath).Exists()
}

func selectors(path CUEPath) []cue.Selector {
	segments := path.Segments()
	sels := make([]cue.Selector, len(segments))
	for i, seg := range segments {
		sels[i] = cue.Str(seg)
	}
	return sels
}
