// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the json tags of the Go config structs in sync with the
// field names of the embedded CUE schema.

// extractCUEFields returns the regular fields of a struct definition mapped
// to whether they are optional.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}
	return fields
}

// extractGoJSONTags returns the json names of the exported fields of typ.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		parts := strings.Split(field.Tag.Get("json"), ",")
		if parts[0] == "" || parts[0] == "-" {
			continue
		}
		fields[parts[0]] = slices.Contains(parts[1:], "omitempty")
	}
	return fields
}

// compileSchema returns a schema value on a fresh context. Values of one
// context must not be used from parallel subtests.
func compileSchema(t *testing.T) cue.Value {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile schema: %v", schema.Err())
	}
	return schema
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	schema := compileSchema(t)
	tests := []struct {
		definition string
		goType     reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#Profile", reflect.TypeFor[ProfileConfig]()},
		{"#Package", reflect.TypeFor[PackageEntry]()},
	}
	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			def := schema.LookupPath(cue.ParsePath(tt.definition))
			if !def.Exists() {
				t.Fatalf("definition %s not found", tt.definition)
			}
			cueFields := extractCUEFields(t, def)
			goFields := extractGoJSONTags(t, tt.goType)

			for field := range cueFields {
				if _, ok := goFields[field]; !ok {
					t.Errorf("CUE field %q has no Go field", field)
				}
			}
			for field := range goFields {
				if _, ok := cueFields[field]; !ok {
					t.Errorf("Go field %q is missing from the CUE schema", field)
				}
			}
		})
	}
}

func TestSchemaRepositoryEntry(t *testing.T) {
	t.Parallel()

	schema := compileSchema(t)
	def := schema.LookupPath(cue.ParsePath("#Repository"))
	ctx := schema.Context()

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"path", `{path: "./packages"}`, true},
		{"url", `{url: "https://packages.example.com"}`, true},
		{"unsupported scheme", `{url: "ftp://packages.example.com"}`, false},
		{"empty path", `{path: ""}`, false},
		{"unknown field", `{dir: "./packages"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := def.Unify(ctx.CompileString(tt.value)).Validate(cue.Concrete(true))
			if got := err == nil; got != tt.valid {
				t.Errorf("valid = %v, want %v (err: %v)", got, tt.valid, err)
			}
		})
	}

	goFields := extractGoJSONTags(t, reflect.TypeFor[RepositoryEntry]())
	if _, ok := goFields["path"]; !ok {
		t.Error("RepositoryEntry has no path field")
	}
	if _, ok := goFields["url"]; !ok {
		t.Error("RepositoryEntry has no url field")
	}
}
