// Package schema validates skillcat's structured data files against the
// embedded JSON Schemas. Schemas are compiled once at package init and
// reused for every validation.
package schema

import (
	"embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Known schema names.
const (
	Sidecar  = "sidecar"
	Manifest = "manifest"
)

var schemaFiles = map[string]string{
	Sidecar:  "schemas/sidecar.schema.json",
	Manifest: "schemas/manifest.schema.json",
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

var (
	registry map[string]*gojsonschema.Schema
	regOnce  sync.Once
	regErr   error
)

func compile() {
	registry = make(map[string]*gojsonschema.Schema, len(schemaFiles))
	for name, path := range schemaFiles {
		data, err := schemaFS.ReadFile(path)
		if err != nil {
			regErr = fmt.Errorf("reading embedded schema %s: %w", name, err)
			return
		}
		sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			regErr = fmt.Errorf("compiling schema %s: %w", name, err)
			return
		}
		registry[name] = sch
	}
}

// Validate checks doc (raw JSON bytes) against the named embedded schema.
// A schema violation is reported in the Result, not as an error; the error
// return covers unknown schema names and undecodable documents.
func Validate(name string, doc []byte) (*Result, error) {
	regOnce.Do(compile)
	if regErr != nil {
		return nil, regErr
	}
	sch, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	res, err := sch.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating against %s schema: %w", name, err)
	}

	out := &Result{Valid: res.Valid()}
	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Path:    e.Field(),
			Message: e.Description(),
		})
	}
	return out, nil
}
