package openapi

import (
	"errors"
	"fmt"
	"sort"
)

// Source identifies where an OpenAPI document originated so loaders can operate
// on files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Default component schema names published by the prediction service.
const (
	FeaturesSchemaName          = "CarFeatures"
	FeaturesWithPriceSchemaName = "CarFeaturesWithPrice"
)

var (
	// ErrSchemaMissing is returned when a required component schema is absent.
	ErrSchemaMissing = errors.New("openapi: component schema not found")
	// ErrExampleMissing is returned when a component schema has no example
	// record to seed form values from.
	ErrExampleMissing = errors.New("openapi: component schema has no example")
)

// Document wraps the raw OpenAPI payload and its origin. Exposing this type
// instead of kin-openapi structs keeps the public API decoupled.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Record is an example payload keyed by field name. Values are normalised to
// numbers when extracted from the document.
type Record map[string]float64

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// Keys returns the record keys in lexical order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ExampleRecords holds the two seed records embedded in the service schema:
// one without the target variable (prediction) and one with it (training).
type ExampleRecords struct {
	Features          Record
	FeaturesWithPrice Record
}

// PropertyInfo captures the per-field metadata renderers use for help text
// and input hints.
type PropertyInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
}

// IsInteger reports whether the property only accepts whole numbers.
func (p PropertyInfo) IsInteger() bool {
	return p.Type == "integer"
}

// FeatureSchema is the parsed view of the prediction service document.
type FeatureSchema struct {
	Examples   ExampleRecords
	Properties map[string]PropertyInfo
}

// Property returns metadata for the named field, falling back to a bare entry.
func (s FeatureSchema) Property(name string) PropertyInfo {
	if info, ok := s.Properties[name]; ok {
		return info
	}
	return PropertyInfo{Name: name}
}

// MissingSchemaError reports which component schema or example was absent.
type MissingSchemaError struct {
	Schema string
	Err    error
}

func (e *MissingSchemaError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Schema)
}

func (e *MissingSchemaError) Unwrap() error {
	return e.Err
}
