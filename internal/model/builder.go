package model

import (
	"errors"
	"strings"

	"github.com/goliatone/go-pricegen/pkg/labels"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

var errFormIDMissing = errors.New("model builder: form id is required")

// Builder turns label mappings and schema metadata into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build returns the rendering plan for spec: one select per allow-listed
// mapping field in mapping order, then the numeric list in fixed order.
// Mapping fields outside the allow-list are skipped.
func (b *Builder) Build(spec FormSpec, mappings labels.Mappings, properties map[string]pkgopenapi.PropertyInfo) (FormModel, error) {
	if strings.TrimSpace(spec.ID) == "" {
		return FormModel{}, errFormIDMissing
	}

	form := FormModel{
		ID:          spec.ID,
		Title:       spec.Title,
		Endpoint:    spec.Endpoint,
		SubmitLabel: spec.SubmitLabel,
	}

	allowed := make(map[string]struct{}, len(spec.Categorical))
	for _, name := range spec.Categorical {
		allowed[name] = struct{}{}
	}

	for _, mapped := range mappings.Fields() {
		if _, ok := allowed[mapped.Name]; !ok {
			continue
		}
		field := b.baseField(mapped.Name, FieldTypeSelect, properties)
		field.Options = make([]Option, 0, len(mapped.Options))
		for _, opt := range mapped.Options {
			field.Options = append(field.Options, Option{Label: opt.Label, Value: opt.Code})
		}
		form.Fields = append(form.Fields, field)
	}

	for _, name := range spec.Numeric {
		field := b.baseField(name, FieldTypeNumber, properties)
		field.Required = true
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}

func (b *Builder) baseField(name string, kind FieldType, properties map[string]pkgopenapi.PropertyInfo) Field {
	field := Field{
		Name:  name,
		Type:  kind,
		Label: b.opts.Labeler(name),
	}
	info, ok := properties[name]
	if !ok {
		return field
	}
	field.Description = info.Description
	field.Integer = info.IsInteger()
	field.Minimum = info.Minimum
	field.Maximum = info.Maximum
	return field
}
