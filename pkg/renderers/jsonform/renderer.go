// Package jsonform renders a form and its current state as JSON for clients
// that draw their own controls.
package jsonform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/render"
)

// Renderer emits the form model, values, errors and result as one JSON
// document. Field and value order follow the form model.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render serializes form together with the per-request state in opts.
func (r *Renderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	mapped := render.MapFieldErrors(form, opts.Errors)
	payload := document{
		ID:          form.ID,
		Title:       form.Title,
		Endpoint:    form.Endpoint,
		SubmitLabel: form.SubmitLabel,
		Loading:     opts.Loading,
		Fields:      make([]field, len(form.Fields)),
		Values:      newOrderedValues(form, opts.Values),
		FormErrors:  mapped.Form,
		Notice:      opts.Notice,
		Result:      opts.Result,
		Actions:     opts.Actions,
	}
	for i, f := range form.Fields {
		payload.Fields[i] = toField(f, mapped.Fields[f.Name])
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal form: %w", err)
	}
	if r.indent == "" {
		return out, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", r.indent); err != nil {
		return nil, fmt.Errorf("json renderer: indent: %w", err)
	}
	return buf.Bytes(), nil
}

type document struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Endpoint    string          `json:"endpoint"`
	SubmitLabel string          `json:"submitLabel"`
	Loading     bool            `json:"loading,omitempty"`
	Fields      []field         `json:"fields"`
	Values      orderedValues   `json:"values"`
	FormErrors  []string        `json:"formErrors,omitempty"`
	Notice      *render.Notice  `json:"notice,omitempty"`
	Result      *render.Result  `json:"result,omitempty"`
	Actions     []render.Action `json:"actions,omitempty"`
}

type field struct {
	Name        string          `json:"name"`
	Type        model.FieldType `json:"type"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Integer     bool            `json:"integer,omitempty"`
	Required    bool            `json:"required"`
	Minimum     *float64        `json:"minimum,omitempty"`
	Maximum     *float64        `json:"maximum,omitempty"`
	Options     []model.Option  `json:"options,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func toField(f model.Field, errMessage string) field {
	out := field{
		Name:        f.Name,
		Type:        f.Type,
		Label:       render.SanitizeText(f.Label),
		Description: render.SanitizeText(f.Description),
		Integer:     f.Integer,
		Required:    f.Required,
		Minimum:     f.Minimum,
		Maximum:     f.Maximum,
		Error:       errMessage,
	}
	if len(f.Options) > 0 {
		out.Options = make([]model.Option, len(f.Options))
		for i, opt := range f.Options {
			out.Options[i] = model.Option{Label: render.SanitizeText(opt.Label), Value: opt.Value}
		}
	}
	return out
}

type valueEntry struct {
	key   string
	value float64
}

// orderedValues marshals as a JSON object whose keys follow the form fields,
// then any extra keys in lexical order.
type orderedValues []valueEntry

func newOrderedValues(form model.FormModel, values model.FormData) orderedValues {
	out := make(orderedValues, 0, len(values))
	seen := make(map[string]bool, len(form.Fields))
	for _, f := range form.Fields {
		if value, ok := values[f.Name]; ok {
			out = append(out, valueEntry{key: f.Name, value: value})
			seen[f.Name] = true
		}
	}
	extra := make([]string, 0)
	for key := range values {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, valueEntry{key: key, value: values[key]})
	}
	return out
}

func (v orderedValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
