package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/render"
)

// Renderer walks a form model in the terminal, collecting one value per
// rendered field. Selects show labels and store codes; number inputs are
// coerced with model.ParseNumber.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render collects values and serializes them.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, values)
}

// Collect prompts for every rendered field and returns the resulting FormData.
// Keys in opts.Values that no field renders are carried over untouched.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (model.FormData, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := opts.Values.Clone()
	mapped := render.MapFieldErrors(form, opts.Errors)
	for _, message := range mapped.Form {
		if err := r.Error(ctx, message); err != nil {
			return nil, err
		}
	}

	for _, field := range form.Fields {
		if message, ok := mapped.Fields[field.Name]; ok {
			if err := r.Error(ctx, fmt.Sprintf("%s: %s", field.Name, message)); err != nil {
				return nil, err
			}
		}
		var err error
		switch field.Type {
		case model.FieldTypeSelect:
			err = r.promptSelect(ctx, field, values)
		default:
			err = r.promptNumber(ctx, field, values)
		}
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

// Notify prints an informational message.
func (r *Renderer) Notify(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+message)
}

// Error prints an error message.
func (r *Renderer) Error(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+message)
}

// Confirm asks a yes/no question.
func (r *Renderer) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, values model.FormData) error {
	if len(field.Options) == 0 {
		return fmt.Errorf("%w: %s", ErrNoOptions, field.Name)
	}
	labels := make([]string, len(field.Options))
	defaultIndex := 0
	current, hasCurrent := values[field.Name]
	for i, opt := range field.Options {
		labels[i] = render.SanitizeText(opt.Label)
		if hasCurrent && opt.Value == current {
			defaultIndex = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         render.SanitizeText(field.Description),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return fmt.Errorf("tui: %s: selection %d out of range", field.Name, idx)
	}
	values[field.Name] = field.Options[idx].Value
	return nil
}

func (r *Renderer) promptNumber(ctx context.Context, field model.Field, values model.FormData) error {
	def := ""
	if current, ok := values[field.Name]; ok {
		def = model.Format(current)
	}
	raw, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(field),
		Default: def,
		Help:    render.SanitizeText(field.Description),
	})
	if err != nil {
		return err
	}
	values.Set(field.Name, raw)
	return nil
}

func (r *Renderer) serialize(form model.FormModel, values model.FormData) ([]byte, error) {
	if r.outputFormat != OutputFormatPrettyText {
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}

	var b strings.Builder
	for _, field := range form.Fields {
		value := values[field.Name]
		text := model.Format(value)
		if label, ok := field.OptionLabel(value); ok {
			text = fmt.Sprintf("%s (%s)", render.SanitizeText(label), text)
		}
		fmt.Fprintf(&b, "%s = %s\n", field.Name, text)
	}
	return []byte(b.String()), nil
}

func displayLabel(field model.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Name
}
