package model

import (
	"github.com/goliatone/go-pricegen/internal/model"
	"github.com/goliatone/go-pricegen/pkg/labels"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

// Builder converts label mappings and schema metadata into form models.
type Builder interface {
	Build(spec FormSpec, mappings labels.Mappings, properties map[string]pkgopenapi.PropertyInfo) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	internalOpts := model.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return model.New(internalOpts)
}
