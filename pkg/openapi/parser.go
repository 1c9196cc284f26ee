package openapi

import "context"

// Parser extracts the typed example records and property metadata from a
// loaded document.
type Parser interface {
	FeatureSchema(ctx context.Context, doc Document) (FeatureSchema, error)
}

// ParserOptions exposes the component schema names to read and whether
// external references may be followed.
type ParserOptions struct {
	// FeaturesSchema names the prediction payload schema.
	FeaturesSchema string

	// FeaturesWithPriceSchema names the training payload schema.
	FeaturesWithPriceSchema string

	// ResolveReferences allows kin-openapi to follow external $ref pointers.
	ResolveReferences bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithSchemaNames overrides the component schema names. Empty values keep the
// defaults.
func WithSchemaNames(features, featuresWithPrice string) ParserOption {
	return func(opts *ParserOptions) {
		if features != "" {
			opts.FeaturesSchema = features
		}
		if featuresWithPrice != "" {
			opts.FeaturesWithPriceSchema = featuresWithPrice
		}
	}
}

// WithReferenceResolution toggles external reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		FeaturesSchema:          FeaturesSchemaName,
		FeaturesWithPriceSchema: FeaturesWithPriceSchemaName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
