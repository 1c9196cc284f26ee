package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// FeatureSchema reads both component schemas and returns their example
// records plus merged property metadata. A missing schema or example is a
// hard error; callers never receive an empty seed record.
func (p *Parser) FeatureSchema(ctx context.Context, doc pkgopenapi.Document) (pkgopenapi.FeatureSchema, error) {
	if err := ctx.Err(); err != nil {
		return pkgopenapi.FeatureSchema{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return pkgopenapi.FeatureSchema{}, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return pkgopenapi.FeatureSchema{}, fmt.Errorf("openapi parser: load document: %w", err)
	}

	features, err := p.lookup(spec, p.options.FeaturesSchema)
	if err != nil {
		return pkgopenapi.FeatureSchema{}, err
	}
	withPrice, err := p.lookup(spec, p.options.FeaturesWithPriceSchema)
	if err != nil {
		return pkgopenapi.FeatureSchema{}, err
	}

	featuresExample, err := exampleRecord(p.options.FeaturesSchema, features)
	if err != nil {
		return pkgopenapi.FeatureSchema{}, err
	}
	withPriceExample, err := exampleRecord(p.options.FeaturesWithPriceSchema, withPrice)
	if err != nil {
		return pkgopenapi.FeatureSchema{}, err
	}

	properties := make(map[string]pkgopenapi.PropertyInfo)
	collectProperties(properties, features)
	collectProperties(properties, withPrice)

	return pkgopenapi.FeatureSchema{
		Examples: pkgopenapi.ExampleRecords{
			Features:          featuresExample,
			FeaturesWithPrice: withPriceExample,
		},
		Properties: properties,
	}, nil
}

func (p *Parser) lookup(spec *openapi3.T, name string) (*openapi3.Schema, error) {
	if spec.Components == nil || spec.Components.Schemas == nil {
		return nil, &pkgopenapi.MissingSchemaError{Schema: name, Err: pkgopenapi.ErrSchemaMissing}
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, &pkgopenapi.MissingSchemaError{Schema: name, Err: pkgopenapi.ErrSchemaMissing}
	}
	return ref.Value, nil
}

func exampleRecord(name string, schema *openapi3.Schema) (pkgopenapi.Record, error) {
	raw := schema.Example
	if raw == nil {
		for _, ref := range schema.AllOf {
			if ref != nil && ref.Value != nil && ref.Value.Example != nil {
				raw = ref.Value.Example
				break
			}
		}
	}
	if raw == nil {
		return nil, &pkgopenapi.MissingSchemaError{Schema: name, Err: pkgopenapi.ErrExampleMissing}
	}

	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openapi parser: example for %s is %T, want object", name, raw)
	}

	record := make(pkgopenapi.Record, len(payload))
	for key, value := range payload {
		record[key] = toNumber(value)
	}
	return record, nil
}

func collectProperties(target map[string]pkgopenapi.PropertyInfo, schema *openapi3.Schema) {
	if schema == nil {
		return
	}
	for _, ref := range schema.AllOf {
		if ref != nil {
			collectProperties(target, ref.Value)
		}
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		if _, exists := target[name]; exists {
			continue
		}
		info := pkgopenapi.PropertyInfo{
			Name:        name,
			Type:        schemaType(ref.Value),
			Description: strings.TrimSpace(ref.Value.Description),
		}
		if ref.Value.Min != nil {
			value := *ref.Value.Min
			info.Minimum = &value
		}
		if ref.Value.Max != nil {
			value := *ref.Value.Max
			info.Maximum = &value
		}
		target[name] = info
	}
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type != nil {
		for _, candidate := range schema.Type.Slice() {
			if candidate != "null" {
				return candidate
			}
		}
	}
	for _, ref := range schema.AnyOf {
		if ref == nil || ref.Value == nil {
			continue
		}
		if value := schemaType(ref.Value); value != "" {
			return value
		}
	}
	return ""
}

func toNumber(value any) float64 {
	var out float64
	switch v := value.(type) {
	case float64:
		out = v
	case float32:
		out = float64(v)
	case int:
		out = float64(v)
	case int64:
		out = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		out = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		out = parsed
	case bool:
		if v {
			out = 1
		}
	default:
		return 0
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}
