package forms

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-pricegen/pkg/labels"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
	"github.com/goliatone/go-pricegen/pkg/predict"
)

type sources struct {
	mappings labels.Mappings
	schema   pkgopenapi.FeatureSchema
}

// loadSources fetches the label mappings and the schema concurrently and
// extracts the example records.
func loadSources(ctx context.Context, service predict.Service, p pkgopenapi.Parser) (sources, error) {
	var out sources
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mappings, err := service.FetchLabelMappings(gctx)
		if err != nil {
			return fmt.Errorf("forms: load label mappings: %w", err)
		}
		out.mappings = mappings
		return nil
	})
	g.Go(func() error {
		doc, err := service.FetchOpenAPISchema(gctx)
		if err != nil {
			return fmt.Errorf("forms: load schema: %w", err)
		}
		schema, err := p.FeatureSchema(gctx, doc)
		if err != nil {
			return fmt.Errorf("forms: load schema: %w", err)
		}
		out.schema = schema
		return nil
	})
	if err := g.Wait(); err != nil {
		return sources{}, err
	}
	return out, nil
}
