// Package pricegen is the entry point for embedding the car price forms in a
// Go application: constructors for the schema loader and parser, one-call
// HTML generation from local documents and the embedded browser assets.
package pricegen

import (
	"context"

	internalLoader "github.com/goliatone/go-pricegen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-pricegen/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
	"github.com/goliatone/go-pricegen/pkg/orchestrator"
	"github.com/goliatone/go-pricegen/pkg/render"
	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides that renderers use to prefill
// values or surface validation errors.
type RenderOptions = render.RenderOptions

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders one form (model.FormTraining or model.FormPrediction)
// from a schema and a label mappings source, seeded from the schema example.
func GenerateHTML(ctx context.Context, schema, mappings pkgopenapi.Source, form, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Schema:   schema,
		Mappings: mappings,
		Form:     form,
		Renderer: rendererName,
	})
}

// GeneratePage renders both forms side by side in a standalone document that
// links the embedded stylesheet and runtime under the given URL prefixes.
func GeneratePage(ctx context.Context, schema, mappings pkgopenapi.Source, assetsURL, runtimeURL string, options ...orchestrator.Option) ([]byte, error) {
	page := vanilla.Page{}
	if assetsURL != "" {
		page.StylesheetURL = assetsURL + "/" + vanilla.StylesheetName
	}
	if runtimeURL != "" {
		page.RuntimeURL = runtimeURL + "/" + RuntimeScriptName
	}
	return orchestrator.New(options...).GeneratePage(ctx, orchestrator.Request{
		Schema:   schema,
		Mappings: mappings,
	}, page)
}
