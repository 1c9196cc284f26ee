package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	internalLoader "github.com/goliatone/go-pricegen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-pricegen/internal/openapi/parser"
	"github.com/goliatone/go-pricegen/pkg/labels"
	"github.com/goliatone/go-pricegen/pkg/model"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
	"github.com/goliatone/go-pricegen/pkg/render"
	"github.com/goliatone/go-pricegen/pkg/renderers/jsonform"
	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader. It serves both the schema and
// the label mappings.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom schema parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// Orchestrator coordinates the pipeline from schema and mappings documents to
// rendered output. Missing dependencies default to the built-in loader,
// parser, builder and vanilla renderer.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs of one generation run.
type Request struct {
	// Schema locates the service OpenAPI document. Optional when Document is
	// supplied.
	Schema pkgopenapi.Source
	// Document bypasses the loader for the schema.
	Document *pkgopenapi.Document

	// Mappings locates the label mappings JSON. Optional when MappingsData is
	// supplied.
	Mappings pkgopenapi.Source
	// MappingsData bypasses the loader for the label mappings.
	MappingsData []byte

	// Form selects model.FormTraining or model.FormPrediction for Generate.
	Form string

	// Renderer names the renderer to use; empty means the default.
	Renderer string

	// RenderOptions are passed through. When Values is nil the form is
	// seeded from the matching schema example.
	RenderOptions render.RenderOptions
}

// Bundle is everything built from one schema and mappings pair.
type Bundle struct {
	Schema     pkgopenapi.FeatureSchema
	Mappings   labels.Mappings
	Training   model.FormModel
	Prediction model.FormModel
}

// Form returns the model with the given id.
func (b Bundle) Form(id string) (model.FormModel, bool) {
	switch id {
	case model.FormTraining:
		return b.Training, true
	case model.FormPrediction:
		return b.Prediction, true
	default:
		return model.FormModel{}, false
	}
}

// Seed returns the example record a form starts from.
func (b Bundle) Seed(id string) model.FormData {
	if id == model.FormTraining {
		return model.FormDataFrom(b.Schema.Examples.FeaturesWithPrice)
	}
	return model.FormDataFrom(b.Schema.Examples.Features)
}

// Build loads both documents concurrently and builds the two form models.
func (o *Orchestrator) Build(ctx context.Context, req Request) (Bundle, error) {
	if ctx == nil {
		return Bundle{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Bundle{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Bundle{}, err
	}

	var bundle Bundle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := o.resolveSchema(gctx, req)
		if err != nil {
			return err
		}
		schema, err := o.parser.FeatureSchema(gctx, doc)
		if err != nil {
			return fmt.Errorf("orchestrator: parse schema: %w", err)
		}
		bundle.Schema = schema
		return nil
	})
	g.Go(func() error {
		mappings, err := o.resolveMappings(gctx, req)
		if err != nil {
			return err
		}
		bundle.Mappings = mappings
		return nil
	})
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}

	var err error
	bundle.Training, err = o.builder.Build(model.TrainingFormSpec(), bundle.Mappings, bundle.Schema.Properties)
	if err != nil {
		return Bundle{}, fmt.Errorf("orchestrator: build training form: %w", err)
	}
	bundle.Prediction, err = o.builder.Build(model.PredictionFormSpec(), bundle.Mappings, bundle.Schema.Properties)
	if err != nil {
		return Bundle{}, fmt.Errorf("orchestrator: build prediction form: %w", err)
	}
	return bundle, nil
}

// Generate renders the form named by req.Form.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if req.Form == "" {
		return nil, errors.New("orchestrator: form id is required")
	}
	bundle, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	form, ok := bundle.Form(req.Form)
	if !ok {
		return nil, fmt.Errorf("orchestrator: form %q not found", req.Form)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Values == nil {
		opts.Values = bundle.Seed(req.Form)
	}
	output, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// GeneratePage renders both forms side by side in one HTML document using
// the vanilla renderer registered under "vanilla".
func (o *Orchestrator) GeneratePage(ctx context.Context, req Request, page vanilla.Page) ([]byte, error) {
	bundle, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(defaultRendererName)
	if err != nil {
		return nil, err
	}
	html, ok := renderer.(*vanilla.Renderer)
	if !ok {
		return nil, fmt.Errorf("orchestrator: renderer %q cannot render pages", renderer.Name())
	}

	training, err := html.Render(ctx, bundle.Training, render.RenderOptions{
		Values:  bundle.Seed(model.FormTraining),
		Actions: []render.Action{{Name: "retrain", Label: "Retrain"}},
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render training form: %w", err)
	}
	prediction, err := html.Render(ctx, bundle.Prediction, render.RenderOptions{
		Values: bundle.Seed(model.FormPrediction),
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render prediction form: %w", err)
	}
	page.Forms = [][]byte{training, prediction}

	out, err := html.RenderPage(page)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return out, nil
}

func (o *Orchestrator) resolveSchema(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Schema == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: schema source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Schema)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load schema: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveMappings(ctx context.Context, req Request) (labels.Mappings, error) {
	data := req.MappingsData
	if len(data) == 0 {
		if req.Mappings == nil {
			return labels.Mappings{}, errors.New("orchestrator: mappings source or data is required")
		}
		doc, err := o.loader.Load(ctx, req.Mappings)
		if err != nil {
			return labels.Mappings{}, fmt.Errorf("orchestrator: load mappings: %w", err)
		}
		data = doc.Raw()
	}
	mappings, err := labels.Decode(data)
	if err != nil {
		return labels.Mappings{}, fmt.Errorf("orchestrator: %w", err)
	}
	return mappings, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
		o.registry.MustRegister(jsonform.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
