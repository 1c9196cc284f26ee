package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/render"
	rendertemplate "github.com/goliatone/go-pricegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-pricegen/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	actionPrefix     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the template bundle.
// Templates found there win; the rest come from the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithActionPrefix sets the path forms post to; the form id and "/submit"
// are appended. Defaults to "/forms".
func WithActionPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.actionPrefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// Page is a full HTML document hosting already rendered forms side by side.
type Page struct {
	Title         string
	Forms         [][]byte
	StylesheetURL string
	RuntimeURL    string
}

// Renderer renders forms as server-side HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	actionPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), actionPrefix: "/forms"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.templatesDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, actionPrefix: cfg.actionPrefix}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits one <form> with its fields, notice, actions and result slot.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	mapped := render.MapFieldErrors(form, options.Errors)
	data := map[string]any{
		"form":       form,
		"formClass":  formClass(form.ID),
		"action":     r.actionPrefix + "/" + form.ID + "/submit",
		"fields":     buildFieldViews(form, options.Values, mapped.Fields),
		"formErrors": mapped.Form,
		"loading":    options.Loading,
		"actions":    options.Actions,
	}
	if options.Result != nil {
		data["result"] = options.Result
	}
	if options.Notice != nil {
		data["notice"] = render.Notice{
			Kind:    options.Notice.Kind,
			Message: render.SanitizeText(options.Notice.Message),
		}
	}

	result, err := r.templates.RenderTemplate("form", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderResult emits only the result panel, or nothing when result is nil.
func (r *Renderer) RenderResult(result *render.Result) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	out, err := r.templates.RenderTemplate("result", map[string]any{"result": result})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render result: %w", err)
	}
	return []byte(out), nil
}

// RenderPage wraps rendered forms in a document.
func (r *Renderer) RenderPage(page Page) ([]byte, error) {
	forms := make([]string, 0, len(page.Forms))
	for _, form := range page.Forms {
		forms = append(forms, string(form))
	}
	title := page.Title
	if title == "" {
		title = "Car price prediction"
	}
	out, err := r.templates.RenderTemplate("page", map[string]any{
		"title":      title,
		"forms":      forms,
		"stylesheet": page.StylesheetURL,
		"runtime":    page.RuntimeURL,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(out), nil
}
