package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pricegen "github.com/goliatone/go-pricegen"
	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/orchestrator"
	"github.com/goliatone/go-pricegen/pkg/render"
	"github.com/goliatone/go-pricegen/pkg/renderers/jsonform"
	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

var (
	renderForm      string
	renderSchema    string
	renderMappings  string
	renderOutput    string
	renderPage      bool
	renderWith      string
	renderTemplates string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a form from local documents",
	Long: `Renders a form offline from a saved OpenAPI document and label mappings
(paths or URLs), seeded from the schema example. Without --schema or
--mappings the bundled sample documents are used. With --page both forms are
rendered into a standalone HTML document and --form and --renderer are
ignored.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderForm, "form", model.FormPrediction, "form to render (prediction or training)")
	renderCmd.Flags().StringVar(&renderSchema, "schema", "", "OpenAPI document path or URL (bundled sample if empty)")
	renderCmd.Flags().StringVar(&renderMappings, "mappings", "", "label mappings JSON path or URL (bundled sample if empty)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (stdout if empty)")
	renderCmd.Flags().BoolVar(&renderPage, "page", false, "render both forms as a full page")
	renderCmd.Flags().StringVar(&renderWith, "renderer", "vanilla", "renderer name (vanilla or json)")
	renderCmd.Flags().StringVar(&renderTemplates, "templates", "", "directory of .tmpl files overriding the built-in HTML templates")
}

func runRender(cmd *cobra.Command, args []string) error {
	sampleSchema, sampleMappings := pricegen.SampleSources()
	schema, err := sourceOr(renderSchema, sampleSchema)
	if err != nil {
		return err
	}
	mappings, err := sourceOr(renderMappings, sampleMappings)
	if err != nil {
		return err
	}

	registry, err := newRegistry(renderTemplates)
	if err != nil {
		return err
	}
	gen := orchestrator.New(orchestrator.WithLoader(newLoader()), orchestrator.WithRegistry(registry))
	req := orchestrator.Request{Schema: schema, Mappings: mappings, Form: renderForm, Renderer: renderWith}

	var out []byte
	if renderPage {
		out, err = gen.GeneratePage(cmd.Context(), req, vanilla.Page{})
	} else {
		out, err = gen.Generate(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("failed to render form: %w", err)
	}

	if renderOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", renderOutput)
	return err
}

func newRegistry(templatesDir string) (*render.Registry, error) {
	html, err := vanilla.New(vanilla.WithTemplatesDir(templatesDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsonform.New())
	return registry, nil
}
