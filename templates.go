package pricegen

import (
	"embed"
	"io/fs"

	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
	vanilla "github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet shipped with the vanilla renderer.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}

// Sample document names inside SamplesFS.
const (
	SampleSchemaName   = "openapi.json"
	SampleMappingsName = "label_mappings.json"
)

//go:embed samples/*.json
var sampleFiles embed.FS

// SamplesFS holds a saved copy of the service's OpenAPI document and label
// mappings for rendering without a running service.
func SamplesFS() fs.FS {
	sub, err := fs.Sub(sampleFiles, "samples")
	if err != nil {
		return sampleFiles
	}
	return sub
}

// SampleSources returns fs.FS sources for the bundled documents. Load them
// with a loader built with pkgopenapi.WithFileSystem(SamplesFS()).
func SampleSources() (schema, mappings pkgopenapi.Source) {
	return pkgopenapi.SourceFromFS(SampleSchemaName), pkgopenapi.SourceFromFS(SampleMappingsName)
}
