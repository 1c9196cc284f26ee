package main

import (
	pricegen "github.com/goliatone/go-pricegen"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

// newLoader reads local files, the bundled samples and, with the configured
// timeout, URLs.
func newLoader() pkgopenapi.Loader {
	return pricegen.NewLoader(
		pkgopenapi.WithFileSystem(pricegen.SamplesFS()),
		pkgopenapi.WithHTTPFallback(cfg.HTTPTimeout),
	)
}

// sourceOr parses raw as a path or URL, or returns fallback when raw is empty.
func sourceOr(raw string, fallback pkgopenapi.Source) (pkgopenapi.Source, error) {
	if raw == "" {
		return fallback, nil
	}
	return pkgopenapi.ParseSource(raw)
}
