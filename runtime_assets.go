package pricegen

import (
	"embed"
	"io/fs"
)

// RuntimeScriptName is the browser runtime that forwards field edits, submits
// and result panel pointer events to the server.
const RuntimeScriptName = "pricegen-forms.js"

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser runtime (committed under
// pkg/runtime/assets) so Go applications can serve it without a build step.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(pricegen.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
