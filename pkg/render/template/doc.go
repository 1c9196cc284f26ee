// Package template defines the template rendering seam the HTML renderer
// depends on. The gotemplate subpackage provides the pongo2-backed engine.
package template
