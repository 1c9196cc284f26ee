// Package server hosts the training and prediction forms side by side over
// HTTP. Every browser session owns its own pair of forms and its own drag
// viewport; the embedded runtime forwards edits, submits and pointer events
// to the routes registered here.
package server
