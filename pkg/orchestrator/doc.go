// Package orchestrator wires the loader → parser → model builder → renderer
// pipeline for callers that already hold the schema and label mappings (files,
// fs.FS entries or URLs) and want rendered forms without a live session.
package orchestrator
