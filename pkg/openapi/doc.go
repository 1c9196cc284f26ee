// Package openapi exposes the public contracts for loading the prediction
// service's OpenAPI document and extracting the example records and property
// metadata the forms are seeded from. Implementations live under
// internal/openapi to keep kin-openapi dependencies hidden from consumers.
package openapi
