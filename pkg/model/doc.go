// Package model defines the typed form model consumed by renderers and forms.
// Builders reside in internal/model but return the types defined here. A form
// model lists one select per allow-listed categorical field, in label mapping
// order, followed by the form's fixed numeric inputs. FormData carries the
// values a form submits; every edit goes through ParseNumber so values are
// always finite numbers.
package model
