package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-pricegen/pkg/model"
)

// ErrorMapping splits field errors into messages shown beside a rendered
// field and form-level messages.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MapFieldErrors keeps errors whose key names a rendered field and moves the
// rest to the form level, prefixed with their key so nothing is lost.
// Messages are sanitized; empty ones are dropped.
func MapFieldErrors(form model.FormModel, errs model.FieldErrors) ErrorMapping {
	mapping := ErrorMapping{}
	if len(errs) == 0 {
		return mapping
	}

	rendered := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		rendered[field.Name] = struct{}{}
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		message := SanitizeText(errs[key])
		if message == "" {
			continue
		}
		if _, ok := rendered[key]; ok {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string]string)
			}
			mapping.Fields[key] = message
			continue
		}
		name := strings.TrimSpace(key)
		if name == "" {
			mapping.Form = append(mapping.Form, message)
			continue
		}
		mapping.Form = append(mapping.Form, name+": "+message)
	}
	mapping.Form = MergeFormErrors(nil, mapping.Form...)
	return mapping
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	var out []string
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
