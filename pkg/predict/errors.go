package predict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-pricegen/pkg/model"
)

const maxErrorBody = 256

// APIError reports a non-2xx reply.
type APIError struct {
	Operation  string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("predict: %s: unexpected status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("predict: %s: unexpected status %d: %s", e.Operation, e.StatusCode, body)
}

// ValidationDetail is one entry of the service's validation error list.
type ValidationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// Field returns the last element of Loc as a field name.
func (d ValidationDetail) Field() (string, bool) {
	if len(d.Loc) == 0 {
		return "", false
	}
	switch v := d.Loc[len(d.Loc)-1].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// ValidationError is a 422 reply carrying per-field messages.
type ValidationError struct {
	API     *APIError
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, detail := range e.Details {
		name, _ := detail.Field()
		parts = append(parts, name+": "+detail.Msg)
	}
	return "predict: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.API
}

// FieldErrors keys every message by its field name. Later details for the
// same field win.
func (e *ValidationError) FieldErrors() model.FieldErrors {
	out := make(model.FieldErrors, len(e.Details))
	for _, detail := range e.Details {
		name, ok := detail.Field()
		if !ok {
			continue
		}
		out[name] = detail.Msg
	}
	return out
}
