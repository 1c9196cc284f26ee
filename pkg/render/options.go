package render

import "github.com/goliatone/go-pricegen/pkg/model"

// RenderOptions carry the per-request form state so renderers stay free of
// the form lifecycle.
type RenderOptions struct {
	// Values pre-populates inputs. Missing keys render as empty inputs.
	Values model.FormData
	// Errors are shown beside their field. Keys that match no rendered field
	// are shown once at the top of the form.
	Errors model.FieldErrors
	// Loading marks a form whose mappings and schema are still in flight.
	Loading bool
	// Notice is the latest submit outcome, if any.
	Notice *Notice
	// Result is the prediction result panel; nil hides it.
	Result *Result
	// Actions are extra buttons rendered after the submit button.
	Actions []Action
}

// Notice is a success or error message attached to a form.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the prediction result panel content and placement.
type Result struct {
	LinearRegression float64 `json:"lr_prediction"`
	XGBoost          float64 `json:"xgb_prediction"`
	MLP              float64 `json:"mlp_prediction"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
}

// Action is a secondary form button.
type Action struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
