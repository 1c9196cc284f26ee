package model

const (
	FormTraining   = "training"
	FormPrediction = "prediction"
)

// ValidFieldNames is the categorical allow-list. Mapping fields outside of it
// are never rendered.
var ValidFieldNames = []string{
	"engine_type",
	"fuel_type",
	"transmission",
	"body_type",
	"has_incidents",
	"wheel_system",
}

// NumericFields is the fixed numeric list shared by both forms.
var NumericFields = []string{
	"horsepower",
	"maximum_seating",
	"mileage",
	"torque",
	"year",
	"combined_fuel_economy",
	"legroom",
	"major_options_count",
	"size_of_vehicle",
}

// PriceField is the training target, only present on the training form.
const PriceField = "price"

// FormSpec describes which fields a form renders and how it is titled.
type FormSpec struct {
	ID          string
	Title       string
	Endpoint    string
	SubmitLabel string
	Categorical []string
	Numeric     []string
}

// TrainingFormSpec returns the training row form layout.
func TrainingFormSpec() FormSpec {
	return FormSpec{
		ID:          FormTraining,
		Title:       "Training Row Addition form",
		Endpoint:    "/api/v1/predict/insert_row",
		SubmitLabel: "Add Training Row",
		Categorical: append([]string(nil), ValidFieldNames...),
		Numeric:     append(append([]string(nil), NumericFields...), PriceField),
	}
}

// PredictionFormSpec returns the price prediction form layout.
func PredictionFormSpec() FormSpec {
	return FormSpec{
		ID:          FormPrediction,
		Title:       "Price prediction form",
		Endpoint:    "/api/v1/predict/price",
		SubmitLabel: "Get Prediction",
		Categorical: append([]string(nil), ValidFieldNames...),
		Numeric:     append([]string(nil), NumericFields...),
	}
}

// Allows reports whether name is rendered by the form.
func (s FormSpec) Allows(name string) bool {
	for _, candidate := range s.Categorical {
		if candidate == name {
			return true
		}
	}
	for _, candidate := range s.Numeric {
		if candidate == name {
			return true
		}
	}
	return false
}
