package model

import internalmodel "github.com/goliatone/go-pricegen/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeSelect = internalmodel.FieldTypeSelect
	FieldTypeNumber = internalmodel.FieldTypeNumber
)

const (
	FormTraining   = internalmodel.FormTraining
	FormPrediction = internalmodel.FormPrediction
	PriceField     = internalmodel.PriceField
)

type (
	Option      = internalmodel.Option
	Field       = internalmodel.Field
	FormModel   = internalmodel.FormModel
	FormSpec    = internalmodel.FormSpec
	FormData    = internalmodel.FormData
	FieldErrors = internalmodel.FieldErrors
)

// ValidFieldNames returns the categorical allow-list.
func ValidFieldNames() []string {
	return append([]string(nil), internalmodel.ValidFieldNames...)
}

// NumericFields returns the numeric inputs shared by both forms.
func NumericFields() []string {
	return append([]string(nil), internalmodel.NumericFields...)
}

// TrainingFormSpec returns the training row form layout.
func TrainingFormSpec() FormSpec { return internalmodel.TrainingFormSpec() }

// PredictionFormSpec returns the prediction form layout.
func PredictionFormSpec() FormSpec { return internalmodel.PredictionFormSpec() }

// FormDataFrom copies a seed record into FormData.
func FormDataFrom(seed map[string]float64) FormData { return internalmodel.FormDataFrom(seed) }

// ParseNumber coerces raw input to a finite number, 0 when unparsable.
func ParseNumber(raw string) float64 { return internalmodel.ParseNumber(raw) }

// Format renders a value the way number inputs display it.
func Format(value float64) string { return internalmodel.Format(value) }

// HumanLabeler turns snake_case names into title-cased labels.
func HumanLabeler(name string) string { return internalmodel.HumanLabeler(name) }
