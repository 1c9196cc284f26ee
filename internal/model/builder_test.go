package model

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pricegen/pkg/labels"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
	"github.com/goliatone/go-pricegen/pkg/testsupport"
)

func loadMappings(t *testing.T) labels.Mappings {
	t.Helper()
	m, err := labels.Decode(testsupport.MustReadFixture(t, "label_mappings.json"))
	if err != nil {
		t.Fatalf("decode mappings: %v", err)
	}
	return m
}

func TestBuildSkipsFieldsOutsideAllowList(t *testing.T) {
	form, err := New(Options{}).Build(PredictionFormSpec(), loadMappings(t), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{
		"engine_type", "fuel_type", "transmission", "body_type", "has_incidents", "wheel_system",
		"horsepower", "maximum_seating", "mileage", "torque", "year", "combined_fuel_economy",
		"legroom", "major_options_count", "size_of_vehicle",
	}
	if diff := cmp.Diff(want, form.Names()); diff != "" {
		t.Fatalf("field plan mismatch (-want +got):\n%s", diff)
	}
	if _, ok := form.Field("make_name"); ok {
		t.Fatalf("make_name must not be rendered")
	}
}

func TestBuildTrainingFormAppendsPrice(t *testing.T) {
	form, err := New(Options{}).Build(TrainingFormSpec(), loadMappings(t), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	names := form.Names()
	if names[len(names)-1] != PriceField {
		t.Fatalf("expected price last, got %v", names)
	}
	if form.SubmitLabel != "Add Training Row" {
		t.Fatalf("unexpected submit label %q", form.SubmitLabel)
	}
}

func TestBuildKeepsOptionOrderAndMetadata(t *testing.T) {
	minimum := 1900.0
	properties := map[string]pkgopenapi.PropertyInfo{
		"year":         {Name: "year", Type: "integer", Description: "Manufacturing year of the car.", Minimum: &minimum},
		"transmission": {Name: "transmission", Type: "integer", Description: "Encoded transmission."},
	}
	form, err := New(Options{}).Build(PredictionFormSpec(), loadMappings(t), properties)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	transmission, _ := form.Field("transmission")
	wantOptions := []Option{
		{Label: "A", Value: 0},
		{Label: "CVT", Value: 1},
		{Label: "Dual Clutch", Value: 2},
		{Label: "M", Value: 3},
	}
	if diff := cmp.Diff(wantOptions, transmission.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if transmission.Label != "transmission" {
		t.Fatalf("expected raw label, got %q", transmission.Label)
	}

	year, _ := form.Field("year")
	if !year.Integer || !year.Required || year.Minimum == nil || *year.Minimum != 1900 {
		t.Fatalf("unexpected year field %+v", year)
	}
	if year.Description != "Manufacturing year of the car." {
		t.Fatalf("unexpected description %q", year.Description)
	}
}

func TestBuildUsesCustomLabeler(t *testing.T) {
	form, err := New(Options{Labeler: HumanLabeler}).Build(PredictionFormSpec(), loadMappings(t), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	field, _ := form.Field("engine_type")
	if field.Label != "Engine Type" {
		t.Fatalf("label = %q", field.Label)
	}
	field, _ = form.Field("size_of_vehicle")
	if field.Label != "Vehicle Size" {
		t.Fatalf("label = %q", field.Label)
	}
}

func TestBuildRequiresFormID(t *testing.T) {
	if _, err := New(Options{}).Build(FormSpec{}, labels.Mappings{}, nil); err == nil {
		t.Fatalf("expected error for empty form id")
	}
}

func TestParseNumberCoercesToNumberOrZero(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"   ":       0,
		"abc":       0,
		"-":         0,
		".":         0,
		"42":        42,
		" 76.3":     76.3,
		"-3.5":      -3.5,
		"12abc":     12,
		".5":        0.5,
		"5.":        5,
		"1e3":       1000,
		"2e":        2,
		"0x10":      0,
		"NaN":       0,
		"Infinity":  0,
		"1e400":     0,
		"2019 year": 2019,
		"٣":         0,
		"７":         0,
		"12٣":       12,
	}
	for raw, want := range cases {
		got := ParseNumber(raw)
		if math.IsNaN(got) {
			t.Fatalf("ParseNumber(%q) returned NaN", raw)
		}
		if got != want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestFormDataSetStoresParsedValue(t *testing.T) {
	data := FormDataFrom(map[string]float64{"year": 2019})
	clone := data.Clone()

	if got := data.Set("year", "not a year"); got != 0 {
		t.Fatalf("Set returned %v", got)
	}
	if data["year"] != 0 {
		t.Fatalf("expected zero after bad input, got %v", data["year"])
	}
	if clone["year"] != 2019 {
		t.Fatalf("clone must be independent, got %v", clone["year"])
	}
	data.Set("mileage", "7")
	if diff := cmp.Diff([]string{"mileage", "year"}, data.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
