package jsonform

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/render"
)

func sampleForm() model.FormModel {
	minimum := 1990.0
	return model.FormModel{
		ID:          "prediction",
		Title:       "Predict price",
		Endpoint:    "/api/v1/predict/price",
		SubmitLabel: "Predict",
		Fields: []model.Field{
			{
				Name:     "transmission",
				Type:     model.FieldTypeSelect,
				Label:    "Transmission <b>type</b>",
				Required: true,
				Options:  []model.Option{{Label: "Manual", Value: 0}, {Label: "Automatic", Value: 1}},
			},
			{Name: "year", Type: model.FieldTypeNumber, Label: "Year", Integer: true, Required: true, Minimum: &minimum},
		},
	}
}

func TestRenderKeepsFieldOrderInValues(t *testing.T) {
	r := New()
	out, err := r.Render(context.Background(), sampleForm(), render.RenderOptions{
		Values: model.FormData{"year": 2015, "transmission": 1, "colour": 3, "brand": 2},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got := string(out)
	want := `"values":{"transmission":1,"year":2015,"brand":2,"colour":3}`
	if !strings.Contains(got, want) {
		t.Fatalf("values not ordered, got %s", got)
	}
}

func TestRenderMapsErrorsAndState(t *testing.T) {
	r := New()
	out, err := r.Render(context.Background(), sampleForm(), render.RenderOptions{
		Values:  model.FormData{"year": 1980},
		Errors:  model.FieldErrors{"year": "Input should be greater than 1990", "body": "bad request"},
		Result:  &render.Result{LinearRegression: 10000, XGBoost: 10500, MLP: 9800},
		Actions: []render.Action{{Name: "close", Label: "Close"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		ID         string             `json:"id"`
		Fields     []field            `json:"fields"`
		Values     map[string]float64 `json:"values"`
		FormErrors []string           `json:"formErrors"`
		Result     *render.Result     `json:"result"`
		Actions    []render.Action    `json:"actions"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.ID != "prediction" {
		t.Fatalf("id = %q", doc.ID)
	}
	if diff := cmp.Diff([]string{"body: bad request"}, doc.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if doc.Fields[0].Label != "Transmission type" {
		t.Fatalf("label not sanitized: %q", doc.Fields[0].Label)
	}
	if doc.Fields[1].Error != "Input should be greater than 1990" {
		t.Fatalf("year error = %q", doc.Fields[1].Error)
	}
	if doc.Fields[1].Minimum == nil || *doc.Fields[1].Minimum != 1990 {
		t.Fatalf("minimum not carried: %+v", doc.Fields[1])
	}
	if doc.Result == nil || doc.Result.XGBoost != 10500 {
		t.Fatalf("result = %+v", doc.Result)
	}
	if diff := cmp.Diff(map[string]float64{"year": 1980}, doc.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Actions) != 1 || doc.Actions[0].Name != "close" {
		t.Fatalf("actions = %+v", doc.Actions)
	}
}

func TestRenderEmptyValuesIsObject(t *testing.T) {
	out, err := New().Render(context.Background(), sampleForm(), render.RenderOptions{Loading: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `"values":{}`) || !strings.Contains(got, `"loading":true`) {
		t.Fatalf("unexpected payload %s", got)
	}
}

func TestRenderIndent(t *testing.T) {
	out, err := New(WithIndent("  ")).Render(context.Background(), sampleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(out), "{\n  \"id\": \"prediction\"") {
		t.Fatalf("expected indented output, got %s", out)
	}
}

func TestRendererMetadata(t *testing.T) {
	r := New()
	if r.Name() != "json" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected metadata %s %s", r.Name(), r.ContentType())
	}
}
