package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryResolvesByContentType(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(stubRenderer{name: "tui", contentType: "text/plain"})

	if err := registry.Register(stubRenderer{name: "vanilla"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	got, err := registry.ForContentType("text/plain;q=0.9, text/html")
	if err != nil || got.Name() != "tui" {
		t.Fatalf("ForContentType = %v, %v", got, err)
	}
	got, err = registry.ForContentType("application/json")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("expected fallback to first registered renderer, got %v, %v", got, err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMapFieldErrorsSplitsUnknownKeys(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{Name: "year"}, {Name: "mileage"}}}
	errs := model.FieldErrors{
		"year":    "  too <b>small</b> ",
		"body":    "Field required",
		"mileage": "   ",
	}

	mapped := render.MapFieldErrors(form, errs)

	if diff := cmp.Diff(map[string]string{"year": "too small"}, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"body: Field required"}, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeTextStripsMarkup(t *testing.T) {
	cases := map[string]string{
		"SUV / Crossover":                         "SUV / Crossover",
		"<script>alert(1)</script>Sedan":          "Sedan",
		"value must be &lt; 10":                   "value must be < 10",
		"  Dual\n  Clutch ":                       "Dual Clutch",
		`<img src=x onerror="alert(1)">Hatchback`: "Hatchback",
	}
	for in, want := range cases {
		if got := render.SanitizeText(in); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
