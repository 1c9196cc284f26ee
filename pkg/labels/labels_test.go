package labels

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pricegen/pkg/testsupport"
)

func TestDecodePreservesDocumentOrder(t *testing.T) {
	m, err := Decode(testsupport.MustReadFixture(t, "label_mappings.json"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []string{"engine_type", "fuel_type", "make_name", "transmission", "body_type", "has_incidents", "wheel_system"}
	if diff := cmp.Diff(want, m.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	transmission, ok := m.Field("transmission")
	if !ok {
		t.Fatalf("expected transmission field")
	}
	wantOptions := []Option{
		{Label: "A", Code: 0},
		{Label: "CVT", Code: 1},
		{Label: "Dual Clutch", Code: 2},
		{Label: "M", Code: 3},
	}
	if diff := cmp.Diff(wantOptions, transmission.Options); diff != "" {
		t.Fatalf("option order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeKeepsLabelsThatLookLikeBooleans(t *testing.T) {
	m, err := Decode([]byte(`{"has_incidents": {"False": 0, "True": 1}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	field, _ := m.Field("has_incidents")
	if label, ok := field.LabelFor(1); !ok || label != "True" {
		t.Fatalf("LabelFor(1) = %q, %v", label, ok)
	}
	if code, ok := field.CodeFor("False"); !ok || code != 0 {
		t.Fatalf("CodeFor(False) = %v, %v", code, ok)
	}
}

func TestDecodeAcceptsAnyValidJSON(t *testing.T) {
	longLabel := strings.Repeat("x", 2048)
	payload := `{"wheel_system":{"4WD\/AWD":0,"FWD":1},"make_name":{"` + longLabel + `":7}}`

	m, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wheels, _ := m.Field("wheel_system")
	want := []Option{{Label: "4WD/AWD", Code: 0}, {Label: "FWD", Code: 1}}
	if diff := cmp.Diff(want, wheels.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	makes, _ := m.Field("make_name")
	if code, ok := makes.CodeFor(longLabel); !ok || code != 7 {
		t.Fatalf("CodeFor(long label) = %v, %v", code, ok)
	}
}

func TestDecodeRepeatedLabelKeepsLastCode(t *testing.T) {
	m, err := Decode([]byte(`{"f":{"a":1,"b":3,"a":2}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	field, _ := m.Field("f")
	want := []Option{{Label: "a", Code: 2}, {Label: "b", Code: 3}}
	if diff := cmp.Diff(want, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	if _, err := Decode([]byte(`["engine_type"]`)); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping for list payload, got %v", err)
	}
	if _, err := Decode([]byte(`{"engine_type": 3}`)); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping for scalar field, got %v", err)
	}
	if _, err := Decode([]byte(`{"engine_type": {"V6": "six"}}`)); err == nil {
		t.Fatalf("expected error for non numeric code")
	}
	if _, err := Decode([]byte(`{"engine_type": {"V6": 1}`)); err == nil {
		t.Fatalf("expected error for truncated document")
	}
	if _, err := Decode([]byte(`{"engine_type": {"V6": 1}} {}`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestNewReplacesDuplicatesInPlace(t *testing.T) {
	m := New(
		Field{Name: "a", Options: []Option{{Label: "x", Code: 1}}},
		Field{Name: "b"},
		Field{Name: "a", Options: []Option{{Label: "y", Code: 2}}},
	)
	if diff := cmp.Diff([]string{"a", "b"}, m.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	a, _ := m.Field("a")
	if a.Options[0].Label != "y" {
		t.Fatalf("expected replacement, got %+v", a)
	}
}
