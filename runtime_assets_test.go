package pricegen

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

func TestRuntimeAssetsFSContainsRuntimeScript(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), RuntimeScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	for _, want := range []string{"data-pricegen-form", "window.alert", `event: "press"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected runtime script to contain %q", want)
		}
	}
}

func TestEmbeddedTemplatesAndAssets(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedAssets(), vanilla.StylesheetName); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}

func TestRuntimeMeasuresPanelBoxInFormCoordinates(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), RuntimeScriptName)
	if err != nil {
		t.Fatalf("read runtime script: %v", err)
	}
	script := string(data)
	for _, want := range []string{"form.clientLeft", "form.clientTop", "form.clientWidth", "form.clientHeight"} {
		if !strings.Contains(script, want) {
			t.Fatalf("expected mount box to use %s", want)
		}
	}
	if strings.Contains(script, "getBoundingClientRect") {
		t.Fatalf("mount box must not use viewport coordinates")
	}
}
