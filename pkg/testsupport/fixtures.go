package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

// FixturePath returns the absolute path to a fixture under
// pkg/testsupport/testdata so tests in any package can share them.
func FixturePath(name string) string {
	_, here, _, ok := runtime.Caller(0)
	if !ok {
		panic("testsupport: unable to determine file location")
	}
	return filepath.Join(filepath.Dir(here), "testdata", name)
}

// MustReadFixture returns the raw bytes of a shared fixture.
func MustReadFixture(t testing.TB, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(FixturePath(name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t testing.TB, name string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(FixturePath(name))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// Diff returns a go-cmp diff between want and got.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
