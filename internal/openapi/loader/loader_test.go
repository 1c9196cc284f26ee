package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

func TestLoaderLoadsFromFS(t *testing.T) {
	files := fstest.MapFS{
		"openapi.json": {Data: []byte(`{"openapi":"3.0.0"}`)},
	}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("openapi.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := string(doc.Raw()); got != `{"openapi":"3.0.0"}` {
		t.Fatalf("unexpected payload %q", got)
	}
	if doc.Location() != "openapi.json" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoaderRejectsHTTPWhenDisabled(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())

	_, err := l.Load(context.Background(), pkgopenapi.SourceFromURL("http://127.0.0.1:1/openapi.json"))
	if err == nil {
		t.Fatalf("expected error when http is disabled")
	}
}

func TestLoaderLoadsFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"openapi":"3.1.0"}`))
	}))
	defer srv.Close()

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(srv.Client())))
	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(srv.URL+"/openapi.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := string(doc.Raw()); got != `{"openapi":"3.1.0"}` {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestLoaderReportsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(srv.Client())))
	_, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(srv.URL+"/openapi.json"))

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", statusErr.StatusCode)
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fstest.MapFS{})))
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFS("openapi.json")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoaderRejectsFSWithoutFileSystem(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())

	_, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("openapi.json"))
	if err == nil || !strings.Contains(err.Error(), "fs sources are not enabled") {
		t.Fatalf("expected fs sources to be disabled, got %v", err)
	}
}

func TestLoaderErrorsNameTheSource(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fstest.MapFS{})))

	_, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("label_mappings.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), "load label_mappings.json") {
		t.Fatalf("expected location in error, got %q", err.Error())
	}
}

func TestLoaderHTTPFallbackAppliesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(20 * time.Millisecond)))
	_, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(srv.URL+"/openapi.json"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
