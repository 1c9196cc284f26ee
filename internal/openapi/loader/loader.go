package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

// fetchFunc reads the raw payload behind one source location.
type fetchFunc func(ctx context.Context, location string) ([]byte, error)

// Loader implements pkgopenapi.Loader. Every enabled source kind maps to one
// fetch strategy; files are always readable, fs.FS and HTTP sources only when
// configured.
type Loader struct {
	fetchers map[pkgopenapi.SourceKind]fetchFunc
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds the strategy table from options.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	l := &Loader{fetchers: map[pkgopenapi.SourceKind]fetchFunc{
		pkgopenapi.SourceKindFile: loadFile,
	}}

	if files := options.FileSystem; files != nil {
		l.fetchers[pkgopenapi.SourceKindFS] = func(ctx context.Context, name string) ([]byte, error) {
			return loadFromFS(ctx, files, name)
		}
	}
	if client := clientFor(options); client != nil {
		timeout := options.RequestTimeout
		l.fetchers[pkgopenapi.SourceKindURL] = func(ctx context.Context, url string) ([]byte, error) {
			return loadHTTP(ctx, client, url, timeout)
		}
	}
	return l
}

func clientFor(options pkgopenapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		return options.HTTPClient
	case options.AllowHTTPFallback:
		return &http.Client{}
	default:
		return nil
	}
}

// Load reads src with the strategy registered for its kind. Failures carry the
// source location; status failures stay reachable as *StatusError.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s sources are not enabled", src.Kind())
	}
	data, err := fetch(ctx, src.Location())
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: load %s: %w", src.Location(), err)
	}
	return pkgopenapi.NewDocument(src, data)
}
