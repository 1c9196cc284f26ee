package forms

import (
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/internal/openapi/parser"
	"github.com/goliatone/go-pricegen/pkg/drag"
	"github.com/goliatone/go-pricegen/pkg/model"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

var (
	// ErrNotReady is returned when an operation needs the form in Ready.
	ErrNotReady = errors.New("forms: form is not ready")
	// ErrUnknownField is returned when editing a field the form does not render.
	ErrUnknownField = errors.New("forms: unknown field")
)

// State is a form lifecycle state.
type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
)

// Option configures a form.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	parser     pkgopenapi.Parser
	builder    model.Builder
	viewport   drag.Viewport
	sequencing bool
}

func defaultOptions() options {
	return options{
		logger:  zap.NewNop(),
		parser:  parser.New(pkgopenapi.NewParserOptions()),
		builder: model.NewBuilder(),
	}
}

func applyOptions(opts []Option) options {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.viewport == nil {
		cfg.viewport = drag.NewBus()
	}
	return cfg
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParser swaps the schema example parser.
func WithParser(p pkgopenapi.Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithBuilder swaps the form model builder.
func WithBuilder(b model.Builder) Option {
	return func(o *options) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithViewport sets the pointer event source for the result panel.
func WithViewport(v drag.Viewport) Option {
	return func(o *options) {
		o.viewport = v
	}
}

// WithSequencing makes the prediction form drop responses that resolve after
// a newer attempt has already been applied. Without it the last response to
// arrive wins, even when it belongs to older FormData.
func WithSequencing() Option {
	return func(o *options) {
		o.sequencing = true
	}
}
