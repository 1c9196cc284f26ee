package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/pkg/drag"
	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/predict"
)

// Outcome describes one prediction attempt.
type Outcome struct {
	// Attempted is false when FormData was empty and no call was made.
	Attempted bool
	// Stale is set when sequencing dropped the response.
	Stale       bool
	Result      *predict.PredictionResult
	FieldErrors model.FieldErrors
	// Err holds a failure other than a validation error. It has already been
	// logged and left the form untouched.
	Err error
}

// PredictionSnapshot is a copy of the prediction form state for rendering.
type PredictionSnapshot struct {
	State       State
	Form        model.FormModel
	Data        model.FormData
	FieldErrors model.FieldErrors
	Result      *predict.PredictionResult
	Panel       drag.Point
	Mounted     bool
}

// PredictionForm predicts the price every time its FormData changes.
type PredictionForm struct {
	service predict.Service
	opts    options
	spec    model.FormSpec
	panel   *drag.Panel

	mu          sync.Mutex
	state       State
	form        model.FormModel
	data        model.FormData
	fieldErrors model.FieldErrors
	result      *predict.PredictionResult
	issued      uint64
	applied     uint64
}

// NewPredictionForm returns a form in Loading.
func NewPredictionForm(service predict.Service, opts ...Option) *PredictionForm {
	cfg := applyOptions(opts)
	return &PredictionForm{
		service:     service,
		opts:        cfg,
		spec:        model.PredictionFormSpec(),
		panel:       drag.NewPanel(cfg.viewport),
		state:       StateLoading,
		data:        model.FormData{},
		fieldErrors: model.FieldErrors{},
	}
}

// Panel exposes the draggable result panel.
func (f *PredictionForm) Panel() *drag.Panel {
	return f.panel
}

// Load fetches mappings and schema, seeds FormData from the features example,
// enters Ready and runs the first prediction attempt. The returned error only
// reports load failures; the attempt's own failure is in the Outcome.
func (f *PredictionForm) Load(ctx context.Context) (Outcome, error) {
	src, err := loadSources(ctx, f.service, f.opts.parser)
	if err != nil {
		return Outcome{}, err
	}
	form, err := f.opts.builder.Build(f.spec, src.mappings, src.schema.Properties)
	if err != nil {
		return Outcome{}, fmt.Errorf("forms: build prediction form: %w", err)
	}

	f.mu.Lock()
	f.form = form
	f.data = model.FormDataFrom(src.schema.Examples.Features)
	f.state = StateReady
	f.mu.Unlock()

	return f.attempt(ctx, "load"), nil
}

// Edit stores the parsed value of raw and runs a prediction attempt.
func (f *PredictionForm) Edit(ctx context.Context, name, raw string) (Outcome, error) {
	if !f.spec.Allows(name) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.mu.Lock()
	if f.state != StateReady {
		f.mu.Unlock()
		return Outcome{}, ErrNotReady
	}
	f.data.Set(name, raw)
	f.mu.Unlock()

	return f.attempt(ctx, "edit"), nil
}

// Apply stores several raw values at once and runs a single prediction
// attempt. Names the form does not render are rejected before anything is
// stored.
func (f *PredictionForm) Apply(ctx context.Context, raw map[string]string) (Outcome, error) {
	for name := range raw {
		if !f.spec.Allows(name) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	f.mu.Lock()
	if f.state != StateReady {
		f.mu.Unlock()
		return Outcome{}, ErrNotReady
	}
	for name, value := range raw {
		f.data.Set(name, value)
	}
	f.mu.Unlock()

	return f.attempt(ctx, "apply"), nil
}

// Submit re-runs the prediction attempt with the current FormData.
func (f *PredictionForm) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	ready := f.state == StateReady
	f.mu.Unlock()
	if !ready {
		return Outcome{}, ErrNotReady
	}
	return f.attempt(ctx, "submit"), nil
}

// CloseResult hides the result panel.
func (f *PredictionForm) CloseResult() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = nil
}

// Close tears the form down and releases any drag listeners.
func (f *PredictionForm) Close() {
	f.panel.Close()
}

// Snapshot copies the current state.
func (f *PredictionForm) Snapshot() PredictionSnapshot {
	f.mu.Lock()
	snap := PredictionSnapshot{
		State:       f.state,
		Form:        f.form,
		Data:        f.data.Clone(),
		FieldErrors: f.fieldErrors.Clone(),
	}
	if f.result != nil {
		result := *f.result
		snap.Result = &result
	}
	f.mu.Unlock()

	snap.Panel = f.panel.Position()
	snap.Mounted = f.panel.Mounted()
	return snap
}

func (f *PredictionForm) attempt(ctx context.Context, trigger string) Outcome {
	f.mu.Lock()
	if len(f.data) == 0 {
		f.mu.Unlock()
		return Outcome{}
	}
	f.fieldErrors = model.FieldErrors{}
	f.issued++
	seq := f.issued
	data := f.data.Clone()
	f.mu.Unlock()

	id := uuid.NewString()
	logger := f.opts.logger.With(zap.String("attempt", id), zap.String("trigger", trigger))

	result, err := f.service.PredictPrice(ctx, data)

	f.mu.Lock()
	defer f.mu.Unlock()

	out := Outcome{Attempted: true}
	if f.opts.sequencing {
		if seq < f.applied {
			logger.Debug("dropping stale prediction", zap.Uint64("seq", seq), zap.Uint64("applied", f.applied))
			out.Stale = true
			return f.fill(out)
		}
		f.applied = seq
	}

	var verr *predict.ValidationError
	switch {
	case err == nil:
		f.result = &result
	case errors.As(err, &verr):
		f.fieldErrors = verr.FieldErrors()
		f.result = nil
		logger.Debug("prediction rejected", zap.Int("fields", len(f.fieldErrors)))
	default:
		logger.Error("prediction failed", zap.Error(err))
		out.Err = err
	}
	return f.fill(out)
}

func (f *PredictionForm) fill(out Outcome) Outcome {
	if f.result != nil {
		result := *f.result
		out.Result = &result
	}
	out.FieldErrors = f.fieldErrors.Clone()
	return out
}
