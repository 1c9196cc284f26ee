package forms

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/predict"
)

// TrainingAck is shown after a row was stored.
const TrainingAck = "Training row added successfully!"

// NoticeKind classifies a form notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the last user-facing outcome of a training submit.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// TrainingSnapshot is a copy of the training form state for rendering.
type TrainingSnapshot struct {
	State  State
	Form   model.FormModel
	Data   model.FormData
	Notice *Notice
}

// TrainingForm submits labeled rows and triggers retraining.
type TrainingForm struct {
	service predict.Service
	opts    options
	spec    model.FormSpec

	mu     sync.Mutex
	state  State
	form   model.FormModel
	data   model.FormData
	notice *Notice
}

// NewTrainingForm returns a form in Loading.
func NewTrainingForm(service predict.Service, opts ...Option) *TrainingForm {
	return &TrainingForm{
		service: service,
		opts:    applyOptions(opts),
		spec:    model.TrainingFormSpec(),
		state:   StateLoading,
		data:    model.FormData{},
	}
}

// Load fetches mappings and schema, seeds FormData from the with-price
// example and enters Ready. On failure the form stays in Loading.
func (f *TrainingForm) Load(ctx context.Context) error {
	src, err := loadSources(ctx, f.service, f.opts.parser)
	if err != nil {
		return err
	}
	form, err := f.opts.builder.Build(f.spec, src.mappings, src.schema.Properties)
	if err != nil {
		return fmt.Errorf("forms: build training form: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = form
	f.data = model.FormDataFrom(src.schema.Examples.FeaturesWithPrice)
	f.notice = nil
	f.state = StateReady
	return nil
}

// Edit stores the parsed value of raw. No remote call is made.
func (f *TrainingForm) Edit(name, raw string) (float64, error) {
	if !f.spec.Allows(name) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateLoading {
		return 0, ErrNotReady
	}
	return f.data.Set(name, raw), nil
}

// Submit posts the current FormData as a training row. The acknowledgment
// message is returned on success; failures are returned and kept as an error
// notice.
func (f *TrainingForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != StateReady {
		f.mu.Unlock()
		return "", ErrNotReady
	}
	f.state = StateSubmitting
	data := f.data.Clone()
	f.mu.Unlock()

	_, err := f.service.InsertTrainingRow(ctx, data)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateReady
	if err != nil {
		f.opts.logger.Warn("insert training row failed", zap.Error(err))
		f.notice = &Notice{Kind: NoticeError, Message: err.Error()}
		return "", fmt.Errorf("forms: insert training row: %w", err)
	}
	f.notice = &Notice{Kind: NoticeSuccess, Message: TrainingAck}
	return TrainingAck, nil
}

// Retrain asks the service to retrain. It runs regardless of the form state
// and does not touch it; callers log the error and move on.
func (f *TrainingForm) Retrain(ctx context.Context) (predict.Ack, error) {
	ack, err := f.service.RetrainModels(ctx)
	if err != nil {
		f.opts.logger.Warn("retrain failed", zap.Error(err))
		return predict.Ack{}, fmt.Errorf("forms: retrain: %w", err)
	}
	f.opts.logger.Info("retrain requested", zap.Int("status", ack.StatusCode))
	return ack, nil
}

// Snapshot copies the current state.
func (f *TrainingForm) Snapshot() TrainingSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := TrainingSnapshot{
		State: f.state,
		Form:  f.form,
		Data:  f.data.Clone(),
	}
	if f.notice != nil {
		notice := *f.notice
		snap.Notice = &notice
	}
	return snap
}
