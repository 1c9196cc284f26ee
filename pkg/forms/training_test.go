package forms

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pricegen/pkg/predict"
	"github.com/goliatone/go-pricegen/pkg/testsupport"
)

func TestTrainingFormLoadSeedsFromExampleWithPrice(t *testing.T) {
	form := NewTrainingForm(newFakeService(t))
	if form.Snapshot().State != StateLoading {
		t.Fatalf("new form should be loading")
	}

	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := form.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("state = %s, want ready", snap.State)
	}
	if snap.Data["price"] != 10.532 || snap.Data["year"] != 2019 {
		t.Fatalf("unexpected seed %v", snap.Data)
	}
	if _, ok := snap.Form.Field("price"); !ok {
		t.Fatalf("training form must render price")
	}
	if _, ok := snap.Form.Field("make_name"); ok {
		t.Fatalf("make_name must not be rendered")
	}
}

func TestTrainingFormLoadFailureStaysLoading(t *testing.T) {
	svc := newFakeService(t)
	svc.mapErr = errors.New("unreachable")
	form := NewTrainingForm(svc)

	if err := form.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if form.Snapshot().State != StateLoading {
		t.Fatalf("failed load must keep the form loading")
	}
	if _, err := form.Edit("year", "2020"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestTrainingFormEditDoesNotCallService(t *testing.T) {
	svc := newFakeService(t)
	form := NewTrainingForm(svc)
	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, err := form.Edit("mileage", "12.5km"); err != nil || got != 12.5 {
		t.Fatalf("Edit = %v, %v", got, err)
	}
	if got, _ := form.Edit("torque", ""); got != 0 {
		t.Fatalf("empty input should coerce to 0, got %v", got)
	}
	if _, err := form.Edit("make_name", "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if len(svc.predictCalls()) != 0 || len(svc.inserted) != 0 {
		t.Fatalf("edits must not reach the service")
	}
}

func TestTrainingFormSubmitPostsFormData(t *testing.T) {
	svc := newFakeService(t)
	form := NewTrainingForm(svc)
	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	form.Edit("price", "12000")

	ack, err := form.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ack != TrainingAck {
		t.Fatalf("ack = %q", ack)
	}
	if len(svc.inserted) != 1 || svc.inserted[0]["price"] != 12000 {
		t.Fatalf("unexpected inserted rows %v", svc.inserted)
	}
	snap := form.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("state = %s after submit", snap.State)
	}
	if diff := cmp.Diff(&Notice{Kind: NoticeSuccess, Message: TrainingAck}, snap.Notice); diff != "" {
		t.Fatalf("notice mismatch (-want +got):\n%s", diff)
	}
}

// Insert failures are surfaced to the caller and kept as an error notice
// instead of being swallowed.
func TestTrainingFormSubmitFailureIsSurfaced(t *testing.T) {
	svc := newFakeService(t)
	svc.insertErr = &predict.APIError{Operation: "insert row", StatusCode: http.StatusInternalServerError}
	form := NewTrainingForm(svc)
	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := form.Submit(context.Background())
	var apiErr *predict.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	snap := form.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("form must return to ready, got %s", snap.State)
	}
	if snap.Notice == nil || snap.Notice.Kind != NoticeError {
		t.Fatalf("expected error notice, got %+v", snap.Notice)
	}
}

func TestTrainingFormSubmitRequiresReady(t *testing.T) {
	form := NewTrainingForm(newFakeService(t))
	if _, err := form.Submit(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestTrainingFormRetrainIsIndependent(t *testing.T) {
	svc := newFakeService(t)
	form := NewTrainingForm(svc)

	if _, err := form.Retrain(context.Background()); err != nil {
		t.Fatalf("retrain: %v", err)
	}
	if svc.retrains != 1 {
		t.Fatalf("expected one retrain call, got %d", svc.retrains)
	}
	if form.Snapshot().State != StateLoading {
		t.Fatalf("retrain must not change form state")
	}
}

func TestTrainingFormAgainstHTTPService(t *testing.T) {
	svc := testsupport.NewService(t)
	client, err := predict.NewClient(svc.URL, predict.WithHTTPClient(svc.Client()))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	form := NewTrainingForm(client)
	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := form.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rows := svc.Requests(predict.PathInsertRow)
	if len(rows) != 1 {
		t.Fatalf("expected one insert, got %d", len(rows))
	}
	if body := rows[0].Decode(t); body["price"] != 10.532 {
		t.Fatalf("unexpected body %v", body)
	}
}
