package forms

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-pricegen/pkg/labels"
	"github.com/goliatone/go-pricegen/pkg/model"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
	"github.com/goliatone/go-pricegen/pkg/predict"
	"github.com/goliatone/go-pricegen/pkg/testsupport"
)

type predictReply struct {
	result predict.PredictionResult
	err    error
}

// fakeService serves the shared fixtures and scripts prediction replies.
// When gates is set, each PredictPrice call blocks on the next gate.
type fakeService struct {
	t testing.TB

	mu        sync.Mutex
	predicted []model.FormData
	inserted  []model.FormData
	retrains  int
	replies   []predictReply
	gates     []chan predictReply
	insertErr error
	mapErr    error
}

var _ predict.Service = (*fakeService)(nil)

func newFakeService(t testing.TB) *fakeService {
	return &fakeService{t: t}
}

func (f *fakeService) FetchLabelMappings(context.Context) (labels.Mappings, error) {
	if f.mapErr != nil {
		return labels.Mappings{}, f.mapErr
	}
	return labels.Decode(testsupport.MustReadFixture(f.t, "label_mappings.json"))
}

func (f *fakeService) FetchOpenAPISchema(context.Context) (pkgopenapi.Document, error) {
	return testsupport.LoadDocument(f.t, "openapi.json"), nil
}

func (f *fakeService) PredictPrice(ctx context.Context, data model.FormData) (predict.PredictionResult, error) {
	f.mu.Lock()
	f.predicted = append(f.predicted, data.Clone())
	var gate chan predictReply
	if len(f.gates) > 0 {
		gate = f.gates[0]
		f.gates = f.gates[1:]
	}
	reply := predictReply{result: predict.PredictionResult{LinearRegression: 10000, XGBoost: 10500, MLP: 9800}}
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case reply = <-gate:
		case <-ctx.Done():
			return predict.PredictionResult{}, ctx.Err()
		}
	}
	return reply.result, reply.err
}

func (f *fakeService) InsertTrainingRow(_ context.Context, data model.FormData) (predict.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, data.Clone())
	if f.insertErr != nil {
		return predict.Ack{}, f.insertErr
	}
	return predict.Ack{StatusCode: 201, Message: "ok"}, nil
}

func (f *fakeService) RetrainModels(context.Context) (predict.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrains++
	return predict.Ack{StatusCode: 200}, nil
}

func (f *fakeService) predictCalls() []model.FormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.FormData(nil), f.predicted...)
}
