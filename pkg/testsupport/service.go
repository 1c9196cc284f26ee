package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest captures a call made against the stub prediction service.
type RecordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// Decode unmarshals the recorded body into a field map.
func (r RecordedRequest) Decode(t testing.TB) map[string]float64 {
	t.Helper()

	out := map[string]float64{}
	if len(r.Body) == 0 {
		return out
	}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		t.Fatalf("decode recorded body: %v", err)
	}
	return out
}

// Service is an httptest-backed stand-in for the prediction service. It
// serves the shared fixtures and lets tests override individual endpoints.
type Service struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest

	mappings []byte
	openapi  []byte
	predict  http.HandlerFunc
	insert   http.HandlerFunc
	retrain  http.HandlerFunc
}

// ServiceOption customises the stub service.
type ServiceOption func(*Service)

// WithOpenAPIFixture serves a different OpenAPI fixture.
func WithOpenAPIFixture(t testing.TB, name string) ServiceOption {
	return func(s *Service) {
		s.openapi = MustReadFixture(t, name)
	}
}

// WithPredictHandler overrides the /price endpoint.
func WithPredictHandler(fn http.HandlerFunc) ServiceOption {
	return func(s *Service) {
		s.predict = fn
	}
}

// WithInsertHandler overrides the /insert_row endpoint.
func WithInsertHandler(fn http.HandlerFunc) ServiceOption {
	return func(s *Service) {
		s.insert = fn
	}
}

// WithRetrainHandler overrides the /__retrain_models__ endpoint.
func WithRetrainHandler(fn http.HandlerFunc) ServiceOption {
	return func(s *Service) {
		s.retrain = fn
	}
}

// NewService starts the stub service and registers cleanup on t.
func NewService(t testing.TB, options ...ServiceOption) *Service {
	t.Helper()

	svc := &Service{
		mappings: MustReadFixture(t, "label_mappings.json"),
		openapi:  MustReadFixture(t, "openapi.json"),
		predict:  JSONHandler(http.StatusOK, DefaultPrediction),
		insert:   JSONHandler(http.StatusCreated, map[string]string{"message": "Row inserted successfully."}),
		retrain:  JSONHandler(http.StatusOK, map[string]any{"linear_regression": map[string]float64{"r2": 0.81}}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(svc)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/predict/label_mappings", svc.record(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(svc.mappings)
	}))
	mux.HandleFunc("/openapi.json", svc.record(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(svc.openapi)
	}))
	mux.HandleFunc("/api/v1/predict/price", svc.record(func(w http.ResponseWriter, r *http.Request) {
		svc.predict(w, r)
	}))
	mux.HandleFunc("/api/v1/predict/insert_row", svc.record(func(w http.ResponseWriter, r *http.Request) {
		svc.insert(w, r)
	}))
	mux.HandleFunc("/api/v1/predict/__retrain_models__", svc.record(func(w http.ResponseWriter, r *http.Request) {
		svc.retrain(w, r)
	}))

	svc.Server = httptest.NewServer(mux)
	t.Cleanup(svc.Server.Close)
	return svc
}

// Requests returns the calls received so far, optionally filtered by path.
func (s *Service) Requests(path string) []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []RecordedRequest
	for _, req := range s.requests {
		if path == "" || req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func (s *Service) record(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}

// DefaultPrediction is the payload served by the stub /price endpoint.
var DefaultPrediction = map[string]float64{
	"lr_prediction":  10000,
	"xgb_prediction": 10500,
	"mlp_prediction": 9800,
}

// JSONHandler writes payload as JSON with the given status.
func JSONHandler(status int, payload any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// ValidationHandler replies 422 with a FastAPI style detail list.
func ValidationHandler(details ...map[string]any) http.HandlerFunc {
	return JSONHandler(http.StatusUnprocessableEntity, map[string]any{"detail": details})
}
