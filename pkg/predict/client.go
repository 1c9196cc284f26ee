package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/internal/openapi/loader"
	"github.com/goliatone/go-pricegen/pkg/labels"
	"github.com/goliatone/go-pricegen/pkg/model"
	pkgopenapi "github.com/goliatone/go-pricegen/pkg/openapi"
)

const (
	PathLabelMappings = "/api/v1/predict/label_mappings"
	PathOpenAPI       = "/openapi.json"
	PathPredict       = "/api/v1/predict/price"
	PathInsertRow     = "/api/v1/predict/insert_row"
	PathRetrain       = "/api/v1/predict/__retrain_models__"
)

// PredictionResult holds the three model estimates.
type PredictionResult struct {
	LinearRegression float64 `json:"lr_prediction"`
	XGBoost          float64 `json:"xgb_prediction"`
	MLP              float64 `json:"mlp_prediction"`
}

// Ack is the acknowledgment returned by insert and retrain. Its shape is not
// fixed, so the raw payload is kept next to an optional message.
type Ack struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// Service is the set of remote operations the forms depend on.
type Service interface {
	FetchLabelMappings(ctx context.Context) (labels.Mappings, error)
	FetchOpenAPISchema(ctx context.Context) (pkgopenapi.Document, error)
	PredictPrice(ctx context.Context, data model.FormData) (PredictionResult, error)
	InsertTrainingRow(ctx context.Context, data model.FormData) (Ack, error)
	RetrainModels(ctx context.Context) (Ack, error)
}

// Client talks to the prediction service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ Service = (*Client)(nil)

// Option customises the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for every call.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client rooted at baseURL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("predict: base URL is required")
	}
	src, err := pkgopenapi.ParseSource(base + PathOpenAPI)
	if err != nil {
		return nil, fmt.Errorf("predict: invalid base URL: %w", err)
	}
	if src.Kind() != pkgopenapi.SourceKindURL {
		return nil, fmt.Errorf("predict: base URL %q must be http or https", base)
	}
	c := &Client{
		baseURL: base,
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL reports the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchLabelMappings loads the label to code tables.
func (c *Client) FetchLabelMappings(ctx context.Context) (labels.Mappings, error) {
	_, body, err := c.do(ctx, "label mappings", http.MethodGet, PathLabelMappings, nil)
	if err != nil {
		return labels.Mappings{}, err
	}
	mappings, err := labels.Decode(body)
	if err != nil {
		return labels.Mappings{}, fmt.Errorf("predict: label mappings: %w", err)
	}
	return mappings, nil
}

// FetchOpenAPISchema downloads the service's OpenAPI document. Extracting the
// example records is left to the parser.
func (c *Client) FetchOpenAPISchema(ctx context.Context) (pkgopenapi.Document, error) {
	l := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(c.http)))
	started := time.Now()
	doc, err := l.Load(ctx, pkgopenapi.SourceFromURL(c.baseURL+PathOpenAPI))
	if err != nil {
		var status *loader.StatusError
		if errors.As(err, &status) {
			return pkgopenapi.Document{}, &APIError{Operation: "openapi schema", StatusCode: status.StatusCode}
		}
		return pkgopenapi.Document{}, fmt.Errorf("predict: openapi schema: %w", err)
	}
	c.logger.Debug("service call",
		zap.String("op", "openapi schema"),
		zap.Duration("elapsed", time.Since(started)))
	return doc, nil
}

// PredictPrice posts the feature values and returns the model estimates. A
// 422 reply with a parsable detail list becomes *ValidationError.
func (c *Client) PredictPrice(ctx context.Context, data model.FormData) (PredictionResult, error) {
	_, body, err := c.do(ctx, "price", http.MethodPost, PathPredict, data)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
			if verr := decodeValidation(apiErr); verr != nil {
				return PredictionResult{}, verr
			}
		}
		return PredictionResult{}, err
	}
	var result PredictionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return PredictionResult{}, fmt.Errorf("predict: price: decode response: %w", err)
	}
	return result, nil
}

// InsertTrainingRow appends a labeled example to the training set.
func (c *Client) InsertTrainingRow(ctx context.Context, data model.FormData) (Ack, error) {
	return c.ack(ctx, "insert row", PathInsertRow, data)
}

// RetrainModels asks the service to retrain every model. No body is sent.
func (c *Client) RetrainModels(ctx context.Context) (Ack, error) {
	return c.ack(ctx, "retrain", PathRetrain, nil)
}

func (c *Client) ack(ctx context.Context, op, path string, data model.FormData) (Ack, error) {
	status, body, err := c.do(ctx, op, http.MethodPost, path, data)
	if err != nil {
		return Ack{}, err
	}
	out := Ack{StatusCode: status}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if json.Valid(body) {
		out.Raw = json.RawMessage(body)
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		out.Message = payload.Message
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, data model.FormData) (int, []byte, error) {
	var reader io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return 0, nil, fmt.Errorf("predict: %s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("predict: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("predict: %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("predict: %s: read response: %w", op, err)
	}
	c.logger.Debug("service call",
		zap.String("op", op),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, &APIError{Operation: op, StatusCode: resp.StatusCode, Body: body}
	}
	return resp.StatusCode, body, nil
}

func decodeValidation(apiErr *APIError) *ValidationError {
	var payload struct {
		Detail []ValidationDetail `json:"detail"`
	}
	if err := json.Unmarshal(apiErr.Body, &payload); err != nil || payload.Detail == nil {
		return nil
	}
	return &ValidationError{API: apiErr, Details: payload.Detail}
}
