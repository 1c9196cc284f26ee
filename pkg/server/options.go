package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/pkg/predict"
	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "pricegen_session"

// ServiceFactory creates the prediction service client for a session.
type ServiceFactory func(baseURL string) (predict.Service, error)

// Option configures the server.
type Option func(*config)

type config struct {
	logger          *zap.Logger
	apiURL          string
	httpClient      *http.Client
	factory         ServiceFactory
	renderer        *vanilla.Renderer
	sequencing      bool
	maxSessions     int
	allowedOrigins  []string
	shutdownTimeout time.Duration
}

func defaultConfig() config {
	return config{
		logger:          zap.NewNop(),
		maxSessions:     256,
		allowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
		shutdownTimeout: 10 * time.Second,
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAPIURL pins the prediction service base URL. Without it each session
// derives the URL from the origin of its first request.
func WithAPIURL(url string) Option {
	return func(c *config) {
		c.apiURL = url
	}
}

// WithHTTPClient sets the client used by the default service factory.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithServiceFactory replaces the default predict.Client factory.
func WithServiceFactory(factory ServiceFactory) Option {
	return func(c *config) {
		c.factory = factory
	}
}

// WithRenderer sets the HTML renderer.
func WithRenderer(renderer *vanilla.Renderer) Option {
	return func(c *config) {
		c.renderer = renderer
	}
}

// WithSequencing turns on stale response dropping for prediction forms.
func WithSequencing(enabled bool) Option {
	return func(c *config) {
		c.sequencing = enabled
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSessions = n
		}
	}
}

// WithAllowedOrigins sets the CORS allow list.
func WithAllowedOrigins(origins []string) Option {
	return func(c *config) {
		if len(origins) > 0 {
			c.allowedOrigins = append([]string(nil), origins...)
		}
	}
}

// WithShutdownTimeout caps graceful shutdown in Run.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}
