package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pricegen "github.com/goliatone/go-pricegen"
	"github.com/goliatone/go-pricegen/pkg/drag"
	"github.com/goliatone/go-pricegen/pkg/forms"
	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/predict"
	"github.com/goliatone/go-pricegen/pkg/render"
	"github.com/goliatone/go-pricegen/pkg/renderers/jsonform"
	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

// Server is the composition root for the browser front end.
type Server struct {
	cfg      config
	logger   *zap.Logger
	renderer *vanilla.Renderer
	registry *render.Registry
	sessions *sessionStore
	router   chi.Router
}

// New wires the router, the renderer and the session store.
func New(options ...Option) (*Server, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.renderer
	if renderer == nil {
		var err error
		renderer, err = vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}

	if cfg.factory == nil {
		client := cfg.httpClient
		logger := cfg.logger
		cfg.factory = func(baseURL string) (predict.Service, error) {
			return predict.NewClient(baseURL, predict.WithHTTPClient(client), predict.WithLogger(logger))
		}
	}

	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	registry.MustRegister(jsonform.New())

	s := &Server{
		cfg:      cfg,
		logger:   cfg.logger,
		renderer: renderer,
		registry: registry,
	}
	s.sessions = newSessionStore(cfg.maxSessions, s.newSession, cfg.logger)
	s.router = s.routes()
	return s, nil
}

func (s *Server) newSession(id, baseURL string) (*session, error) {
	service, err := s.cfg.factory(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server: prediction service for %s: %w", baseURL, err)
	}
	logger := s.logger.With(zap.String("session", id))
	viewport := drag.NewBus()

	opts := []forms.Option{forms.WithLogger(logger), forms.WithViewport(viewport)}
	if s.cfg.sequencing {
		opts = append(opts, forms.WithSequencing())
	}

	logger.Debug("session created", zap.String("api", baseURL))
	return &session{
		id:         id,
		baseURL:    baseURL,
		training:   forms.NewTrainingForm(service, opts...),
		prediction: forms.NewPredictionForm(service, opts...),
		viewport:   viewport,
		logger:     logger,
	}, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/runtime/*", http.StripPrefix("/runtime/", http.FileServer(http.FS(pricegen.RuntimeAssetsFS()))))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Get("/", s.handlePage)

	r.Route("/forms/training", func(r chi.Router) {
		r.Get("/", s.withSession(s.handleFormState(model.FormTraining)))
		r.Post("/fields", s.withSession(s.handleTrainingField))
		r.Post("/submit", s.withSession(s.handleTrainingSubmit))
		r.Post("/retrain", s.withSession(s.handleTrainingRetrain))
	})
	r.Route("/forms/prediction", func(r chi.Router) {
		r.Get("/", s.withSession(s.handleFormState(model.FormPrediction)))
		r.Post("/fields", s.withSession(s.handlePredictionField))
		r.Post("/submit", s.withSession(s.handlePredictionSubmit))
		r.Post("/close", s.withSession(s.handlePredictionClose))
		r.Post("/panel", s.withSession(s.handlePanel))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions reports the number of live sessions.
func (s *Server) Sessions() int {
	return s.sessions.len()
}

// Close tears down every session.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.Close()
	return err
}
