// Package server exposes the analysis engines as a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Options configures the HTTP API.
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// MaxBodyBytes caps request bodies; 0 means 32 MiB.
	MaxBodyBytes int64
	// RequestsPerSecond enables a global rate limit when positive.
	RequestsPerSecond float64
	Burst             int
}

// Server serves the analysis API.
type Server struct {
	router   chi.Router
	logger   *slog.Logger
	validate *validator.Validate
	metrics  *metrics
	maxBody  int64
}

// New builds the router.
func New(opt Options) *Server {
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	origins := opt.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxBody := opt.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 32 << 20
	}
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  newMetrics(),
		maxBody:  maxBody,
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tabloom analysis API is running\n"))
	})
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if opt.RequestsPerSecond > 0 {
			r.Use(newRateLimiter(opt.RequestsPerSecond, opt.Burst, logger).Handler)
		}
		r.Post("/calculate_correlation", s.handleCorrelation)
		r.Post("/aggregate", s.handleAggregate)
		r.Post("/report", s.handleReport)
		r.Post("/describe", s.handleDescribe)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
