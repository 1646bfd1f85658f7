// Package server exposes the evaluator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Settings are the grading defaults. They can be swapped while serving.
type Settings struct {
	Evaluator *grader.Evaluator
	// Params decodes request params merged over the configured defaults.
	Params func(raw map[string]any) (grader.Params, error)
}

// ReloadFunc rebuilds Settings, typically by re-reading the config file.
type ReloadFunc func() (Settings, error)

// Config holds configuration for the server.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	Logger            *slog.Logger
	// Registry receives the metrics; nil means a private registry.
	Registry *prometheus.Registry
	// WatchFile is re-read through Reload when it changes.
	WatchFile string
	Reload    ReloadFunc
}

// Server is the grading HTTP service.
type Server struct {
	addr              string
	readHeaderTimeout time.Duration
	logger            *slog.Logger
	registry          *prometheus.Registry
	metrics           *metrics
	settings          atomic.Pointer[Settings]
	watchFile         string
	reload            ReloadFunc
}

// New creates a server with the initial settings.
func New(cfg Config, s Settings) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	srv := &Server{
		addr:              cfg.Addr,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		logger:            logger,
		registry:          reg,
		metrics:           newMetrics(reg),
		watchFile:         cfg.WatchFile,
		reload:            cfg.Reload,
	}
	srv.Update(s)
	return srv
}

// Update swaps in new settings. Requests in flight keep the old ones.
func (s *Server) Update(st Settings) {
	if st.Evaluator == nil {
		st.Evaluator = grader.New()
	}
	if st.Params == nil {
		st.Params = grader.DecodeParams
	}
	s.settings.Store(&st)
}

func (s *Server) current() *Settings {
	return s.settings.Load()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
			NoColor: true,
		}),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Post("/evaluate", s.handleEvaluate)
	r.Post("/preview", s.handlePreview)
	return r
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	if s.watchFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
