// Package server exposes the schema editor over HTTP: a server-rendered page
// driven by a session.Coordinator plus a small JSON API for previewing,
// validating and submitting against a schema.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/sample"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/session"
	"github.com/goliatone/go-formschema/pkg/theme"
	"github.com/goliatone/go-formschema/pkg/validation"
)

const maxBodyBytes = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithCoordinator sets the session backing the editor page.
func WithCoordinator(c *session.Coordinator) Option {
	return func(s *Server) {
		s.coordinator = c
	}
}

// WithHTMLRenderer sets the renderer used for the page and /api/preview.
func WithHTMLRenderer(r *html.Renderer) Option {
	return func(s *Server) {
		s.html = r
	}
}

// WithThemeSelector overrides the editor theme selector.
func WithThemeSelector(selector *theme.Selector) Option {
	return func(s *Server) {
		s.selector = selector
	}
}

// WithParseOptions forwards options to every schema parse made by the API.
func WithParseOptions(options ...schema.ParseOption) Option {
	return func(s *Server) {
		s.parseOptions = append(s.parseOptions, options...)
	}
}

// WithSample replaces the document served at /data.json.
func WithSample(raw []byte) Option {
	return func(s *Server) {
		if len(raw) > 0 {
			s.sample = append([]byte(nil), raw...)
		}
	}
}

// WithSampleStaging fetches and stages the sample in the background once
// Serve is accepting connections.
func WithSampleStaging() Option {
	return func(s *Server) {
		s.stageSample = true
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for API receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides API receipt ids.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Server) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Server serves the editor page and the JSON API.
type Server struct {
	coordinator  *session.Coordinator
	html         *html.Renderer
	selector     *theme.Selector
	orchestrator *orchestrator.Orchestrator
	validator    *validation.Validator
	parseOptions []schema.ParseOption
	sample       []byte
	stageSample  bool
	logger       *slog.Logger
	now          func() time.Time
	newID        func() uuid.UUID
	router       *mux.Router
}

// New builds a Server, filling in defaults for anything not configured.
func New(options ...Option) (*Server, error) {
	s := &Server{
		sample:    sample.Default(),
		logger:    slog.Default(),
		validator: validation.New(),
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.html == nil {
		renderer, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.html = renderer
	}
	if s.selector == nil {
		selector, err := theme.NewSelector()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.selector = selector
	}
	if s.coordinator == nil {
		s.coordinator = session.NewCoordinator(session.WithLogger(s.logger))
	}

	registry, err := render.NewRegistry(s.html)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.orchestrator = orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithThemeSelector(s.selector),
		orchestrator.WithParseOptions(s.parseOptions...),
		orchestrator.WithLogger(s.logger),
	)

	s.router = s.routes()
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Coordinator exposes the session behind the editor page.
func (s *Server) Coordinator() *session.Coordinator {
	return s.coordinator
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRequestLogger)

	r.Path("/healthz").Methods(http.MethodGet).HandlerFunc(s.Healthz)
	r.Path(sample.Path).Methods(http.MethodGet).HandlerFunc(s.Sample)

	r.Path("/").Methods(http.MethodGet).HandlerFunc(s.Page)
	r.Path("/editor").Methods(http.MethodPost).HandlerFunc(s.EditorChanged)
	r.Path("/preview").Methods(http.MethodPost).HandlerFunc(s.PreviewRequested)
	r.Path("/preview/cancel").Methods(http.MethodPost).HandlerFunc(s.PreviewCancelled)
	r.Path("/submit").Methods(http.MethodPost).HandlerFunc(s.SubmitConfirmed)
	r.Path("/theme/dark").Methods(http.MethodPost).HandlerFunc(s.ToggleDark)
	r.Path("/theme/light").Methods(http.MethodPost).HandlerFunc(s.SelectLight)
	r.Path("/sample/fetch").Methods(http.MethodPost).HandlerFunc(s.FetchSample)
	r.Path("/sample/load").Methods(http.MethodPost).HandlerFunc(s.LoadSample)

	api := r.PathPrefix("/api").Subrouter()
	api.Path("/preview").Methods(http.MethodPost).HandlerFunc(s.APIPreview)
	api.Path("/validate").Methods(http.MethodPost).HandlerFunc(s.APIValidate)
	api.Path("/submit").Methods(http.MethodPost).HandlerFunc(s.APISubmit)
	api.Path("/contract").Methods(http.MethodPost).HandlerFunc(s.APIContract)

	return r
}

func (s *Server) withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		l := s.logger.With("method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(rec, r.WithContext(logger.WithLogger(r.Context(), l)))

		l.Debug("request served", "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownPeriod.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, shutdownPeriod time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, readTimeout, shutdownPeriod)
}

// Serve is ListenAndServe over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, readTimeout, shutdownPeriod time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}
	if shutdownPeriod <= 0 {
		shutdownPeriod = 5 * time.Second
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()
	if s.stageSample {
		s.coordinator.StartSampleFetch(ctx)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
