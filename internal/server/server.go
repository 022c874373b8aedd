// Package server provides the HTTP REST API for the resume analyzer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/server/middleware"
)

// DefaultMaxUploadBytes applies when Config.MaxUploadBytes is zero
const DefaultMaxUploadBytes = 10 << 20

// FileSource reads and removes original uploads kept outside the record.
type FileSource interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      resume.Store
	pipeline   *pipeline.Pipeline
	files      FileSource
	jwtService *JWTService
	validator  *validator.Validate
	logger     zerolog.Logger
	health     HealthCheck
	maxUpload  int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithFileSource serves and deletes originals kept in object storage.
func WithFileSource(files FileSource) Option {
	return func(s *Server) { s.files = files }
}

// WithHealthCheck makes /health report failures of check.
func WithHealthCheck(check HealthCheck) Option {
	return func(s *Server) { s.health = check }
}

// New creates a new server instance
func New(cfg Config, store resume.Store, p *pipeline.Pipeline, jwtService *JWTService, opts ...Option) *Server {
	s := &Server{
		store:      store,
		pipeline:   p,
		jwtService: jwtService,
		validator:  newValidator(),
		logger:     zerolog.Nop(),
		maxUpload:  cfg.MaxUploadBytes,
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for model calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /resumes/parse", s.handleParseResume)
	api.HandleFunc("POST /resumes/parse/stream", s.handleParseResumeStream)
	api.HandleFunc("GET /resumes", s.handleListResumes)
	api.HandleFunc("GET /resumes/stats/user", s.handleUserStats)
	api.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	api.HandleFunc("PATCH /resumes/{id}", s.handleUpdateResume)
	api.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)
	api.HandleFunc("GET /resumes/{id}/file", s.handleResumeFile)
	api.HandleFunc("GET /resumes/{id}/analysis", s.handleResumeAnalysis)
	api.HandleFunc("POST /resumes/{id}/analyze", s.handleReanalyze)
	api.HandleFunc("POST /resumes/{id}/job-match", s.handleJobMatch)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/resumes", auth(api))
	mux.Handle("/resumes/", auth(api))

	return middleware.RequestLogger(s.logger)(s.withCORS(mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	analysisState := "disabled"
	if s.pipeline.AnalysisEnabled() {
		analysisState = "enabled"
	}

	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Error().Err(err).Msg("health check failed")
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "analysis": analysisState})
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "analysis": analysisState})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status. Server-side failures are logged and
// reported without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
