// Package server provides the HTTP API for the course assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/askta/internal/assistant"
	"github.com/hyperjump/askta/internal/config"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/pkg/utils"
	"go.uber.org/zap"
)

// Asker answers questions and reports corpus status.
type Asker interface {
	Ask(ctx context.Context, req models.AskRequest) (*models.QueryResult, error)
	Status() assistant.Status
}

// Server is the HTTP server for the answering API.
type Server struct {
	asker  Asker
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(asker Asker, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		asker:  asker,
		config: cfg,
		logger: utils.OrNop(logger),
	}
}

// Router returns the HTTP handler with middleware and routes installed.
func (s *Server) Router() http.Handler {
	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Post("/api/", s.handleAsk)
	r.Post("/api", s.handleAsk)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote", r.RemoteAddr),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
