package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/askta/internal/assistant"
	"github.com/hyperjump/askta/internal/models"
	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 16 << 20

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	limit := s.config.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = assistant.WithRequestID(ctx, id)
	}
	s.logger.Debug("ask request",
		zap.Int("question_chars", len(req.Question)),
		zap.Bool("image", req.Image != nil))

	result, err := s.asker.Ask(ctx, req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("ask failed", zap.Int("status", status), zap.Error(err))
		}
		s.respondDetail(w, status, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.asker.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCompletion) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrEmbedding), errors.Is(err, models.ErrCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondDetail(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"detail": "Error: " + message})
}
