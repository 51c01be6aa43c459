// Package api exposes the HTTP interface for the radar service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ingest"
	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/sweep"
)

const sweepTimeout = 10 * time.Minute

// Server wires HTTP handlers to the ingestion service and stores.
type Server struct {
	router  chi.Router
	ingest  *ingest.Service
	sweeper *sweep.Orchestrator
	leads   lead.LeadStore
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	ingestSvc *ingest.Service,
	sweeper *sweep.Orchestrator,
	leads lead.LeadStore,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		ingest:  ingestSvc,
		sweeper: sweeper,
		leads:   leads,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/ingest", s.ingestDocument)
		r.Post("/sweep", s.runSweep)
		r.Post("/rescore", s.rescore)
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.listLeads)
			r.Post("/{lead_id}/status", s.updateLeadStatus)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ingestRequest struct {
	RawHTML string `json:"rawHtml"`
	Source  string `json:"source"`
}

type ingestResponse struct {
	Success bool         `json:"success"`
	Stats   ingest.Stats `json:"stats"`
	Leads   []lead.Lead  `json:"leads"`
}

// ingestDocument handles POST /v1/ingest. Empty documents are accepted and
// report zero parsed postings; only malformed JSON is a client error.
func (s *Server) ingestDocument(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	stats, leads, err := s.ingest.Ingest(r.Context(), req.RawHTML, req.Source)
	if err != nil {
		s.logger.Error("ingestion failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	writeJSON(w, http.StatusOK, ingestResponse{Success: true, Stats: stats, Leads: leads})
}

func (s *Server) runSweep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), sweepTimeout)
	defer cancel()

	totals, err := s.sweeper.Run(ctx)
	if err != nil {
		s.logger.Error("sweep failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) rescore(w http.ResponseWriter, r *http.Request) {
	n, err := s.ingest.Rescore(r.Context())
	if err != nil {
		s.logger.Error("rescore failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "rescore failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rescored": n})
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.leads.ListLeads(r.Context())
	if err != nil {
		s.logger.Error("list leads failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

type statusRequest struct {
	Status lead.Status `json:"status"`
}

// updateLeadStatus handles POST /v1/leads/{lead_id}/status. Transitions are
// validated by the store; an out-of-order transition is a conflict, not a
// server error.
func (s *Server) updateLeadStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "lead_id")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := s.leads.UpdateStatus(r.Context(), leadID, req.Status); err != nil {
		switch {
		case errors.Is(err, lead.ErrNotFound):
			writeError(w, http.StatusNotFound, "lead not found")
		case errors.Is(err, lead.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "invalid status transition")
		default:
			s.logger.Error("status update failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"leadId": leadID,
		"status": string(req.Status),
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec))
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
