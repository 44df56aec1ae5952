// Package api provides the debug-only HTTP surface for standbyd: a
// read-mostly window onto engine state for operators and tests, not an
// IPC surface for other services to depend on (the IPC layer that
// would expose classification results to other subsystems is out of
// scope — see SPEC_FULL.md §1 Non-goals).
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumenhost/standbyd/internal/domain"
	"github.com/lumenhost/standbyd/internal/standby"
)

// Server is the standbyd debug HTTP server.
type Server struct {
	engine         *standby.Engine
	metricsEnabled bool
}

// NewServer creates a new API server over engine.
func NewServer(engine *standby.Engine) *Server {
	return &Server{engine: engine}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/debug", func(r chi.Router) {
		r.Get("/buckets/{user}", s.handleListBuckets)
		r.Get("/history/{user}/{pkg}", s.handleGetHistory)
		r.Post("/events/{user}/{pkg}/{kind}", s.handleInjectEvent)
	})

	return r
}

func (s *Server) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	user, err := strconv.Atoi(chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	type entry struct {
		Package string `json:"package"`
		Bucket  string `json:"bucket"`
		Reason  string `json:"reason"`
	}
	var out []entry
	s.engine.Store().IterUser(user, func(h domain.AppHistory) {
		out = append(out, entry{Package: h.Package, Bucket: h.CurrentBucket.String(), Reason: h.CurrentReason.String()})
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	user, err := strconv.Atoi(chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	pkg := chi.URLParam(r, "pkg")

	bucket, err := s.engine.GetAppStandbyBucket(user, pkg, true)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user":    chi.URLParam(r, "user"),
		"package": pkg,
		"bucket":  bucket.String(),
	})
}

func (s *Server) handleInjectEvent(w http.ResponseWriter, r *http.Request) {
	user, err := strconv.Atoi(chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	pkg := chi.URLParam(r, "pkg")

	var kind domain.EventKind
	switch chi.URLParam(r, "kind") {
	case "user_interaction":
		kind = domain.UserInteraction
	case "notification_seen":
		kind = domain.NotificationSeen
	default:
		writeError(w, http.StatusBadRequest, "unknown event kind")
		return
	}

	if err := s.engine.ReportEvent(user, pkg, kind); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
