// Package api provides the HTTP server for Stridr. The companion app
// pushes pedometer samples and reads progress, dashboard, badge, and
// trail state over this local REST surface.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsync "github.com/stridr-app/stridr/internal/app/sync"
	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/health"
	"github.com/stridr-app/stridr/internal/infra/notify"
	"github.com/stridr-app/stridr/internal/infra/sqlite"
)

// Server is the Stridr HTTP API server.
type Server struct {
	db         *sqlite.DB
	reconciler *appsync.Reconciler
	notifier   *notify.Dispatcher
	catalog    domain.TrailCatalog
	identity   domain.Identity
	version    string

	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates the API server.
func NewServer(db *sqlite.DB, reconciler *appsync.Reconciler, notifier *notify.Dispatcher, catalog domain.TrailCatalog, identity domain.Identity, version string) *Server {
	return &Server{
		db:         db,
		reconciler: reconciler,
		notifier:   notifier,
		catalog:    catalog,
		identity:   identity,
		version:    version,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker wires the daemon's health checker into /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "Stridr is running"})
		})
		r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
		})

		r.Get("/progress", s.handleProgress)
		r.Post("/sync", s.handleSync)
		r.Post("/steps", s.handleIngestSteps)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/badges", s.handleBadges)

		r.Get("/trails", s.handleListTrails)
		r.Get("/trails/{id}", s.handleShowTrail)
		r.Post("/trails/{id}/select", s.handleSelectTrail)
		r.Post("/trails/cancel", s.handleCancelTrail)

		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)

		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handlePutPreferences)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := http.StatusOK
	if !s.checker.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"healthy": s.checker.IsHealthy(),
		"checks":  s.checker.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local companion app.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
