// Package server exposes the advisory services over HTTP. Handlers are a
// thin shim: decode the request, check the input preconditions, invoke the
// service, write the outcome envelope. All model-fault failures surface as
// 502 with the envelope's error string; malformed or missing input is 400.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/analysis"
	"github.com/robin-app/ideation/advisor/entity"
	"github.com/robin-app/ideation/advisor/naming"
	"github.com/robin-app/ideation/advisor/profile"
	"github.com/robin-app/ideation/advisor/research"
	"github.com/robin-app/ideation/advisor/tasks"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Services bundles the advisory services the server fronts.
type Services struct {
	Research *research.Service
	Naming   *naming.Service
	Entity   *entity.Service
	Profile  *profile.Service
	Tasks    *tasks.Service
	Analysis *analysis.Service
}

// Server is the HTTP API server.
type Server struct {
	services Services
	logger   *slog.Logger
	metrics  *metrics
	httpSrv  *http.Server
}

// New creates a server listening on addr.
func New(addr string, services Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		services: services,
		logger:   logger,
		metrics:  newMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/research", s.instrument("research", s.handleResearch))
	mux.HandleFunc("/api/names", s.instrument("names", s.handleNames))
	mux.HandleFunc("/api/business-type", s.instrument("business-type", s.handleBusinessType))
	mux.HandleFunc("/api/profile", s.instrument("profile", s.handleProfile))
	mux.HandleFunc("/api/onboarding", s.instrument("onboarding", s.handleOnboarding))
	mux.HandleFunc("/api/tasks", s.instrument("tasks", s.handleTasks))
	mux.HandleFunc("/api/analysis", s.instrument("analysis", s.handleAnalysis))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// ListenAndServe runs the server until the listener fails or Shutdown is
// called. http.ErrServerClosed is returned on clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("API server listening", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeOutcome maps the envelope to HTTP: 200 on success, 502 when the
// upstream model is at fault. The envelope itself is the body either way.
func writeOutcome[T any](w http.ResponseWriter, outcome advisor.Outcome[T]) {
	status := http.StatusOK
	if !outcome.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, outcome)
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing to recover.
		_ = err
	}
}

// writeError writes a failure envelope with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, advisor.Outcome[struct{}]{Success: false, Error: message})
}
