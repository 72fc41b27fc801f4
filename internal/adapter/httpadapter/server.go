package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportSource supplies the most recent run and readiness state.
type ReportSource interface {
	sharedobs.ReadinessChecker
	Latest() (domain.RunOutput, bool)
}

// Server exposes health, metrics, and the latest reports over HTTP.
type Server struct {
	httpServer *http.Server
	source     ReportSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /reports/{kind} and /charts/seasonal routes.
func NewServer(addr string, source ReportSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(source))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /reports/{kind}", s.handleReport)
	mux.HandleFunc("GET /charts/seasonal", s.handleSeasonalChart)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind := domain.ReportKind(r.PathValue("kind"))
	if !knownKind(kind) {
		http.Error(w, "unknown report "+string(kind), http.StatusNotFound)
		return
	}

	out, ok := s.source.Latest()
	if !ok {
		http.Error(w, "no completed run yet", http.StatusServiceUnavailable)
		return
	}
	report, _ := out.Report(kind)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-Id", out.Run.ID)
	w.Header().Set("Last-Modified", out.Run.GeneratedAt.UTC().Format(http.TimeFormat))
	if _, err := w.Write([]byte(report.Body())); err != nil {
		s.logger.Warn("write report response failed", "report", kind, "error", err)
	}
}

func knownKind(kind domain.ReportKind) bool {
	for _, k := range domain.ReportKinds() {
		if k == kind {
			return true
		}
	}
	return false
}
