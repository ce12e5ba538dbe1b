// Package debugsrv exposes race diagnostics over HTTP while the game runs.
package debugsrv

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"swimrace/internal/game"
	"swimrace/pkg/logger"
)

// ErrServe wraps listener failures.
var ErrServe = errors.New("debug server failed")

const shutdownTimeout = 2 * time.Second

// Server serves /status, /healthz and /metrics. It only reads the
// snapshot buffer, never the simulation itself.
type Server struct {
	snapshots *game.SnapshotBuffer
	registry  *prometheus.Registry
	log       logger.Logger
}

func New(snapshots *game.SnapshotBuffer, registry *prometheus.Registry, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{snapshots: snapshots, registry: registry, log: log}
}

// Handler returns the routes wrapped in a permissive read-only CORS policy.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
	return c.Handler(mux)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info(ctx, "Debug server listening", logger.String("addr", addr))

	select {
	case err := <-errCh:
		return errors.Join(ErrServe, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "method_not_allowed", Message: r.Method})
		return
	}
	snap := s.snapshots.Load()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: "not_ready", Message: "no frame published yet"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
