package observability

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// MetricsServer exposes /metrics for prometheus and /stats for humans.
type MetricsServer struct {
	log        *slog.Logger
	server     *http.Server
	monitoring *MonitoringManager
}

func NewMetricsServer(log *slog.Logger, addr string, monitoring *MonitoringManager) *MetricsServer {
	s := &MetricsServer{log: log, monitoring: monitoring}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/stats", s.stats)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *MetricsServer) stats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.monitoring.GetLatest()); err != nil {
		s.log.Warn("Unable to encode stats", "error", err)
	}
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *MetricsServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Metrics server listening", "addr", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log.Error("Failed to shut down metrics server", "error", err)
		}
		return nil
	}
}
