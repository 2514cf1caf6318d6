// Package metrics provides Prometheus collectors for settings operations.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SettingsOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcheck_settings_operations_total",
			Help: "Settings operations by outcome",
		},
		[]string{"operation", "result"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcheck_settings_storage_seconds",
			Help:    "Time spent waiting on the selection store",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	Navigations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcheck_navigations_total",
			Help: "Navigation requests by target screen",
		},
		[]string{"screen"},
	)
)

// Result labels.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultEmpty   = "empty"
	ResultIgnored = "ignored"
)

// RecordOperation counts one operation and the time its storage call took.
func RecordOperation(operation, result string, storage time.Duration) {
	SettingsOperations.WithLabelValues(operation, result).Inc()
	StorageDuration.WithLabelValues(operation).Observe(storage.Seconds())
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
