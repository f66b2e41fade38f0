package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Logging logs each operation with its duration and outcome.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, mc *Context, next Next) error {
		start := time.Now()
		logger.DebugContext(ctx, "operation started", "op", mc.Operation)

		err := next()
		if err != nil {
			logger.WarnContext(ctx, "operation failed",
				"op", mc.Operation,
				"duration", time.Since(start),
				"error", err,
			)
			return err
		}
		logger.InfoContext(ctx, "operation completed",
			"op", mc.Operation,
			"duration", time.Since(start),
		)
		return nil
	}
}

// Metrics holds the operation counters and latencies.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minions_operations_total",
			Help: "Total client operations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "error"

		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minions_operation_duration_seconds",
			Help:    "Duration of client operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

// Middleware returns a middleware recording into m.
func (m *Metrics) Middleware() Middleware {
	return func(ctx context.Context, mc *Context, next Next) error {
		start := time.Now()
		err := next()

		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.Operations.WithLabelValues(string(mc.Operation), outcome).Inc()
		m.Duration.WithLabelValues(string(mc.Operation)).Observe(time.Since(start).Seconds())
		return err
	}
}
