package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus command counters and latencies.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the command collectors and registers them with reg.
// Collectors already registered with reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphedit_commands_total",
			Help: "Dispatched commands by type, source and outcome",
		}, []string{"type", "source", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphedit_command_duration_seconds",
			Help:    "Command handler latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"}),
	}

	var err error
	if m.total, err = register(reg, m.total); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register command metrics: %w", err)
	}
	return c, nil
}

// Middleware records one observation per dispatched command.
// Status is "success", "failure" (rejected result) or "error".
func (m *Metrics) Middleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) (Result, error) {
			timer := prometheus.NewTimer(m.duration.WithLabelValues(cmd.Type))
			res, err := next(ctx, cmd)
			timer.ObserveDuration()

			status := "success"
			switch {
			case err != nil:
				status = "error"
			case !res.Success:
				status = "failure"
			}
			m.total.WithLabelValues(cmd.Type, string(cmd.Source), status).Inc()
			return res, err
		}
	}
}
