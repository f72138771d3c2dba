// Package metrics holds the bot's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks command dispatch and lifecycle progress.
type Metrics struct {
	// Commands counts command runs by canonical alias and outcome
	Commands *prometheus.CounterVec

	// CommandDuration tracks command latency
	CommandDuration *prometheus.HistogramVec

	// ShardsReady is the number of gateway connections that reported ready
	ShardsReady prometheus.Gauge

	// LifecycleState is the numeric lifecycle state
	LifecycleState prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg gets a
// fresh private registry. Panics if registration fails.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aridcore_commands_total",
				Help: "Total command runs by command and outcome",
			},
			[]string{"command", "outcome"}, // "ok", "error"
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aridcore_command_duration_seconds",
				Help:    "Command run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		ShardsReady: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "aridcore_shards_ready",
				Help: "Gateway connections that reported ready",
			},
		),
		LifecycleState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "aridcore_lifecycle_state",
				Help: "Current lifecycle state (0 created .. 6 terminated)",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Commands,
		m.CommandDuration,
		m.ShardsReady,
		m.LifecycleState,
	)
	return m
}

// ObserveCommand records one finished command run.
func (m *Metrics) ObserveCommand(command string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (m *Metrics) SetShardsReady(n int) {
	if m == nil {
		return
	}
	m.ShardsReady.Set(float64(n))
}

func (m *Metrics) SetState(state int) {
	if m == nil {
		return
	}
	m.LifecycleState.Set(float64(state))
}

// Handler serves the registered collectors.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}
