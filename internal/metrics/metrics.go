// Package metrics exposes the monitor's counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Check results
const (
	ResultMatch   = "match"
	ResultNoMatch = "no_match"
	ResultError   = "error"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	ChecksTotal   *prometheus.CounterVec
	CheckDuration prometheus.Histogram
	AlertsTotal   *prometheus.CounterVec
	Alerting      prometheus.Gauge
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketwatch_checks_total",
			Help: "Page checks by result.",
		}, []string{"result"}), // match, no_match, error
		CheckDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ticketwatch_check_duration_seconds",
			Help:    "Duration of page checks.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketwatch_alerts_total",
			Help: "Alert emails by delivery result.",
		}, []string{"result"}), // sent, failed
		Alerting: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ticketwatch_alerting",
			Help: "1 while the alert burst is running.",
		}),
	}
}

func (m *Metrics) ObserveCheck(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(result).Inc()
	m.CheckDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveAlert(sent bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !sent {
		result = "failed"
	}
	m.AlertsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) SetAlerting(on bool) {
	if m == nil {
		return
	}
	if on {
		m.Alerting.Set(1)
	} else {
		m.Alerting.Set(0)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("Metrics endpoint listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
