// Package metrics provides Prometheus metrics for sync runs.
package metrics

import (
	"context"
	"fmt"
	"time"

	"registry-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusDryRun  = "dry_run"
	StatusFailure = "failure"
)

// Metrics holds the sync collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	// RunsTotal counts runs by manager and status
	RunsTotal *prometheus.CounterVec
	// ChangesTotal counts batch entries by manager and collection
	ChangesTotal *prometheus.CounterVec
	// WarningsTotal counts skipped input by manager and kind
	WarningsTotal *prometheus.CounterVec
	// RunDuration tracks run duration in seconds
	RunDuration *prometheus.HistogramVec
}

// New registers the sync collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "registry_sync",
				Name:      "runs_total",
				Help:      "Total number of sync runs by status",
			},
			[]string{"manager", "status"},
		),
		ChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "registry_sync",
				Name:      "changes_total",
				Help:      "Total number of batch entries by collection",
			},
			[]string{"manager", "collection"},
		),
		WarningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "registry_sync",
				Name:      "warnings_total",
				Help:      "Total number of skipped inputs by kind",
			},
			[]string{"manager", "kind"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "registry_sync",
				Name:      "run_duration_seconds",
				Help:      "Duration of sync runs in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
			},
			[]string{"manager"},
		),
	}
}

// RegisterRuntime adds Go runtime and process collectors, for long-running
// processes that are scraped rather than pushed.
func (m *Metrics) RegisterRuntime() *Metrics {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one finished run. batch may be nil for failed runs.
func (m *Metrics) Observe(manager, status string, batch *reconcile.Batch, stats reconcile.Stats, took time.Duration) {
	m.RunsTotal.WithLabelValues(manager, status).Inc()
	m.RunDuration.WithLabelValues(manager).Observe(took.Seconds())

	for kind, n := range stats.Warnings() {
		m.WarningsTotal.WithLabelValues(manager, kind).Add(float64(n))
	}
	if batch == nil {
		return
	}
	for collection, n := range batch.Summary().Counts() {
		m.ChangesTotal.WithLabelValues(manager, collection).Add(float64(n))
	}
}

// groupingLabel must not collide with any collector label.
const groupingLabel = "pipeline"

// Push sends the registry to a Pushgateway, grouped by manager.
func (m *Metrics) Push(ctx context.Context, gatewayURL, manager string) error {
	err := push.New(gatewayURL, "registry_sync").
		Gatherer(m.registry).
		Grouping(groupingLabel, manager).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
