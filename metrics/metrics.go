// Package metrics exposes Prometheus metrics for HTTP traffic and the generation, healing,
// deployment and marketplace services.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ultrabuild/ultrabuild/domain"
)

const namespace = "ultrabuild"

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 300}

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	registry *prometheus.Registry

	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	deploymentsTotal   *prometheus.CounterVec
	deploymentDuration *prometheus.HistogramVec
	deploymentsRunning prometheus.Gauge
	projectsTotal      *prometheus.CounterVec
	healsTotal         prometheus.Counter
	findingsTotal      *prometheus.CounterVec
	healConfidence     prometheus.Histogram
	purchasesTotal     prometheus.Counter
	revenueTotal       prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		deploymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deploy",
			Name:      "deployments_total",
			Help:      "Finished deployments by target and outcome",
		}, []string{"target", "outcome"}),
		deploymentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deploy",
			Name:      "duration_seconds",
			Help:      "Deployment duration by target",
			Buckets:   histogramBuckets,
		}, []string{"target"}),
		deploymentsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "deploy",
			Name:      "in_progress",
			Help:      "Deployments currently running",
		}),
		projectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "projects_total",
			Help:      "Generated projects by type and complexity",
		}, []string{"type", "complexity"}),
		healsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "healer",
			Name:      "runs_total",
			Help:      "Heal runs",
		}),
		findingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "healer",
			Name:      "findings_total",
			Help:      "Scanner findings by category and severity",
		}, []string{"category", "severity"}),
		healConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "healer",
			Name:      "confidence",
			Help:      "Confidence of heal results",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		purchasesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "purchases_total",
			Help:      "Template purchases",
		}),
		revenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "revenue_total",
			Help:      "Revenue from template purchases",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestLatency,
		m.deploymentsTotal,
		m.deploymentDuration,
		m.deploymentsRunning,
		m.projectsTotal,
		m.healsTotal,
		m.findingsTotal,
		m.healConfidence,
		m.purchasesTotal,
		m.revenueTotal,
	)
	return m
}

// Registry returns the registry backing m
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency labelled by the chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		m.requestTotal.With(labels).Inc()
		m.requestLatency.With(labels).Observe(time.Since(started).Seconds())
	})
}

// OnDeploymentEvent implements deploy.Observer
func (m *Metrics) OnDeploymentEvent(_ context.Context, event domain.DeploymentEvent) {
	switch event.Type {
	case domain.DeploymentEventStarted:
		m.deploymentsRunning.Inc()
		return
	case domain.DeploymentEventSuccess, domain.DeploymentEventFailed, domain.DeploymentEventError:
		m.deploymentsRunning.Dec()
		m.deploymentsTotal.WithLabelValues(event.Target.String(), event.Type.String()).Inc()
		if event.Result != nil {
			m.deploymentDuration.WithLabelValues(event.Target.String()).Observe(event.Result.Duration.Seconds())
		}
	}
}

// ProjectGenerated implements generator.Observer
func (m *Metrics) ProjectGenerated(p *domain.GeneratedProject) {
	m.projectsTotal.WithLabelValues(string(p.Type), p.Complexity.String()).Inc()
}

// Healed implements healer.Observer
func (m *Metrics) Healed(result *domain.HealingResult) {
	m.healsTotal.Inc()
	m.healConfidence.Observe(result.Confidence)
	for _, f := range result.Findings {
		m.findingsTotal.WithLabelValues(f.Category.String(), f.Severity.String()).Inc()
	}
}

// Purchased implements ledger.Observer
func (m *Metrics) Purchased(_ *domain.Template, purchase *domain.Purchase) {
	m.purchasesTotal.Inc()
	if purchase.Price > 0 {
		m.revenueTotal.Add(purchase.Price)
	}
}
