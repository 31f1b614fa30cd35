package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// Run metrics
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram

	// Per-ticker metrics
	tickersProcessed *prometheus.CounterVec
	collectDuration  *prometheus.HistogramVec

	// Delivery metrics
	notificationsSent *prometheus.CounterVec
	llmTokens         *prometheus.CounterVec

	universeSize prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reitwatch_runs_total",
				Help: "Total number of report runs",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reitwatch_run_duration_seconds",
				Help:    "End-to-end report run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),

		tickersProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reitwatch_tickers_processed_total",
				Help: "Tickers processed per run, by outcome",
			},
			[]string{"status"},
		),

		collectDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reitwatch_collect_duration_seconds",
				Help:    "Per-ticker collection duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),

		notificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reitwatch_notifications_sent_total",
				Help: "Digest deliveries, by notifier and status",
			},
			[]string{"notifier", "status"},
		),

		llmTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reitwatch_llm_tokens_total",
				Help: "LLM tokens consumed, by direction",
			},
			[]string{"direction"},
		),

		universeSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reitwatch_universe_size",
				Help: "Number of REITs in the configured universe",
			},
		),
	}

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.tickersProcessed)
	reg.MustRegister(r.collectDuration)
	reg.MustRegister(r.notificationsSent)
	reg.MustRegister(r.llmTokens)
	reg.MustRegister(r.universeSize)

	return r
}

// RecordRun records a completed run.
func (r *Registry) RecordRun(status string, duration float64) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration)
}

// RecordTicker records one ticker's outcome within a run.
func (r *Registry) RecordTicker(status string) {
	r.tickersProcessed.WithLabelValues(status).Inc()
}

// RecordCollect records a collection call against one source.
func (r *Registry) RecordCollect(source string, duration float64) {
	r.collectDuration.WithLabelValues(source).Observe(duration)
}

// RecordNotification records a digest delivery attempt.
func (r *Registry) RecordNotification(notifier, status string) {
	r.notificationsSent.WithLabelValues(notifier, status).Inc()
}

// RecordLLMUsage records tokens consumed by commentary generation.
func (r *Registry) RecordLLMUsage(inputTokens, outputTokens int) {
	r.llmTokens.WithLabelValues("input").Add(float64(inputTokens))
	r.llmTokens.WithLabelValues("output").Add(float64(outputTokens))
}

// SetUniverseSize sets the configured universe size.
func (r *Registry) SetUniverseSize(size int) {
	r.universeSize.Set(float64(size))
}

// Handler returns the exposition endpoint for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
