// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	satellitesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitengine_satellites_total",
			Help: "Satellites processed, by outcome.",
		},
		[]string{"status"},
	)

	stageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitengine_stage_failures_total",
			Help: "Per-satellite chain failures, by pipeline stage.",
		},
		[]string{"stage"},
	)

	chainDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbitengine_chain_duration_seconds",
			Help:    "Duration of one satellite's full pipeline chain.",
			Buckets: prometheus.DefBuckets,
		},
	)

	samplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitengine_samples_total",
			Help: "Visibility samples produced, by connectable classification.",
		},
		[]string{"connectable"},
	)

	catalogAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitengine_catalog_age_seconds",
			Help: "Age of the loaded element catalog.",
		},
	)

	workersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitengine_workers_active",
			Help: "Configured worker pool size.",
		},
	)
)

func init() {
	prometheus.MustRegister(satellitesTotal)
	prometheus.MustRegister(stageFailuresTotal)
	prometheus.MustRegister(chainDurationSeconds)
	prometheus.MustRegister(samplesTotal)
	prometheus.MustRegister(catalogAgeSeconds)
	prometheus.MustRegister(workersActive)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordChain records one completed satellite chain.
func RecordChain(duration time.Duration, connectable, total int, failedStage string) {
	chainDurationSeconds.Observe(duration.Seconds())
	if failedStage != "" {
		satellitesTotal.WithLabelValues("failed").Inc()
		stageFailuresTotal.WithLabelValues(failedStage).Inc()
		return
	}
	satellitesTotal.WithLabelValues("ok").Inc()
	samplesTotal.WithLabelValues("true").Add(float64(connectable))
	samplesTotal.WithLabelValues("false").Add(float64(total - connectable))
}

// SetCatalogAge updates the element catalog age gauge.
func SetCatalogAge(seconds float64) {
	catalogAgeSeconds.Set(seconds)
}

// SetWorkersActive records the configured worker pool size.
func SetWorkersActive(n int) {
	workersActive.Set(float64(n))
}
