// Package metrics exposes prometheus gauges and histograms for fleetd's
// pool composition and probe/cycle timings. None of it is required for
// correctness — the poller runs identically whether or not anything
// scrapes these.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PoolSize reports the current number of nodes in each classification
	// state.
	PoolSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetd_pool_size",
			Help: "Number of nodes in the pool by state",
		},
		[]string{"state"},
	)

	// ProbeDuration records how long each probe stage took per cycle.
	ProbeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetd_probe_duration_seconds",
			Help:    "Duration of a probe stage, by stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// CycleDuration records the wall-clock duration of a full
	// ping/ssh-reach/ssh-profile cycle.
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleetd_cycle_duration_seconds",
			Help:    "Duration of a full poller cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CommitFailuresTotal counts Node Store commit failures, by stage.
	CommitFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetd_commit_failures_total",
			Help: "Total number of Node Store commit failures, by stage",
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(PoolSize)
	prometheus.MustRegister(ProbeDuration)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(CommitFailuresTotal)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer times a single operation and reports its duration to a histogram
// on Observe.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time to a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
