// Package metrics exposes the prometheus collectors tracking index and
// query behavior, grounded on the promauto pattern used by
// optakt-flow-dps's service/index/metrics.go (counters registered at
// construction time, incremented inline by callers).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels the stage at which a query resolved.
type Outcome string

const (
	OutcomeBloomNegative Outcome = "bloom_negative"
	OutcomeTrie          Outcome = "trie"
	OutcomeTrigram       Outcome = "trigram"
)

// Collectors bundles every metric the index, updater, and query pipeline
// report to.
type Collectors struct {
	QueriesTotal    *prometheus.CounterVec
	PostingsDecoded prometheus.Counter
	CommitDuration  prometheus.Histogram
	IndexFiles      prometheus.Gauge

	registry *prometheus.Registry
}

// New registers and returns a fresh Collectors set against its own
// registry, so that multiple Index instances (and tests) never collide
// over the global default registerer.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qfind_queries_total",
			Help: "Number of queries served, labeled by resolution outcome.",
		}, []string{"outcome"}),

		PostingsDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "qfind_postings_decoded_total",
			Help: "Number of trigram posting lists decoded during query evaluation.",
		}),

		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "qfind_commit_duration_seconds",
			Help:    "Duration of incremental index commit operations.",
			Buckets: prometheus.DefBuckets,
		}),

		IndexFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "qfind_index_files",
			Help: "Number of live (non-tombstoned) files currently indexed.",
		}),
	}
}

// Registry exposes the registry collectors are registered against, for
// wiring into an HTTP /metrics endpoint.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveQuery records a single query's resolution outcome.
func (c *Collectors) ObserveQuery(outcome Outcome) {
	if c == nil {
		return
	}
	c.QueriesTotal.WithLabelValues(string(outcome)).Inc()
}

// ObservePostingsDecoded records one trigram posting-list decode.
func (c *Collectors) ObservePostingsDecoded() {
	if c == nil {
		return
	}
	c.PostingsDecoded.Inc()
}

// ObserveCommit records a commit's wall-clock duration.
func (c *Collectors) ObserveCommit(d time.Duration) {
	if c == nil {
		return
	}
	c.CommitDuration.Observe(d.Seconds())
}

// SetIndexFiles sets the current live-file gauge.
func (c *Collectors) SetIndexFiles(n int) {
	if c == nil {
		return
	}
	c.IndexFiles.Set(float64(n))
}
