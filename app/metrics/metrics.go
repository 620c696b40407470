// Package metrics collects and exposes Prometheus metrics for the parse
// and fetch paths.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	parseSuccess  prometheus.Counter
	parseFail     *prometheus.CounterVec
	fetchSuccess  prometheus.Counter
	fetchFail     prometheus.Counter
	parseDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		parseSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atomcomb_parse_success_total",
			Help: "Total number of successfully parsed Atom documents",
		}),
		parseFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atomcomb_parse_fail_total",
			Help: "Total number of failed parses by error kind",
		}, []string{"kind"}),
		fetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atomcomb_fetch_success_total",
			Help: "Total number of successful remote feed fetches",
		}),
		fetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atomcomb_fetch_fail_total",
			Help: "Total number of failed remote feed fetches",
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atomcomb_parse_duration_seconds",
			Help:    "Time spent parsing a single Atom document",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.parseSuccess,
		c.parseFail,
		c.fetchSuccess,
		c.fetchFail,
		c.parseDuration,
	)

	return c
}

func (c *Collector) RecordParseSuccess() {
	c.parseSuccess.Inc()
}

// RecordParseFailure records a failed parse labeled by error kind, e.g.
// "missing_element" or "xml_syntax".
func (c *Collector) RecordParseFailure(kind string) {
	c.parseFail.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordFetchSuccess() {
	c.fetchSuccess.Inc()
}

func (c *Collector) RecordFetchFailure() {
	c.fetchFail.Inc()
}

func (c *Collector) RecordParseDuration(duration time.Duration) {
	c.parseDuration.Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
