package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sibexico/pagesim/paging"
)

// simulatorCollector exports the simulator's own counters at scrape time,
// so paging.Metrics stays the single source of truth.
type simulatorCollector struct {
	metrics *paging.Metrics

	runs      *prometheus.Desc
	accesses  *prometheus.Desc
	faults    *prometheus.Desc
	hits      *prometheus.Desc
	evictions *prometheus.Desc
	uptime    *prometheus.Desc
}

func newSimulatorCollector(m *paging.Metrics) *simulatorCollector {
	label := []string{"algorithm"}
	return &simulatorCollector{
		metrics:   m,
		runs:      prometheus.NewDesc("pagesim_simulations_total", "Completed simulation runs.", label, nil),
		accesses:  prometheus.NewDesc("pagesim_accesses_total", "Page references processed.", label, nil),
		faults:    prometheus.NewDesc("pagesim_faults_total", "Page faults across all runs.", label, nil),
		hits:      prometheus.NewDesc("pagesim_hits_total", "Page hits across all runs.", label, nil),
		evictions: prometheus.NewDesc("pagesim_evictions_total", "Faults that displaced a resident page.", label, nil),
		uptime:    prometheus.NewDesc("pagesim_uptime_seconds", "Seconds since the simulator metrics were reset.", nil, nil),
	}
}

func (c *simulatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runs
	ch <- c.accesses
	ch <- c.faults
	ch <- c.hits
	ch <- c.evictions
	ch <- c.uptime
}

func (c *simulatorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.metrics.Algorithms() {
		s := c.metrics.Stats(name)
		ch <- prometheus.MustNewConstMetric(c.runs, prometheus.CounterValue, float64(s.Runs), name)
		ch <- prometheus.MustNewConstMetric(c.accesses, prometheus.CounterValue, float64(s.Accesses), name)
		ch <- prometheus.MustNewConstMetric(c.faults, prometheus.CounterValue, float64(s.Faults), name)
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
	}
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, c.metrics.GetUptime().Seconds())
}

// promMetrics owns a private registry so tests can build many servers.
type promMetrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func newPromMetrics(m *paging.Metrics) *promMetrics {
	pm := &promMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagesim_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagesim_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	pm.registry.MustRegister(
		pm.requests,
		pm.requestDuration,
		newSimulatorCollector(m),
		collectors.NewGoCollector(),
	)
	return pm
}

func (pm *promMetrics) observeRequest(route, method string, status int, elapsed time.Duration) {
	pm.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	pm.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (pm *promMetrics) handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}
