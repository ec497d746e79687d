// internal/utils/metrics/collector.go
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rogue_runner"

// MetricType names a metric held by the collector.
type MetricType string

const (
	ProjectionCounterType   MetricType = "projections"
	DashboardAdvanceType    MetricType = "dashboard_advances"
	FeedTickType            MetricType = "feed_ticks"
	TestimonialCounterType  MetricType = "testimonials"
	HTTPRequestCounterType  MetricType = "http_requests"
	HTTPRequestDurationType MetricType = "http_request_duration"
)

// Collector owns a private registry so that several instances (tests, the
// site and the terminal UI) never collide on registration.
type Collector struct {
	registry *prometheus.Registry
	metrics  sync.Map
}

// NewCollector creates a collector with Go runtime and process metrics.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.initializeMetrics()
	return c
}

func (c *Collector) initializeMetrics() {
	metricsMap := map[MetricType]prometheus.Collector{
		ProjectionCounterType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Profit projections requested, by input validity",
		}, []string{"valid"}),
		DashboardAdvanceType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_advances_total",
			Help:      "Dashboard metric advances",
		}, []string{"metric"}),
		FeedTickType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_ticks_total",
			Help:      "Simulated feed updates",
		}, []string{"feed"}),
		TestimonialCounterType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "testimonials_total",
			Help:      "Testimonial submissions, by outcome",
		}, []string{"status"}),
		HTTPRequestCounterType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served",
		}, []string{"route", "method", "status"}),
		HTTPRequestDurationType: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"route"}),
	}

	for metricType, metric := range metricsMap {
		c.metrics.Store(metricType, metric)
		c.registry.MustRegister(metric)
	}
}

func (c *Collector) counter(t MetricType) *prometheus.CounterVec {
	m, ok := c.metrics.Load(t)
	if !ok {
		return nil
	}
	vec, _ := m.(*prometheus.CounterVec)
	return vec
}

// Reset clears every labelled series.
func (c *Collector) Reset() {
	c.metrics.Range(func(_, value any) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}

// RecordProjection counts a calculator request.
func (c *Collector) RecordProjection(valid bool) {
	if vec := c.counter(ProjectionCounterType); vec != nil {
		vec.WithLabelValues(strconv.FormatBool(valid)).Inc()
	}
}

// RecordAdvance counts one advance of a dashboard metric.
func (c *Collector) RecordAdvance(metric string) {
	if vec := c.counter(DashboardAdvanceType); vec != nil {
		vec.WithLabelValues(metric).Inc()
	}
}

// RecordFeedTick counts one update of a simulated feed.
func (c *Collector) RecordFeedTick(feed string) {
	if vec := c.counter(FeedTickType); vec != nil {
		vec.WithLabelValues(feed).Inc()
	}
}

// RecordTestimonial counts a submission as accepted or rejected.
func (c *Collector) RecordTestimonial(accepted bool) {
	status := "accepted"
	if !accepted {
		status = "rejected"
	}
	if vec := c.counter(TestimonialCounterType); vec != nil {
		vec.WithLabelValues(status).Inc()
	}
}

// RecordRequest records one served HTTP request.
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	if vec := c.counter(HTTPRequestCounterType); vec != nil {
		vec.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	}
	if m, ok := c.metrics.Load(HTTPRequestDurationType); ok {
		if hist, ok := m.(*prometheus.HistogramVec); ok {
			hist.WithLabelValues(route).Observe(duration.Seconds())
		}
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
