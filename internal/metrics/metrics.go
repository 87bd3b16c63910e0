// Package metrics exposes conversion and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the collector configuration.
type Config struct {
	// Namespace prefixes every metric name. Default: "flipdoc"
	Namespace string
	// DurationBuckets are the histogram buckets for conversion and request latency.
	// Default: prometheus.DefBuckets
	DurationBuckets []float64
}

// Collector owns a private registry so tests and multiple servers never collide on the global one.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Collector struct {
	registry *prometheus.Registry

	conversionsTotal   *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	pagesProduced      *prometheus.CounterVec
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates a collector and registers all metrics.
func New(cfg Config) *Collector {
	if cfg.Namespace == "" {
		cfg.Namespace = "flipdoc"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = prometheus.DefBuckets
	}

	c := &Collector{registry: prometheus.NewRegistry()}
	c.conversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "conversions_total",
			Help:      "Conversions by input kind and outcome (ok or the failed rule).",
		},
		[]string{"kind", "outcome"},
	)
	c.conversionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent laying out and rendering one document.",
			Buckets:   cfg.DurationBuckets,
		},
		[]string{"kind"},
	)
	c.pagesProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "pages_total",
			Help:      "PDF pages produced.",
		},
		[]string{"kind"},
	)
	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "status"},
	)
	c.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   cfg.DurationBuckets,
		},
		[]string{"route"},
	)

	c.registry.MustRegister(
		c.conversionsTotal,
		c.conversionDuration,
		c.pagesProduced,
		c.httpRequestsTotal,
		c.httpDuration,
	)
	return c
}

// ObserveConversion records one finished conversion. outcome is "ok" or the failing rule.
func (c *Collector) ObserveConversion(kind, outcome string, pages int, elapsed time.Duration) {
	c.conversionsTotal.WithLabelValues(kind, outcome).Inc()
	c.conversionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if pages > 0 {
		c.pagesProduced.WithLabelValues(kind).Add(float64(pages))
	}
}

// GinMiddleware counts requests by matched route template, so path parameters do not explode cardinality.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
