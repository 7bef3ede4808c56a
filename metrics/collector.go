package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	envelopes       *prometheus.CounterVec
	violations      prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers:
//   - <ns>_error_envelopes_total{status,kind}
//   - <ns>_field_violations_total
//   - <ns>_http_request_duration_seconds{method,route,status}
func NewCollector(cfg Config) (*Collector, error) {
	registry := prometheus.NewRegistry()

	envelopes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "error_envelopes_total",
			Help:      "Error envelopes rendered, by status and error kind",
		},
		[]string{"status", "kind"},
	)
	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "field_violations_total",
		Help:      "Field violations reported in error envelopes",
	})
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	cs := []prometheus.Collector{
		envelopes, violations, requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range cs {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}

	return &Collector{
		registry:        registry,
		envelopes:       envelopes,
		violations:      violations,
		requestDuration: requestDuration,
	}, nil
}

// RecordEnvelope counts one rendered envelope.
func (c *Collector) RecordEnvelope(status int, kind string, violations int) {
	c.envelopes.WithLabelValues(strconv.Itoa(status), sanitizeLabel(kind)).Inc()
	if violations > 0 {
		c.violations.Add(float64(violations))
	}
}

// ObserveRequest records the duration of one handled request. route should
// be the matched route pattern, not the raw path.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requestDuration.WithLabelValues(method, sanitizeLabel(route), strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

const maxLabelLength = 128

// sanitizeLabel replaces control characters and truncates by rune.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}
