package middleware

import (
	"bufio"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vue").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vue",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the framework server.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	patchOpsSent    prometheus.Counter
	flushDuration   prometheus.Histogram
	activeSessions  prometheus.Gauge
	wsErrors        *prometheus.CounterVec
}

// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of client events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"event", "status"}),

		patchOpsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_ops_sent_total",
			Help:        "Total number of patch operations streamed to clients",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Duration of reactive flush cycles in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus creates middleware that collects request metrics.
//
// Metrics collected:
//   - vue_http_requests_total: Counter of requests by path and status
//   - vue_http_request_duration_seconds: Histogram of request duration
//   - vue_events_total: Counter of client events (via RecordEvent)
//   - vue_patch_ops_sent_total: Counter of patch ops (via RecordPatchOps)
//   - vue_flush_duration_seconds: Histogram of flush cycles (via RecordFlush)
//   - vue_active_sessions: Gauge of live sessions (via session hooks)
//   - vue_websocket_errors_total: Counter of WebSocket errors
//
// Expose the scrape endpoint with promhttp.Handler().
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "" {
				path = "/"
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(path, statusClass(sw.status)).Inc()
		})
	}
}

// statusWriter captures the response status for labeling. Hijack is
// forwarded so WebSocket upgrades still work behind the middleware.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// RecordEvent records one processed client event.
func RecordEvent(event string, err error) {
	if globalMetrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	globalMetrics.eventsTotal.WithLabelValues(event, status).Inc()
}

// RecordPatchOps records the number of patch operations sent.
func RecordPatchOps(count int) {
	if globalMetrics != nil {
		globalMetrics.patchOpsSent.Add(float64(count))
	}
}

// RecordFlush records the duration of one reactive flush cycle.
func RecordFlush(d time.Duration) {
	if globalMetrics != nil {
		globalMetrics.flushDuration.Observe(d.Seconds())
	}
}

// RecordSessionOpen records a new WebSocket session.
func RecordSessionOpen() {
	if globalMetrics != nil {
		globalMetrics.activeSessions.Inc()
	}
}

// RecordSessionClose records a closed WebSocket session.
func RecordSessionClose() {
	if globalMetrics != nil {
		globalMetrics.activeSessions.Dec()
	}
}

// RecordWebSocketError records a WebSocket error.
func RecordWebSocketError(errorType string) {
	if globalMetrics != nil {
		globalMetrics.wsErrors.WithLabelValues(errorType).Inc()
	}
}
