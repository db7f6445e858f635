package yarngpt

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the conversion request
// lifecycle and the retry/rate-limit layers. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	retriesTotal *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec

	rateLimiterTokens prometheus.Gauge
	rateLimitedTotal  prometheus.Counter

	batchItems *prometheus.HistogramVec

	audioBytesTotal prometheus.Counter

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer, which keeps tests and multi-client setups collision-free.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "yarngpt_requests_total",
				Help: "Total number of TTS API requests made",
			},
			[]string{"status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yarngpt_request_duration_seconds",
				Help:    "Duration of TTS API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "yarngpt_requests_in_flight",
				Help: "Number of TTS API requests currently in flight",
			},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "yarngpt_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"attempt"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "yarngpt_errors_total",
				Help: "Total number of classified errors by kind",
			},
			[]string{"kind"},
		),
		rateLimiterTokens: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "yarngpt_rate_limiter_tokens",
				Help: "Current number of available rate limiter tokens",
			},
		),
		rateLimitedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "yarngpt_rate_limited_total",
				Help: "Total number of requests denied by the client-side rate limiter",
			},
		),
		batchItems: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yarngpt_batch_items",
				Help:    "Number of items per batch conversion",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"mode"},
		),
		audioBytesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "yarngpt_audio_bytes_total",
				Help: "Total audio bytes received from successful conversions",
			},
		),
		registry: registry,
	}

	return mc
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(code).Inc()
	mc.requestDuration.WithLabelValues(code).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart() {
	if mc == nil {
		return
	}
	mc.requestsInFlight.Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd() {
	if mc == nil {
		return
	}
	mc.requestsInFlight.Dec()
}

// RecordRetry increments the retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(strconv.Itoa(attempt)).Inc()
}

// RecordError increments the error counter for a kind.
func (mc *MetricsCollector) RecordError(kind ErrorKind) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(kind.String()).Inc()
}

// RecordRateLimiterTokens sets the available token gauge.
func (mc *MetricsCollector) RecordRateLimiterTokens(tokens int) {
	if mc == nil {
		return
	}
	mc.rateLimiterTokens.Set(float64(tokens))
}

// RecordRateLimited increments the rate limit denial counter.
func (mc *MetricsCollector) RecordRateLimited() {
	if mc == nil {
		return
	}
	mc.rateLimitedTotal.Inc()
}

// RecordBatch records batch size by execution mode.
func (mc *MetricsCollector) RecordBatch(mode BatchMode, items int) {
	if mc == nil {
		return
	}
	mc.batchItems.WithLabelValues(mode.String()).Observe(float64(items))
}

// RecordAudioBytes adds received audio bytes to the running total.
func (mc *MetricsCollector) RecordAudioBytes(n int) {
	if mc == nil {
		return
	}
	mc.audioBytesTotal.Add(float64(n))
}
