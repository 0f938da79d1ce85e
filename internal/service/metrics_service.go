package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the advisor.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	matchOutcomes   *prometheus.CounterVec
	llmLatency      prometheus.Histogram
	bridgeLatency   *prometheus.HistogramVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Catalog snapshot cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Catalog snapshot cache misses",
	})

	matchOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_outcomes_total",
		Help: "Recommendation outcomes by type (perfect, fallback, handoff)",
	}, []string{"outcome"})

	llmLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_reply_duration_seconds",
		Help:    "Latency of language model reply calls",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	})

	bridgeLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridge_call_duration_seconds",
		Help:    "Latency of CRM/calendar bridge calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, matchOutcomes, llmLatency, bridgeLatency)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		matchOutcomes:   matchOutcomes,
		llmLatency:      llmLatency,
		bridgeLatency:   bridgeLatency,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	s.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, code).Inc()
}

// RecordCatalogCache tracks snapshot cache effectiveness.
func (s *MetricsService) RecordCatalogCache(hit bool) {
	if hit {
		s.cacheHits.Inc()
		return
	}
	s.cacheMisses.Inc()
}

// RecordMatchOutcome counts one engine verdict.
func (s *MetricsService) RecordMatchOutcome(outcome string) {
	s.matchOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveLLMReply records one model call.
func (s *MetricsService) ObserveLLMReply(duration time.Duration) {
	s.llmLatency.Observe(duration.Seconds())
}

// ObserveBridgeCall records one bridge round trip.
func (s *MetricsService) ObserveBridgeCall(operation string, duration time.Duration) {
	s.bridgeLatency.WithLabelValues(operation).Observe(duration.Seconds())
}
