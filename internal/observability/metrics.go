package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	registry    *prometheus.Registry
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	llmCalls    *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	embedCalls  *prometheus.CounterVec
	embedTime   *prometheus.HistogramVec
	activities  *prometheus.CounterVec
	ingested    prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teachassist_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teachassist_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "teachassist_http_inflight_requests",
			Help: "Requests currently being served.",
		}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teachassist_llm_calls_total",
			Help: "LLM generations by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teachassist_llm_call_duration_seconds",
			Help:    "LLM generation latency.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9),
		}, []string{"purpose"}),
		embedCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teachassist_embedding_calls_total",
			Help: "Embedding batches by provider and outcome.",
		}, []string{"provider", "outcome"}),
		embedTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teachassist_embedding_call_duration_seconds",
			Help:    "Embedding batch latency.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"provider"}),
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teachassist_progress_activities_total",
			Help: "Tracked learning activities by type.",
		}, []string{"activity"}),
		ingested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teachassist_syllabus_chunks_ingested_total",
			Help: "Syllabus chunks stored.",
		}),
	}
	reg.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmCalls, m.llmLatency, m.embedCalls, m.embedTime,
		m.activities, m.ingested,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveLLM(purpose string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmCalls.WithLabelValues(purpose, outcome).Inc()
	m.llmLatency.WithLabelValues(purpose).Observe(d.Seconds())
}

func (m *Metrics) ObserveEmbedding(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.embedCalls.WithLabelValues(provider, outcome).Inc()
	m.embedTime.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) IncActivity(activity string) {
	if m != nil {
		m.activities.WithLabelValues(activity).Inc()
	}
}

func (m *Metrics) AddIngestedChunks(n int) {
	if m != nil && n > 0 {
		m.ingested.Add(float64(n))
	}
}
