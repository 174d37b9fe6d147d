// Package metrics owns the Prometheus registry and the collectors recorded by
// ingestion, retrieval, chat, and the HTTP stack.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/studybuddy/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studybuddy"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	IngestionStages   *prometheus.CounterVec
	IngestionDuration *prometheus.HistogramVec
	ChunksPersisted   prometheus.Counter
	Compensations     *prometheus.CounterVec
	RetrievalResults  prometheus.Histogram
	RetrievalDegraded prometheus.Counter
	ChatRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates a registry with the runtime collectors and every service collector.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IngestionStages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "stage_total",
			Help:      "Ingestion stages entered, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		IngestionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of a full ingestion.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}, []string{"outcome"}),
		ChunksPersisted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "chunks_persisted_total",
			Help:      "Chunks written to the store.",
		}),
		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "compensations_total",
			Help:      "Rollback actions after a persistence failure, by action and outcome.",
		}, []string{"action", "outcome"}),
		RetrievalResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "results",
			Help:      "Chunks returned per retrieval.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
		RetrievalDegraded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "degraded_total",
			Help:      "Retrievals that failed and fell back to empty context.",
		}),
		ChatRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Chat requests, by audience and outcome.",
		}, []string{"audience", "outcome"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// Registry exposes the underlying registry for tests and additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records HTTP request latency.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := middleware.NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			m.HTTPDuration.
				WithLabelValues(r.Method, strconv.Itoa(rec.Status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

// Outcome maps an error to an outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
