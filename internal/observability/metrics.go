package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/triage"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds Prometheus collectors for the service.
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
	ErrorsTotal            *prometheus.CounterVec
	ComplaintsClassified   *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	StatusTransitions      *prometheus.CounterVec
	DashboardCache         *prometheus.CounterVec
}

// NewMetrics registers and returns service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grievance_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"path", "method"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_http_errors_total",
			Help: "HTTP error responses by route, method and error code.",
		}, []string{"path", "method", "code"}),
		ComplaintsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_complaints_classified_total",
			Help: "Complaints classified by sector, priority and deciding rule.",
		}, []string{"sector", "priority", "rule"}),
		ClassificationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grievance_classification_duration_seconds",
			Help:    "Time spent classifying a single complaint.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs .. ~160ms
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_status_transitions_total",
			Help: "Complaint status transitions.",
		}, []string{"from", "to"}),
		DashboardCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_dashboard_cache_total",
			Help: "Dashboard summary cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ErrorsTotal,
		m.ComplaintsClassified,
		m.ClassificationDuration,
		m.StatusTransitions,
		m.DashboardCache,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordStatusChange counts a workflow transition.
func (m *Metrics) RecordStatusChange(from, to domain.ComplaintStatus) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// RecordCache counts a dashboard cache lookup.
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.DashboardCache.WithLabelValues(result).Inc()
}

// TriageHooks returns engine hooks that feed the classification metrics.
func (m *Metrics) TriageHooks() triage.EngineHooks {
	if m == nil {
		return triage.EngineHooks{}
	}
	return triage.EngineHooks{
		OnClassified: func(r triage.Result, d time.Duration) {
			m.ComplaintsClassified.WithLabelValues(string(r.Sector), string(r.Priority), string(r.Rule)).Inc()
			m.ClassificationDuration.Observe(d.Seconds())
		},
	}
}
