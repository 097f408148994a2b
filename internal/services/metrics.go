package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the advisor backend.
// It is constructed once at startup and injected into every service that
// needs it; there is no package-level instance.
type Metrics struct {
	// Session metrics
	SessionsCreated prometheus.Counter
	SessionsExpired prometheus.Counter

	// Memory bank metrics
	NewProfiles        prometheus.Counter
	InteractionsStored prometheus.Counter
	SnapshotWrites     prometheus.Counter
	SnapshotFailures   prometheus.Counter

	// Routing + orchestration metrics
	QueriesRouted      *prometheus.CounterVec
	ChatRequests       prometheus.Counter
	ChatRequestLatency prometheus.Histogram

	// Specialist invocation metrics
	SpecialistLatency *prometheus.HistogramVec
	SpecialistErrors  *prometheus.CounterVec

	// Span timers recorded by the tracer
	OperationDuration *prometheus.HistogramVec

	registerer prometheus.Registerer
}

// NewMetrics initializes the Prometheus metrics against the given
// registerer. Tests pass prometheus.NewRegistry() so repeated
// construction never collides; main passes prometheus.DefaultRegisterer
// so fiberprometheus exposes everything at /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registerer: reg,

		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_sessions_created_total",
			Help: "Total number of advisory sessions created",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_sessions_expired_total",
			Help: "Total number of sessions removed by the TTL sweep",
		}),

		NewProfiles: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_student_profiles_created_total",
			Help: "Total number of new student profiles created",
		}),
		InteractionsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_interactions_stored_total",
			Help: "Total number of interactions stored in the memory bank",
		}),
		SnapshotWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_snapshot_writes_total",
			Help: "Total number of successful snapshot writes",
		}),
		SnapshotFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_snapshot_failures_total",
			Help: "Total number of failed snapshot writes (non-fatal)",
		}),

		QueriesRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusadvisor_queries_routed_total",
			Help: "Total number of queries routed, by specialist",
		}, []string{"specialist"}),
		ChatRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "campusadvisor_chat_requests_total",
			Help: "Total number of chat requests processed",
		}),
		ChatRequestLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusadvisor_chat_request_duration_seconds",
			Help:    "Chat request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
		}),

		SpecialistLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campusadvisor_specialist_duration_seconds",
			Help:    "Specialist invocation latency in seconds, by specialist",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"specialist"}),
		SpecialistErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusadvisor_specialist_errors_total",
			Help: "Total number of specialist invocation failures, by specialist",
		}, []string{"specialist"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campusadvisor_operation_duration_seconds",
			Help:    "Duration of traced internal operations, by operation and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
}

// RegisterSessionGauge exposes the live session count from the registry.
func (m *Metrics) RegisterSessionGauge(count func() float64) {
	promauto.With(m.registerer).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "campusadvisor_sessions_active",
		Help: "Current number of active advisory sessions",
	}, count)
}

// RegisterProfileGauge exposes the total student profile count.
func (m *Metrics) RegisterProfileGauge(count func() float64) {
	promauto.With(m.registerer).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "campusadvisor_student_profiles",
		Help: "Current number of student profiles held in memory",
	}, count)
}
