package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the bot
type Metrics struct {
	// Pipeline metrics
	PipelineMessages prometheus.Counter
	PipelineStages   *prometheus.CounterVec
	RateLimited      prometheus.Counter

	// Dispatch metrics
	DispatchTotal    *prometheus.CounterVec
	DispatchDuration prometheus.Histogram
	MediaRelayErrors prometheus.Counter

	// Connection metrics
	ConnectionState  *prometheus.GaugeVec
	Reconnections    *prometheus.CounterVec
	QRPrompts        prometheus.Counter
	ScannerRequests  *prometheus.CounterVec
	ChatAPIThrottled prometheus.Counter

	// Kafka metrics
	AuditEventsProduced prometheus.Counter
	AuditProduceErrors  *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics registers all collectors on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		PipelineMessages: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deadxbot_pipeline_messages_total",
			Help: "Total number of inbound messages entering the pipeline",
		}),
		PipelineStages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadxbot_pipeline_stage_results_total",
				Help: "Pipeline stage results by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deadxbot_rate_limited_total",
			Help: "Total number of commands rejected by the rate limiter",
		}),

		DispatchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadxbot_dispatch_total",
				Help: "Total number of executor calls by outcome",
			},
			[]string{"outcome"},
		),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "deadxbot_dispatch_duration_seconds",
			Help:    "Duration of executor calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		MediaRelayErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deadxbot_media_relay_errors_total",
			Help: "Total number of failed media relays",
		}),

		ConnectionState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "deadxbot_connection_state",
				Help: "Current connection state (1 for the active state)",
			},
			[]string{"state"},
		),
		Reconnections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadxbot_reconnections_total",
				Help: "Total number of disconnects by reason",
			},
			[]string{"reason"},
		),
		QRPrompts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deadxbot_qr_prompts_total",
			Help: "Total number of QR login prompts",
		}),
		ScannerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadxbot_scanner_requests_total",
				Help: "Total number of scanner requests by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		ChatAPIThrottled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deadxbot_chat_api_throttled_total",
			Help: "Total number of chat API calls delayed or rejected by flood control",
		}),

		AuditEventsProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deadxbot_audit_events_produced_total",
			Help: "Total number of audit events produced to Kafka",
		}),
		AuditProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadxbot_audit_produce_errors_total",
				Help: "Total number of audit produce errors",
			},
			[]string{"error_type"},
		),
	}
}

// RecordStage records the outcome of a pipeline stage
func (m *Metrics) RecordStage(stage, outcome string) {
	m.PipelineStages.WithLabelValues(stage, outcome).Inc()
}

// RecordDispatch records an executor call
func (m *Metrics) RecordDispatch(outcome string, duration float64) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.DispatchTotal.WithLabelValues(outcome).Inc()
	m.DispatchDuration.Observe(duration)
}

// SetConnectionState marks state as the only active connection state
func (m *Metrics) SetConnectionState(state string, all []string) {
	for _, s := range all {
		m.ConnectionState.WithLabelValues(s).Set(0)
	}
	m.ConnectionState.WithLabelValues(state).Set(1)
}

// RecordDisconnect records a disconnect with its reason
func (m *Metrics) RecordDisconnect(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.Reconnections.WithLabelValues(reason).Inc()
}

// RecordScannerRequest records a scanner call
func (m *Metrics) RecordScannerRequest(operation, outcome string) {
	m.ScannerRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordAuditError records a Kafka production error with error type
func (m *Metrics) RecordAuditError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.AuditProduceErrors.WithLabelValues(errorType).Inc()
}
