package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the relay service
type Metrics struct {
	// Relay pipeline
	MessagesForwarded *prometheus.CounterVec
	RelayFailures     *prometheus.CounterVec
	AdmissionDropped  *prometheus.CounterVec
	RelayDuration     prometheus.Histogram

	// Admin commands
	AdminCommands *prometheus.CounterVec

	// Kafka
	KafkaPublished prometheus.Counter
	KafkaErrors    prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics registers all collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesForwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_messages_forwarded_total",
				Help: "Total number of messages relayed to the destination channel",
			},
			[]string{"mode"},
		),
		RelayFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_failures_total",
				Help: "Total number of admitted messages that could not be relayed",
			},
			[]string{"kind"},
		),
		AdmissionDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_admission_dropped_total",
				Help: "Total number of inbound messages dropped by the admission filter",
			},
			[]string{"reason"},
		),
		RelayDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_duration_seconds",
			Help:    "Duration of a single relay call in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AdminCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_admin_commands_total",
				Help: "Total number of admin commands handled",
			},
			[]string{"command", "result"},
		),
		KafkaPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_kafka_published_total",
			Help: "Total number of relay events published to Kafka",
		}),
		KafkaErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_kafka_errors_total",
			Help: "Total number of relay events that failed to publish",
		}),
	}
}

// RecordRelayed records a successful relay
func (m *Metrics) RecordRelayed(mode string, durationSeconds float64) {
	m.MessagesForwarded.WithLabelValues(mode).Inc()
	m.RelayDuration.Observe(durationSeconds)
}

// RecordRelayFailure records a failed relay
func (m *Metrics) RecordRelayFailure(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.RelayFailures.WithLabelValues(kind).Inc()
}

// RecordDropped records a message dropped by the admission filter
func (m *Metrics) RecordDropped(reason string) {
	m.AdmissionDropped.WithLabelValues(reason).Inc()
}

// RecordAdminCommand records a handled admin command
func (m *Metrics) RecordAdminCommand(command, result string) {
	m.AdminCommands.WithLabelValues(command, result).Inc()
}

// RecordKafkaPublished records a published relay event
func (m *Metrics) RecordKafkaPublished() {
	m.KafkaPublished.Inc()
}

// RecordKafkaError records a relay event publish failure
func (m *Metrics) RecordKafkaError() {
	m.KafkaErrors.Inc()
}
