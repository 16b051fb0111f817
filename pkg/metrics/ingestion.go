package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestionMetrics records pipeline outcomes for the HL7 result-ingestion path.
type IngestionMetrics struct {
	messages     *prometheus.CounterVec
	observations *prometheus.CounterVec
	flags        prometheus.Counter
	flagFailures prometheus.Counter
	duration     prometheus.Histogram
}

// NewIngestionMetrics registers the ingestion metrics on the provided registerer.
func NewIngestionMetrics(reg prometheus.Registerer) *IngestionMetrics {
	if reg == nil {
		return &IngestionMetrics{}
	}
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hl7_messages_total",
		Help: "Inbound HL7 messages by terminal outcome.",
	}, []string{"outcome"})
	observations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hl7_observations_total",
		Help: "Parsed observations by disposition (persisted or skipped).",
	}, []string{"disposition"})
	flags := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hl7_flag_applications_total",
		Help: "Flag applications written by the flagging engine.",
	})
	flagFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hl7_flagging_failures_total",
		Help: "Best-effort flagging evaluations that failed.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hl7_ingest_duration_seconds",
		Help:    "End-to-end ingestion duration per message.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(messages, observations, flags, flagFailures, duration)
	return &IngestionMetrics{
		messages:     messages,
		observations: observations,
		flags:        flags,
		flagFailures: flagFailures,
		duration:     duration,
	}
}

// IncMessage increments the message counter for a terminal outcome
// (success, quarantined, duplicate).
func (m *IngestionMetrics) IncMessage(outcome string) {
	if m == nil || m.messages == nil {
		return
	}
	m.messages.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncObservation increments the observation counter for a disposition
// (persisted, skipped).
func (m *IngestionMetrics) IncObservation(disposition string) {
	if m == nil || m.observations == nil {
		return
	}
	m.observations.WithLabelValues(normalizeLabel(disposition)).Inc()
}

// IncFlagApplication counts one written flag application.
func (m *IngestionMetrics) IncFlagApplication() {
	if m == nil || m.flags == nil {
		return
	}
	m.flags.Inc()
}

// IncFlaggingFailure counts one swallowed flagging failure.
func (m *IngestionMetrics) IncFlaggingFailure() {
	if m == nil || m.flagFailures == nil {
		return
	}
	m.flagFailures.Inc()
}

// ObserveDuration records the pipeline duration for one message.
func (m *IngestionMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
