package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIngestionMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIngestionMetrics(reg)

	m.IncMessage("success")
	m.IncMessage("success")
	m.IncMessage("quarantined")
	m.IncObservation("persisted")
	m.IncObservation("skipped")
	m.IncFlagApplication()
	m.ObserveDuration(50 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.messages.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.messages.WithLabelValues("quarantined")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.observations.WithLabelValues("persisted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.flags))
}

func TestIngestionMetricsNilSafe(t *testing.T) {
	var m *IngestionMetrics
	m.IncMessage("success")
	m.IncObservation("persisted")
	m.IncFlagApplication()
	m.IncFlaggingFailure()
	m.ObserveDuration(time.Second)

	empty := NewIngestionMetrics(nil)
	empty.IncMessage("")
}
