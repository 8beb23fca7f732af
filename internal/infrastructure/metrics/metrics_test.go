package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordStage(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.PipelineStages.WithLabelValues("antilink", "stop"))
	m.RecordStage("antilink", "stop")
	after := testutil.ToFloat64(m.PipelineStages.WithLabelValues("antilink", "stop"))

	assert.Equal(t, before+1, after)
}

func TestMetrics_SetConnectionState(t *testing.T) {
	m := GetDefaultMetrics()
	states := []string{"idle", "connecting", "ready"}

	m.SetConnectionState("ready", states)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConnectionState.WithLabelValues("ready")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ConnectionState.WithLabelValues("idle")))
}

func TestMetrics_EmptyLabels(t *testing.T) {
	m := GetDefaultMetrics()

	// empty labels fall back to "unknown"
	m.RecordDispatch("", 0.5)
	m.RecordDisconnect("")
	m.RecordAuditError("")

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("unknown")), float64(1))
}
