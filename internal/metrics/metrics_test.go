package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsWithIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.Deliveries.WithLabelValues("scheduled").Inc()
	m.Deliveries.WithLabelValues("duplicate").Add(2)
	m.QueueDepth.Set(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("scheduled")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("duplicate")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.QueueDepth))

	// a second registry accepts the same collectors
	assert.NotPanics(t, func() { NewMetricsWith(prometheus.NewRegistry()) })
}
