package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Observe("GET", "successful", 10*time.Millisecond)
	c.Observe("GET", "successful", 20*time.Millisecond)
	c.Observe("POST", "errored", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Requests().WithLabelValues("GET", "successful")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests().WithLabelValues("POST", "errored")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.Requests()))
}

func TestCollector_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestCollector_Unregistered(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	c.Observe("GET", "failed", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests().WithLabelValues("GET", "failed")))
}
