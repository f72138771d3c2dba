package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	m := New(nil)
	m.ObserveCommand("help", nil, 10*time.Millisecond)
	m.ObserveCommand("help", errors.New("boom"), time.Millisecond)
	m.ObserveCommand("help", nil, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commands.WithLabelValues("help", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("help", "error")))
}

func TestGauges(t *testing.T) {
	m := New(nil)
	m.SetShardsReady(3)
	m.SetState(4)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ShardsReady))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.LifecycleState))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("help", nil, time.Second)
		m.SetShardsReady(1)
		m.SetState(1)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(nil)
	m.SetShardsReady(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aridcore_shards_ready 2")
}
