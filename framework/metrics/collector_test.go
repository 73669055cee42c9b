package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/metrics"
)

func TestCollector_CountsOutcomes(t *testing.T) {
	c := metrics.NewCollector("test")

	c.ObserveResolve("a", beans.Created, time.Millisecond)
	c.ObserveResolve("a", beans.CacheHit, time.Microsecond)
	c.ObserveResolve("a", beans.CacheHit, time.Microsecond)
	c.ObserveResolve("b", beans.Failed, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Resolutions.WithLabelValues("a", "created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Resolutions.WithLabelValues("a", "cache_hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Resolutions.WithLabelValues("b", "failed")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewCollector("same")
		metrics.NewCollector("same")
	})
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.NewCollector("test")
	c.ObserveResolve("a", beans.Created, time.Millisecond)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `test_resolutions_total{bean="a",outcome="created"} 1`)
}
