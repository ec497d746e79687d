package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.RecordProjection(true)
	c.RecordProjection(true)
	c.RecordProjection(false)
	c.RecordAdvance("users")
	c.RecordFeedTick("market")
	c.RecordTestimonial(false)
	c.RecordRequest("/api/dashboard", "GET", 200, 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.counter(ProjectionCounterType).WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(ProjectionCounterType).WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(DashboardAdvanceType).WithLabelValues("users")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(FeedTickType).WithLabelValues("market")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(TestimonialCounterType).WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(HTTPRequestCounterType).WithLabelValues("/api/dashboard", "GET", "200")))

	c.Reset()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.counter(ProjectionCounterType).WithLabelValues("true")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.RecordAdvance("trades")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.counter(DashboardAdvanceType).WithLabelValues("trades")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.RecordAdvance("profits")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rogue_runner_dashboard_advances_total{metric="profits"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
