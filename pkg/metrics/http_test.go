package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_Wrap(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "tracker")

	h := m.Wrap("/api/drinks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/drinks/9", nil))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/drinks/10", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/api/drinks/{id}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestLatency))
	n, err := testutil.GatherAndCount(reg, "tracker_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
