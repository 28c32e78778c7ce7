package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCommand(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("ps", "success"))
	RecordCommand("ps", "success", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(commandsTotal.WithLabelValues("ps", "success")))
}

func TestSSEOpened(t *testing.T) {
	done := SSEOpened("logs")
	assert.Equal(t, float64(1), testutil.ToFloat64(sseConnectionsActive.WithLabelValues("logs")))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(sseConnectionsActive.WithLabelValues("logs")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/files", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard_http_requests_total")
}
