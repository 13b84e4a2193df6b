package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHandoff(t *testing.T) {
	c := getMetrics().handoffTotal.WithLabelValues("completed")
	before := testutil.ToFloat64(c)

	RecordHandoff("completed")
	RecordHandoff("completed")

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestRecordFailure(t *testing.T) {
	c := getMetrics().failureTotal.WithLabelValues("assign", "conflict")
	before := testutil.ToFloat64(c)

	RecordFailure("assign", "conflict")

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestHandlerExposesWorkflowSeries(t *testing.T) {
	ObserveOperation("create", time.Now(), nil)
	ObserveOperation("create", time.Now(), errors.New("boom"))
	ObserveHTTP("GET", "/api/v1/jobs", 200, 5*time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `atlas_workflow_tx_seconds_count{operation="create",result="ok"}`))
	assert.True(t, strings.Contains(body, `atlas_workflow_tx_seconds_count{operation="create",result="error"}`))
	assert.True(t, strings.Contains(body, `atlas_http_requests_total{method="GET",route="/api/v1/jobs",status="200"}`))
}
