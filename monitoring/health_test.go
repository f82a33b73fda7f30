package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		RegisterHealthCheck("always_up", func() bool { return true })

		rec := httptest.NewRecorder()
		HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "healthy", status.ComponentStatus["always_up"])
	})

	t.Run("DegradedComponent", func(t *testing.T) {
		RegisterHealthCheck("flaky", func() bool { return false })

		rec := httptest.NewRecorder()
		HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "unhealthy", status.ComponentStatus["flaky"])
	})

	t.Run("OtherPathsAre404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
