package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/internal/services"
)

type fixedCache int

func (c fixedCache) Entries() int { return int(c) }

func TestHealthHandler(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name           string
		dataDir        string
		handlerFunc    func(h *HealthHandler) http.HandlerFunc
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "health",
			dataDir:        tempDir,
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			expectedState:  "ok",
		},
		{
			name:           "ready",
			dataDir:        tempDir,
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			expectedState:  "ready",
		},
		{
			name:           "not ready without data dir",
			dataDir:        filepath.Join(tempDir, "missing"),
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "not_ready",
		},
		{
			name:           "live",
			dataDir:        tempDir,
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			expectedStatus: http.StatusOK,
			expectedState:  "alive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewHealthService("v1.0.0-test", "", tt.dataDir, fixedCache(2), nil)
			h := NewHealthHandler(svc, nil)

			rec := httptest.NewRecorder()
			tt.handlerFunc(h)(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedState, body.Status)
			assert.Equal(t, "v1.0.0-test", body.Version)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("v2", "2026-01-01", "", nil, nil), nil)
	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v2", body["version"])
	assert.Equal(t, "2026-01-01", body["build_time"])
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
