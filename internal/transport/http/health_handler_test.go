package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/config"
	"socialpulse/internal/services"
	"socialpulse/internal/shared/testutil"
)

func newHealthRouter(t *testing.T, dataDir string) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	datasets := services.NewDatasetService(config.Default(), nil, logger)
	h := NewHealthHandler(services.NewHealthService("1.2.3", datasets, dataDir, logger), logger)

	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/api/health/ready", h.ReadinessCheck)
	r.Get("/api/health/live", h.LivenessCheck)
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		dataDir        string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "health",
			path:           "/api/health",
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name:           "ready without data dir",
			path:           "/api/health/ready",
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ready"`,
		},
		{
			name:           "not ready when data dir is missing",
			dataDir:        filepath.Join(t.TempDir(), "missing"),
			path:           "/api/health/ready",
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"status":"not_ready"`,
		},
		{
			name:           "live",
			path:           "/api/health/live",
			expectedStatus: http.StatusOK,
			expectedBody:   `"goroutines"`,
		},
		{
			name:           "version",
			path:           "/api/version",
			expectedStatus: http.StatusOK,
			expectedBody:   `"version":"1.2.3"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthRouter(t, tt.dataDir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}
