package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/config"
	"socialpulse/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Paths.BaseDir = t.TempDir()
	return cfg
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()
	cfg := testConfig(t)
	if mutate != nil {
		mutate(cfg)
	}
	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	return app
}

func do(app *Application, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, nil)

	require.NotNil(t, app.Router)
	require.NotNil(t, app.Server)
	require.NotNil(t, app.Services.Datasets)
	require.NotNil(t, app.Services.Health)
	assert.Equal(t, ":0", app.Server.Addr)

	for _, dir := range []string{app.Paths.DataDir, app.Paths.ReportsDir, app.Paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(app.Config.Paths.BaseDir, config.DefaultDataDir), app.Paths.DataDir)
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{"health", http.MethodGet, "/api/v1/health", http.StatusOK, `"status":"ok"`},
		{"readiness", http.MethodGet, "/api/v1/health/ready", http.StatusOK, `"datasets"`},
		{"liveness", http.MethodGet, "/api/v1/health/live", http.StatusOK, `"alive"`},
		{"version", http.MethodGet, "/api/v1/version", http.StatusOK, `"api_version"`},
		{"metric definitions", http.MethodGet, "/api/v1/metrics/definitions", http.StatusOK, `"selectable"`},
		{"empty dataset list", http.MethodGet, "/api/v1/datasets", http.StatusOK, `"count":0`},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound, `"status":404`},
		{"method not allowed", http.MethodPut, "/api/v1/datasets", http.StatusMethodNotAllowed, `"status":405`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(app, tt.method, tt.path, nil, nil)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestApplication_DatasetLifecycle(t *testing.T) {
	app := newTestApp(t, nil)

	rec := do(app, http.MethodPost, "/api/v1/datasets?format=csv&name=sample.csv",
		strings.NewReader(testutil.SampleCSV), map[string]string{"Content-Type": "text/csv"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Dataset struct {
			ID string `json:"id"`
		} `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Dataset.ID)
	assert.Equal(t, 1, app.Services.Datasets.Count())

	rec = do(app, http.MethodGet, "/api/v1/datasets/"+created.Dataset.ID+"/aggregates/week?method=sum", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid-aggregation")

	rec = do(app, http.MethodGet, "/api/v1/datasets/"+created.Dataset.ID+"/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"average_reach":70000`)

	rec = do(app, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = do(app, http.MethodDelete, "/api/v1/datasets/"+created.Dataset.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, app.Services.Datasets.Count())
}

func TestApplication_DatasetLimit(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) { cfg.Ingestion.MaxDatasets = 1 })
	header := map[string]string{"Content-Type": "text/csv"}

	rec := do(app, http.MethodPost, "/api/v1/datasets?format=csv", strings.NewReader(testutil.SampleCSV), header)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(app, http.MethodPost, "/api/v1/datasets?format=csv", strings.NewReader(testutil.SampleCSV), header)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplication_RateLimit(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Security.RateLimit.Enabled = true
		cfg.Security.RateLimit.RPS = 0.001
		cfg.Security.RateLimit.Burst = 1
	})

	assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/api/v1/health", nil, nil).Code)
	rec := do(app, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestApplication_CORS(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Security.EnableCORS = true
		cfg.Security.AllowedOrigins = []string{"https://dashboard.example.com"}
	})

	rec := do(app, http.MethodOptions, "/api/v1/datasets", nil, map[string]string{
		"Origin":                        "https://dashboard.example.com",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(app, http.MethodGet, "/api/v1/health", nil, map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	assert.NotEqual(t, ":0", app.Addr())

	resp, err := http.Get("http://" + app.Addr() + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.Stop(context.Background()))

	_, err = http.Get("http://" + app.Addr() + "/api/v1/health")
	assert.Error(t, err)
}

func TestPerformStartupHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)
	assert.NoError(t, app.performStartupHealthCheck(context.Background()))

	app.Paths.ReportsDir = filepath.Join(t.TempDir(), "missing", "reports")
	err := app.performStartupHealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reports directory not writable")
}
