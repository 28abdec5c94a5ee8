package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/internal/config"
	"surveyprep/internal/infrastructure"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ExecutableDir = dir
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.UploadsDir = filepath.Join(dir, "data", "uploads")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	cfg.Logging.Output = "stdout"
	cfg.Telemetry.Enabled = false

	app, err := NewApplicationWithConfig(cfg)
	require.NoError(t, err)
	return app
}

func TestNewApplicationWithConfig(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.NormalizeService)
	assert.NotNil(t, app.HealthService)
	assert.NotNil(t, app.FilesManager)
}

func TestNewApplicationRejectsBadRuleSet(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ExecutableDir = dir
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.UploadsDir = filepath.Join(dir, "data", "uploads")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	cfg.Logging.Output = "stdout"
	cfg.Telemetry.Enabled = false
	cfg.Pipeline.RuleSet = "bogus"

	_, err := NewApplicationWithConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalize service")
}

func TestRouterHealthEndpoints(t *testing.T) {
	app := newTestApplication(t)

	for _, path := range []string{
		"/api/health",
		"/api/health/ready",
		"/api/health/live",
		"/api/version",
	} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouterUploadEndToEnd(t *testing.T) {
	app := newTestApplication(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("files", "EMCS-1501-sp2024-Pre.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Q35,Q1\nj,j\nj,j\nS1,4\nS2,5\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Batch-Files"))
	assert.Equal(t, "2", rec.Header().Get("X-Batch-Rows"))
}

func TestRouterUploadRejectsTextFile(t *testing.T) {
	app := newTestApplication(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", problem["error_code"])
	assert.NotEmpty(t, problem["trace_id"])
}

func TestUnknownRouteReturnsProblem(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Not Found", problem["title"])
}

func TestUploadRejectsWrongContentType(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSecurityHeadersApplied(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestMetricsEndpointWhenTelemetryEnabled(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ExecutableDir = dir
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.UploadsDir = filepath.Join(dir, "data", "uploads")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	cfg.Logging.Output = "stdout"
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.TraceExporter = "none"

	app, err := NewApplicationWithConfig(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
