package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/internal/config"
	"surveyprep/internal/files"
	"surveyprep/internal/services"
)

func newTestUploadHandler(t *testing.T, limits config.PipelineConfig) *UploadHandler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	if limits.RuleSet == "" {
		limits.RuleSet = "remove"
	}
	if limits.DownloadName == "" {
		limits.DownloadName = "cleaned_master_data.csv"
	}

	svc, err := services.NewNormalizeService(limits, nil, nil, logger)
	require.NoError(t, err)

	manager := files.NewManager(t.TempDir(), logger)
	require.NoError(t, manager.EnsureDirectory())

	return NewUploadHandler(svc, manager, limits, logger)
}

func multipartBody(t *testing.T, field string, parts map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range parts {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadSuccess(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	body, contentType := multipartBody(t, "files", map[string]string{
		"EMCS-1501-sp2024-Pre.csv":  "Q35,Q1\nj,j\nj,j\nS1,4\nS2,5\n",
		"EMCS-1501-sp2024-Post.csv": "Q35,Q2\nj,j\nj,j\nS3,2\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cleaned_master_data.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", rec.Header().Get("X-Batch-Files"))
	assert.Equal(t, "3", rec.Header().Get("X-Batch-Rows"))
	assert.NotEmpty(t, rec.Header().Get("X-Batch-Columns"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Contains(t, records[0], "ID")
	assert.Contains(t, records[0], "Pre/Post")
}

func TestUploadSingleFileField(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	body, contentType := multipartBody(t, "file", map[string]string{
		"EMCS-1501-sp2024-Pre.csv": "Q35,Q1\nj,j\nj,j\nS1,4\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Batch-Files"))
}

func TestUploadNoFiles(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("note", "no files here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "NO_FILES_UPLOADED", problem["error_code"])
	assert.Equal(t, "/errors/validation", problem["type"])
}

func TestUploadUnsupportedExtension(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	body, contentType := multipartBody(t, "files", map[string]string{
		"notes.txt": "not a spreadsheet",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", problem["error_code"])
	assert.Contains(t, problem["detail"], "notes.txt")
}

func TestUploadCorruptWorkbook(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	body, contentType := multipartBody(t, "files", map[string]string{
		"broken-1501-sp2024-Pre.xlsx": "definitely not a zip archive",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/upload/unreadable-file", problem["type"])
	assert.Contains(t, problem["detail"], "broken-1501-sp2024-Pre.xlsx")
}

func TestUploadPerFileSizeCap(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{MaxUploadBytes: 8})

	body, contentType := multipartBody(t, "files", map[string]string{
		"big-1501-sp2024-Pre.csv": "Q35,Q1\nj,j\nj,j\nS1,4\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", problem["error_code"])
	assert.Contains(t, problem["detail"], "big-1501-sp2024-Pre.csv")
}

func TestUploadBatchBodyCap(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{MaxBatchBytes: 32})

	body, contentType := multipartBody(t, "files", map[string]string{
		"EMCS-1501-sp2024-Pre.csv": "Q35,Q1\nj,j\nj,j\nS1,4\nS2,5\nS3,1\nS4,2\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/payload-too-large", problem["type"])
}

func TestUploadMalformedMultipart(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload",
		bytes.NewBufferString("this is not multipart content"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=missing")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "INVALID_REQUEST", problem["error_code"])
}

func TestUploadCleansUpStaging(t *testing.T) {
	h := newTestUploadHandler(t, config.PipelineConfig{})

	body, contentType := multipartBody(t, "files", map[string]string{
		"EMCS-1501-sp2024-Pre.csv": "Q35,Q1\nj,j\nj,j\nS1,4\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	entries, err := os.ReadDir(h.manager.UploadsDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
