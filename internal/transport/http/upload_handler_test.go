package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investviz/internal/config"
	"investviz/internal/normalize"
	"investviz/internal/regions"
	"investviz/internal/services"
	"investviz/internal/summary"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{MaxUploadBytes: 1 << 20},
		Paths:  config.PathsConfig{RunsDir: t.TempDir()},
		Pipeline: config.PipelineConfig{
			TopMeasures:    5,
			FlagOutliers:   true,
			WritePivot:     true,
			ContinueOnFile: true,
		},
	}
}

func testService(cfg *config.Config) *services.PipelineService {
	catalog := regions.NewCatalog("", nil)
	matcher := regions.NewMatcher(catalog.Entries())
	normalizer := normalize.NewNormalizer(matcher, nil, cfg.Pipeline.FlagOutliers)
	aggregator := summary.NewAggregator(cfg.Pipeline.TopMeasures, matcher, nil)
	return services.NewPipelineService(cfg, normalizer, aggregator, nil)
}

func testRouter(cfg *config.Config) chi.Router {
	svc := testService(cfg)
	r := chi.NewRouter()
	r.Mount("/api/uploads", NewUploadHandler(svc, cfg, discardLogger()).Routes())
	r.Mount("/api/runs", NewRunHandler(cfg, discardLogger()).Routes())
	return r
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUpload(t *testing.T) {
	cfg := testConfig(t)
	router := testRouter(cfg)

	body, contentType := multipartBody(t, "files", map[string]string{
		"対外直接投資_億円.csv": "年度,米国,中国\n2020,100,200\n2021,300,400\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 4, resp.RecordCount)
	assert.Empty(t, resp.Failures)

	// The run directory holds the artifacts.
	_, err := os.Stat(filepath.Join(cfg.RunDir(resp.RunID), services.NormalizedCSVName))
	assert.NoError(t, err)
}

func TestUpload_SingularFileField(t *testing.T) {
	cfg := testConfig(t)
	router := testRouter(cfg)

	body, contentType := multipartBody(t, "file", map[string]string{
		"data.csv": "年度,金額\n2020,100\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUpload_NoFiles(t *testing.T) {
	cfg := testConfig(t)
	router := testRouter(cfg)

	body, contentType := multipartBody(t, "files", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_NotMultipart(t *testing.T) {
	cfg := testConfig(t)
	router := testRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewBufferString("plain"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_UnprocessableInput(t *testing.T) {
	cfg := testConfig(t)
	router := testRouter(cfg)

	// CSV bytes behind an Excel extension cannot be processed at all.
	body, contentType := multipartBody(t, "files", map[string]string{
		"broken.xlsx": "not,a,workbook\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
