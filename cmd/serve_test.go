package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/docproc/internal/config"
	"github.com/sells-group/docproc/internal/model"
	"github.com/sells-group/docproc/internal/processor"
	"github.com/sells-group/docproc/internal/store"
)

// newTestEnv wires a real sqlite store and processor against temp dirs.
func newTestEnv(t *testing.T) *procEnv {
	t.Helper()

	tmp := t.TempDir()
	cfg = &config.Config{
		Processor: config.ProcessorConfig{
			ModelPath:     filepath.Join(tmp, "models"),
			CacheDir:      filepath.Join(tmp, "cache"),
			TempDir:       filepath.Join(tmp, "work"),
			MaxWorkers:    2,
			OCRLanguages:  []string{"eng"},
			MaxFileSizeMB: 10,
		},
		OCR:     config.OCRConfig{Provider: "local"},
		Chunker: config.ChunkerConfig{MaxTokens: 64, OverlapTokens: 8},
	}

	st, err := store.NewSQLite(filepath.Join(tmp, "runs.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	proc, err := processor.New(cfg)
	require.NoError(t, err)

	return &procEnv{Processor: proc, Store: st}
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(context.Background(), newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Process_InvalidBody(t *testing.T) {
	r := newRouter(context.Background(), newTestEnv(t))

	req := httptest.NewRequest(http.MethodPost, "/v1/process", bytes.NewReader([]byte("{broken")))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_Process_MissingFilePath(t *testing.T) {
	r := newRouter(context.Background(), newTestEnv(t))

	req := httptest.NewRequest(http.MethodPost, "/v1/process", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_Process_AcceptsAndRecordsFailure(t *testing.T) {
	env := newTestEnv(t)
	r := newRouter(context.Background(), env)

	payload := map[string]any{"file_path": "/nonexistent/input.pdf"}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/v1/process", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])
	require.NotEmpty(t, resp["run_id"])

	// The missing file fails fast; wait for the async goroutine to record it.
	require.Eventually(t, func() bool {
		run, err := env.Store.GetRun(context.Background(), resp["run_id"])
		return err == nil && run.Status == model.RunStatusFailed
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRouter_GetRun_NotFound(t *testing.T) {
	r := newRouter(context.Background(), newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/ghost", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
