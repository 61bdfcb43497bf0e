package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/docproc/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/data/report.pdf", "/data/out", true)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "/data/report.pdf", got.FilePath)
	assert.Equal(t, "/data/out", got.OutputDir)
	assert.True(t, got.OCRUsed)
	assert.Equal(t, model.RunStatusQueued, got.Status)
	assert.Nil(t, got.Stats)
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/data/report.pdf", "/data/out", false)
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusConverting))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusConverting, got.Status)
}

func TestSQLite_UpdateRunStatus_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nonexistent", model.RunStatusConverting)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_CompleteRun_Success(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/data/report.pdf", "/data/out", true)
	require.NoError(t, err)

	stats := &model.ProcessingStats{
		ProcessingTimeSeconds: 2.5,
		FileSizeBytes:         4096,
		OCRUsed:               true,
		OCRLanguages:          []string{"eng"},
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, stats, nil))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Stats)
	assert.InDelta(t, 2.5, got.Stats.ProcessingTimeSeconds, 0.001)
	assert.Equal(t, int64(4096), got.Stats.FileSizeBytes)
	assert.Empty(t, got.Error)
}

func TestSQLite_CompleteRun_Failure(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/data/broken.pdf", "/data/out", false)
	require.NoError(t, err)

	require.NoError(t, st.CompleteRun(ctx, run.ID, nil, eris.New("conversion blew up")))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "conversion blew up")
	assert.Nil(t, got.Stats)
}

func TestSQLite_ListRuns_StatusFilter(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "/data/a.pdf", "/out/a", false)
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "/data/b.pdf", "/out/b", false)
	require.NoError(t, err)

	require.NoError(t, st.CompleteRun(ctx, a.ID, nil, nil))

	done, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a.ID, done[0].ID)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLite_ListRuns_FilePathFilterAndLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.CreateRun(ctx, "/data/same.pdf", "/out", false)
		require.NoError(t, err)
	}
	_, err := st.CreateRun(ctx, "/data/other.pdf", "/out", false)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{FilePath: "/data/same.pdf"})
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	limited, err := st.ListRuns(ctx, RunFilter{FilePath: "/data/same.pdf", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), configWithDriver("mysql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestNew_DefaultsToSQLite(t *testing.T) {
	cfg := configWithDriver("")
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "runs.db")

	st, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	assert.IsType(t, &SQLiteStore{}, st)
}
