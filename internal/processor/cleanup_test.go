package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupTempFiles_KeepsMainFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.md", "table_0.json", "image_0.png", "scratch.tmp", "table_0.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	p := newTestProcessor(t, nil)
	p.CleanupTempFiles(dir, true)

	assert.FileExists(t, filepath.Join(dir, "out.md"))
	assert.FileExists(t, filepath.Join(dir, "table_0.json"))
	assert.NoFileExists(t, filepath.Join(dir, "image_0.png"))
	assert.NoFileExists(t, filepath.Join(dir, "scratch.tmp"))
	assert.NoFileExists(t, filepath.Join(dir, "table_0.xlsx"))
}

func TestCleanupTempFiles_RemovesEverythingWhenNotKeeping(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.md", "table_0.json", "scratch.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	p := newTestProcessor(t, nil)
	p.CleanupTempFiles(dir, false)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupTempFiles_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("x"), 0o644))

	p := newTestProcessor(t, nil)
	p.CleanupTempFiles(dir, true)

	assert.DirExists(t, filepath.Join(dir, "nested"))
	assert.NoFileExists(t, filepath.Join(dir, "scratch.tmp"))
}

func TestCleanupTempFiles_MissingDirIsBestEffort(t *testing.T) {
	p := newTestProcessor(t, nil)
	// Must not panic or return an error signal of any kind.
	p.CleanupTempFiles(filepath.Join(t.TempDir(), "does-not-exist"), true)
}
