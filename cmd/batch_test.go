package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	files, err := collectDocuments(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a.PDF", "b.pdf", "c.pdf"}, names)
}

func TestCollectDocuments_MissingDir(t *testing.T) {
	_, err := collectDocuments(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestStemOf(t *testing.T) {
	assert.Equal(t, "report", stemOf("/data/report.pdf"))
	assert.Equal(t, "archive.tar", stemOf("archive.tar.gz"))
	assert.Equal(t, "plain", stemOf("plain"))
}
