package gcp

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func archiveEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(body)
	}
	return entries
}

func TestWriteSourceArchive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hi')")
	writeFile(t, dir, "app/rag_engine.py", "engine")
	writeFile(t, dir, ".git/config", "nope")
	writeFile(t, dir, "__pycache__/x.pyc", "nope")

	var buf bytes.Buffer
	require.NoError(t, writeSourceArchive(dir, &buf))

	entries := archiveEntries(t, buf.Bytes())
	assert.Equal(t, "print('hi')", entries["main.py"])
	assert.Equal(t, "engine", entries["app/rag_engine.py"])
	assert.NotContains(t, entries, ".git/config")
	assert.NotContains(t, entries, "__pycache__/x.pyc")
}

func TestWriteSourceArchive_GcloudIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gcloudignore", "# comment\n\ndata/private\n*.log\n")
	writeFile(t, dir, "keep.txt", "keep")
	writeFile(t, dir, "data/private/key.pem", "secret")
	writeFile(t, dir, "data/public.txt", "public")

	var buf bytes.Buffer
	require.NoError(t, writeSourceArchive(dir, &buf))

	entries := archiveEntries(t, buf.Bytes())
	assert.Contains(t, entries, "keep.txt")
	assert.Contains(t, entries, "data/public.txt")
	assert.NotContains(t, entries, "data/private/key.pem")
	assert.NotContains(t, entries, ".gcloudignore", "the ignore file itself is not shipped")
}

func TestMatchesIgnore(t *testing.T) {
	patterns := []string{"data/private", "tmp"}
	assert.True(t, matchesIgnore(patterns, "data/private"))
	assert.True(t, matchesIgnore(patterns, "data/private/key.pem"))
	assert.True(t, matchesIgnore(patterns, "tmp/x"))
	assert.False(t, matchesIgnore(patterns, "data/privates"))
	assert.False(t, matchesIgnore(patterns, "data/public.txt"))
}
