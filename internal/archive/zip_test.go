package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestUnpack(t *testing.T) {
	dir := t.TempDir()

	data := buildZip(t, map[string]string{
		"schedule.html":       "<html></html>",
		"nested/teachers.htm": "<html></html>",
		"readme.txt":          "not a document",
	})

	require.NoError(t, Unpack(data, dir))

	content, err := os.ReadFile(filepath.Join(dir, "schedule.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))

	docs, err := Documents(dir)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestUnpackWipesPreviousContent(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.html")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	require.NoError(t, Unpack(buildZip(t, map[string]string{"fresh.html": "new"}), dir))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestUnpackRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()

	data := buildZip(t, map[string]string{"../escape.html": "bad"})

	err := Unpack(data, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
}

func TestUnpackBadArchive(t *testing.T) {
	err := Unpack([]byte("not a zip"), t.TempDir())
	assert.Error(t, err)
}
