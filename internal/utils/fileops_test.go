package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sources")

	changed, err := WriteFileIfChanged(path, []byte("Types: deb\n"), 0o644)
	require.NoError(t, err)
	assert.True(t, changed)

	// Push mtime into the past so an unexpected rewrite is visible
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	changed, err = WriteFileIfChanged(path, []byte("Types: deb\n"), 0o644)
	require.NoError(t, err)
	assert.False(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))

	changed, err = WriteFileIfChanged(path, []byte("Types: deb deb-src\n"), 0o644)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Types: deb deb-src\n", string(data))
}

func TestWriteFileIfChangedMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "test.sources")

	_, err := WriteFileIfChanged(path, []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRegularFile(dir))
	assert.False(t, IsRegularFile(filepath.Join(dir, "nope")))

	path := filepath.Join(dir, "key.gpg")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, IsRegularFile(path))
}
