package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sounds", "letters", "us_A.mp3")

	require.NoError(t, WriteFileAtomic(path, []byte("ID3"), 0o644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))

	require.NoError(t, WriteFileAtomic(path, []byte("ID3v2"), 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3v2", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, FileExists(filepath.Join(dir, "missing.mp3")))
	assert.False(t, FileExists(dir))

	path := filepath.Join(dir, "gb_b.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, FileExists(path))
}
