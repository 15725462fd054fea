package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "habits.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), FilePerm))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), FilePerm))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestBestEffortBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")

	// Missing source is not an error.
	BestEffortBackup(path, FilePerm)
	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(path, []byte(`{"habits":{}}`), FilePerm))
	BestEffortBackup(path, FilePerm)

	data, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, `{"habits":{}}`, string(data))
}

func TestMoveAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habits.json")
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)

	assert.Equal(t, "", MoveAside(path, now))

	require.NoError(t, os.WriteFile(path, []byte("{broken"), FilePerm))
	moved := MoveAside(path, now)
	assert.Equal(t, path+".corrupt.20240506-070809", moved)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.db")
	dst := filepath.Join(dir, "copy", "a.db")
	require.NoError(t, os.WriteFile(src, []byte("payload"), FilePerm))

	require.NoError(t, CopyFile(src, dst, FilePerm))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.Error(t, CopyFile(filepath.Join(dir, "missing"), dst, FilePerm))
}
