package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := DefaultPath(filepath.Join(t.TempDir(), "data"))

	logger, closer, err := New(Config{Level: slog.LevelInfo, Component: "test", Path: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("habit marked", "habit", "Read")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "habit marked")
	assert.Contains(t, string(data), "component=test")
	assert.Contains(t, string(data), "habit=Read")
	assert.NotContains(t, string(data), "hidden")
}

func TestNewSpecialPaths(t *testing.T) {
	for _, path := range []string{"", "-"} {
		logger, closer, err := New(Config{Path: path})
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.NoError(t, closer.Close())
	}
}
