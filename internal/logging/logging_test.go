package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bizdash.log")
	logger, err := New("prod", path)
	require.NoError(t, err)

	logger.Info("started", zap.String("screen", "customers"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
	assert.Contains(t, string(data), `"screen":"customers"`)
}

func TestNewDevModeLogsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	logger, err := New("dev", path)
	require.NoError(t, err)

	logger.Debug("request", zap.Int("status", 200))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "request")
}

func TestNewEmptyPathIsNop(t *testing.T) {
	logger, err := New("dev", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Info("dropped")
}
