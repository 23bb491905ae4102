package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.log")

	logger, err := Build(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("quote computed")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"quote computed"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestBuildFallsBackToInfoOnBadLevel(t *testing.T) {
	logger, err := Build(Config{Level: "loud", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestInitializeReplacesGlobals(t *testing.T) {
	require.NoError(t, Initialize(DefaultConfig()))
	assert.NotNil(t, Logger)
	assert.NotNil(t, Sugar)
	assert.NotNil(t, Named("test"))
}
