package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeToFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Replace(prev) })

	path := filepath.Join(t.TempDir(), "basket.log")
	require.NoError(t, Initialize(Config{Level: "info", Format: "json", Output: path}))

	Debug("hidden")
	Info("basket priced", Amount("total", decimal.RequireFromString("54.37")))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"basket priced"`)
	assert.Contains(t, string(data), `"total":"54.37"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestInitializeBadLevelFallsBackToInfo(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Replace(prev) })

	require.NoError(t, Initialize(Config{Level: "loud", Output: "stderr"}))
	assert.True(t, Logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger

	restore := Replace(zap.New(core))
	Warn("captured", zap.String("code", "R01"))
	restore()
	Warn("not captured")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "captured", entry.Message)
	assert.Equal(t, "R01", entry.ContextMap()["code"])
	assert.Same(t, prev, Logger)
}

func TestAmount(t *testing.T) {
	f := Amount("discount", decimal.RequireFromString("16.475").Round(2))
	assert.Equal(t, "discount", f.Key)
	assert.Equal(t, "16.48", f.String)
}
