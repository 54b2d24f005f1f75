package observability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/orbitsim/internal/config"
)

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, level := New(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "orbitsim"}, zapcore.AddSync(&buf))

	logger.Debug("orbit restarted", zap.String("law", "coulomb"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "orbitsim.")
	assert.Contains(t, out, "orbit restarted")
	assert.Contains(t, out, `"law": "coulomb"`)
	assert.Equal(t, zap.DebugLevel, level.Level())
}

func TestNewJSONLoggerAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, level := New(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))

	logger.Info("hidden")
	logger.Warn("shown", zap.Float64("gm", 2))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, 2.0, entry["gm"])

	buf.Reset()
	level.SetLevel(zap.InfoLevel)
	logger.Info("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	_, level := New(config.LoggerConfig{Level: "loud"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.Equal(t, zap.InfoLevel, level.Level())
}

func TestFileOnlyLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbitsim.log")
	logger, _ := New(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, nil)

	logger.Info("animation started")
	require.NoError(t, logger.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var entry map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &entry), "file output is JSON regardless of format")
	assert.Equal(t, "animation started", entry["msg"])
}

func TestNoSinksIsNop(t *testing.T) {
	logger, _ := New(config.LoggerConfig{Level: "info"}, nil)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestGlobalLogger(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	assert.False(t, GetLogger().Core().Enabled(zap.ErrorLevel), "uninitialized logger discards")

	var buf bytes.Buffer
	first := Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	assert.Same(t, first, GetLogger())
	assert.Same(t, first, zap.L())

	GetLogger().Info("hello")
	Sync()
	assert.Contains(t, buf.String(), "hello")

	second := Initialize(config.LoggerConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.NotSame(t, first, second)
	assert.Same(t, second, GetLogger(), "the latest initialization wins")
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	ResetForTest()
	assert.False(t, zap.L().Core().Enabled(zap.ErrorLevel))
}
