package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfig_SetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	assert.Equal(t, DefaultLevel, cfg.Level)
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnscout.log")

	log, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("search finished", zap.Int("items", 3))
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}

func TestFromZap_With(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(zap.String("run_id", "abc"))

	log.Warn("classifier failed", zap.String("stage", "relevance"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "classifier failed", entries[0].Message)
	assert.Equal(t, "abc", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "relevance", entries[0].ContextMap()["stage"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.With(zap.String("k", "v")).Error("ignored")
	})
	assert.NoError(t, log.Sync())
}
