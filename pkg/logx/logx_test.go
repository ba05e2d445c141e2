package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStructuredFieldsReachCore(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	prev := L()
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(prev) })

	Info("scored application", String("application_id", "app-1"), Float64("match", 40))
	Debug("dropped below level")

	require.Equal(t, 1, observed.Len())
	entry := observed.All()[0]
	assert.Equal(t, "scored application", entry.Message)
	assert.Equal(t, "app-1", entry.ContextMap()["application_id"])
	assert.Equal(t, 40.0, entry.ContextMap()["match"])
}

func TestInfofFormats(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	prev := L()
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(prev) })

	Warnf("retrying job %s (attempt %d)", "job-1", 2)

	require.Equal(t, 1, observed.Len())
	assert.Equal(t, "retrying job job-1 (attempt 2)", observed.All()[0].Message)
}

func TestSetLevelFallsBackToInfo(t *testing.T) {
	SetLevel("nonsense")
	assert.Equal(t, zapcore.InfoLevel, level.Level())
	SetLevel(LevelDebug)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	SetLevel(LevelInfo)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc...", Truncate("  abcdef ", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}
