package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := globalLogger
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestPackageHelpersCarryFields(t *testing.T) {
	logs := observe(t)

	Warn("payout send failed", "attempt", 2)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "payout send failed", entry.Message)
	assert.Equal(t, int64(2), entry.ContextMap()["attempt"])
}

func TestWithOperation(t *testing.T) {
	logs := observe(t)

	WithOperation("Ban", "actor-1").Infow("command finished", "outcome", "ok")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Ban", fields["operation"])
	assert.Equal(t, "actor-1", fields["actor_id"])
	assert.Equal(t, "ok", fields["outcome"])
}

func TestInitBuildsJSONLogger(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, Init("development"))
	assert.NotNil(t, GetLogger())
}
