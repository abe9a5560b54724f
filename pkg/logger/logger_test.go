package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogIsUsableBeforeInit(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotNil(t, Log.Zap())
	assert.NotPanics(t, func() { Log.Info("no-op before Initialize") })
}

func TestSetNewNopReplacesLog(t *testing.T) {
	before := Log
	l := SetNewNop()
	assert.Same(t, l, Log)
	assert.NotSame(t, before, Log)

	assert.False(t, l.IsDebugMode())
	l.SetDebugMode(true)
	assert.True(t, l.IsDebugMode())
}
