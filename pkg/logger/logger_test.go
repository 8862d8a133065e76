package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := New(env, "warn")
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)
}
