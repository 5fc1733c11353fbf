package logger

import (
	"mediconnect-service/internal/app/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewZapLogger(t *testing.T) {
	internalConfig := &config.InternalConfig{App: config.App{Env: "development", Version: "v1"}}

	t.Run("Uses the configured level", func(t *testing.T) {
		driverConfig := &config.DriverConfig{Logger: config.Logger{Level: "warn"}}

		log, err := NewZapLogger(driverConfig, internalConfig)
		require.NoError(t, err)

		assert.False(t, log.Core().Enabled(zap.InfoLevel))
		assert.True(t, log.Core().Enabled(zap.WarnLevel))
	})

	t.Run("Falls back to info on an unknown level", func(t *testing.T) {
		driverConfig := &config.DriverConfig{Logger: config.Logger{Level: "loud"}}

		log, err := NewZapLogger(driverConfig, internalConfig)
		require.NoError(t, err)

		assert.False(t, log.Core().Enabled(zap.DebugLevel))
		assert.True(t, log.Core().Enabled(zap.InfoLevel))
	})
}
