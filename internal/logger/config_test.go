package logger

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	// Given: viper without logger configuration
	v := viper.New()

	// When: creating config
	cfg, err := NewConfig(v)

	// Then: default values should be used
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.False(t, cfg.Development)
}

func TestNewConfig_ValidConfiguration(t *testing.T) {
	tests := []struct {
		name                string
		level               string
		development         bool
		expectedLevel       zapcore.Level
		expectedDevelopment bool
	}{
		{
			name:                "debug level with development mode",
			level:               "debug",
			development:         true,
			expectedLevel:       zapcore.DebugLevel,
			expectedDevelopment: true,
		},
		{
			name:          "warn level",
			level:         "warn",
			expectedLevel: zapcore.WarnLevel,
		},
		{
			name:                "empty level keeps info",
			development:         true,
			expectedLevel:       zapcore.InfoLevel,
			expectedDevelopment: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: viper with specific logger configuration
			v := viper.New()
			v.Set("logger.level", tt.level)
			v.Set("logger.development", tt.development)

			// When: creating config
			cfg, err := NewConfig(v)

			// Then: configuration should match expected values
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLevel, cfg.Level)
			assert.Equal(t, tt.expectedDevelopment, cfg.Development)
		})
	}
}

func TestNewConfig_InvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logger.level", "loud")

	_, err := NewConfig(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level 'loud'")
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{OutputPaths: []string{"stderr"}}.Validate())

	err := Config{OutputPaths: []string{"stderr", "  "}}.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "outputPaths[1]")
}
