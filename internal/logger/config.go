package logger

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Level is the minimum logging level.
	Level zapcore.Level `mapstructure:"level"`

	// Development switches to console encoding with human-readable timestamps.
	// JSON encoding is used otherwise.
	Development bool `mapstructure:"development"`

	// OutputPaths lists URLs or file paths to write logging output to.
	// Defaults to stderr.
	OutputPaths []string `mapstructure:"outputPaths"`
}

func (c Config) Validate() error {
	for i, path := range c.OutputPaths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("outputPaths[%d] cannot be empty or whitespace", i)
		}
	}
	return nil
}

// NewConfig reads the "logger" keys of v. Missing keys yield the info level
// in production mode.
func NewConfig(v *viper.Viper) (Config, error) {
	level := zapcore.InfoLevel
	if raw := v.GetString("logger.level"); raw != "" {
		parsedLevel, err := zapcore.ParseLevel(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid log level '%s': %w", raw, err)
		}
		level = parsedLevel
	}

	return Config{
		Level:       level,
		Development: v.GetBool("logger.development"),
		OutputPaths: v.GetStringSlice("logger.outputPaths"),
	}, nil
}
