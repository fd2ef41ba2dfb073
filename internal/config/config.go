// Package config loads the avropoet settings from flags, environment, an
// optional YAML file and an optional .env file.
//
// Every key can be set through the environment with the AVROPOET_ prefix,
// dots and dashes replaced by underscores (AVROPOET_WATCH_DEBOUNCE).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Sokol111/avropoet/internal/logger"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const EnvPrefix = "AVROPOET"

const (
	KeyInput            = "input"
	KeyOutput           = "output"
	KeyImportPath       = "import_path"
	KeySharedDir        = "shared_dir"
	KeyExtensions       = "extensions"
	KeyDefaultNamespace = "default_namespace"
	KeyParallelism      = "parallelism"
	KeyWatchDebounce    = "watch.debounce"
	KeyLoggerLevel      = "logger.level"
	KeyLoggerDevelop    = "logger.development"
)

// Config holds the settings of one build.
type Config struct {
	// Input is the directory scanned for schema files.
	Input string
	// Output is the root directory generated packages are written under.
	Output string
	// ImportPath is the Go import path corresponding to Output.
	ImportPath string
	// SharedDir names the directories holding shared schemas.
	SharedDir string
	// Extensions are the accepted schema file extensions.
	Extensions []string
	// DefaultNamespace places top-level schemas that have no namespace.
	DefaultNamespace string
	// Parallelism bounds concurrent generation of dependent schemas.
	Parallelism int
	// Debounce is the quiet period the watch mode waits for before rebuilding.
	Debounce time.Duration

	Logger logger.Config
}

// NewViper returns a viper instance with defaults and environment binding.
// If configFile is empty the CONFIG_FILE environment variable is consulted;
// with neither set no file is read.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyOutput, "gen")
	v.SetDefault(KeySharedDir, "shared")
	v.SetDefault(KeyExtensions, []string{".avsc", ".json"})
	v.SetDefault(KeyDefaultNamespace, "generated")
	v.SetDefault(KeyParallelism, runtime.GOMAXPROCS(0))
	v.SetDefault(KeyWatchDebounce, 300*time.Millisecond)
	v.SetDefault(KeyLoggerLevel, "info")
	v.SetDefault(KeyLoggerDevelop, true)

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
	}
	return v, nil
}

// LoadDotEnv loads environment variables from path, ".env" when empty.
// A missing file is not an error; it reports whether a file was loaded.
func LoadDotEnv(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// Load reads a Config out of v.
func Load(v *viper.Viper) (*Config, error) {
	logCfg, err := logger.NewConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Input:            v.GetString(KeyInput),
		Output:           v.GetString(KeyOutput),
		ImportPath:       v.GetString(KeyImportPath),
		SharedDir:        v.GetString(KeySharedDir),
		Extensions:       splitList(v.GetStringSlice(KeyExtensions)),
		DefaultNamespace: v.GetString(KeyDefaultNamespace),
		Parallelism:      v.GetInt(KeyParallelism),
		Debounce:         v.GetDuration(KeyWatchDebounce),
		Logger:           logCfg,
	}, nil
}

// splitList accepts both lists and comma separated values, as environment
// variables only carry the latter.
func splitList(values []string) []string {
	parts := lo.FlatMap(values, func(v string, _ int) []string {
		return strings.Split(v, ",")
	})
	parts = lo.Map(parts, func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Uniq(lo.Compact(parts))
}

// Validate checks the settings needed to read schemas.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input directory is required")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one schema extension is required")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Parallelism < 1 {
		c.Parallelism = 1
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive, got %s", c.Debounce)
	}
	return nil
}

// ValidateForGeneration additionally checks the settings needed to write code.
func (c *Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("output directory is required for generation")
	}
	if c.ImportPath == "" {
		return fmt.Errorf("import path is required for generation")
	}
	return nil
}

// AbsolutePaths converts relative paths to absolute paths.
func (c *Config) AbsolutePaths() error {
	var err error

	if c.Input != "" {
		c.Input, err = filepath.Abs(c.Input)
		if err != nil {
			return fmt.Errorf("failed to resolve input directory: %w", err)
		}
	}

	if c.Output != "" {
		c.Output, err = filepath.Abs(c.Output)
		if err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}

	return nil
}
