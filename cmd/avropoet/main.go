// Package main provides the avropoet CLI, which generates Go types and
// conversion functions from Avro record schemas.
//
// Usage:
//
//	avropoet generate --input ./avro --output ./gen --import-path example.com/app/gen
//
// Schemas below a "shared" directory are generated first; every other schema
// references their types instead of declaring them again.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sokol111/avropoet/internal/codegen"
	"github.com/Sokol111/avropoet/internal/config"
	"github.com/Sokol111/avropoet/internal/emitter"
	"github.com/Sokol111/avropoet/internal/logger"
	"github.com/Sokol111/avropoet/internal/project"
	"github.com/Sokol111/avropoet/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev"

// validateImportRoot places units of a validation run, which writes nothing.
const validateImportRoot = "avropoet.invalid/validate"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
	envFile    string
}

// flagKeys maps configuration keys to the flags overriding them.
var flagKeys = map[string]string{
	config.KeyInput:            "input",
	config.KeyOutput:           "output",
	config.KeyImportPath:       "import-path",
	config.KeySharedDir:        "shared-dir",
	config.KeyExtensions:       "ext",
	config.KeyDefaultNamespace: "default-namespace",
	config.KeyParallelism:      "parallelism",
	config.KeyWatchDebounce:    "debounce",
	config.KeyLoggerLevel:      "log-level",
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "avropoet",
		Short:         "Generate Go code from Avro schemas",
		Long:          `avropoet generates Go types plus Decode/Encode functions for the generic Avro record container from Avro record schemas.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to $CONFIG_FILE)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "Optional .env file")
	pf.StringP("input", "i", "", "Directory containing Avro schemas (required)")
	pf.StringP("output", "o", "", "Output root for generated packages")
	pf.String("import-path", "", "Go import path of the output root")
	pf.String("shared-dir", "", "Name of directories holding shared schemas")
	pf.StringSlice("ext", nil, "Accepted schema file extensions")
	pf.String("default-namespace", "", "Namespace for schemas that declare none")
	pf.IntP("parallelism", "j", 0, "Concurrent generation of dependent schemas")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newGenerateCmd(opts), newValidateCmd(opts), newWatchCmd(opts))

	return rootCmd
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code from Avro schemas",
		Long: `Generate Go code from Avro schemas.

Every schema below the input directory becomes one Go file in a package named
after its namespace.

Example:
  avropoet generate -i ./avro -o ./gen --import-path example.com/app/gen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if err := cfg.ValidateForGeneration(); err != nil {
				return err
			}
			return runGenerate(ctx, cfg)
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every schema can be generated without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.ImportPath == "" {
				cfg.ImportPath = validateImportRoot
			}

			res, err := newBuilder(ctx, cfg, emitter.Discard{}).Build(ctx)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d schemas OK (%d shared)\n", len(res.Units), res.Shared)
			return nil
		},
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever a schema changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if err := cfg.ValidateForGeneration(); err != nil {
				return err
			}
			return runWatch(ctx, cfg)
		},
	}
	cmd.Flags().Duration("debounce", 0, "Quiet period before rebuilding")
	return cmd
}

// setup loads the configuration and the logger and puts the logger on the
// returned context.
func setup(cmd *cobra.Command, opts *rootOptions) (context.Context, *config.Config, error) {
	loaded, err := config.LoadDotEnv(opts.envFile)
	if err != nil {
		return nil, nil, err
	}

	v, err := config.NewViper(opts.configFile)
	if err != nil {
		return nil, nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.AbsolutePaths(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("configuration loaded",
		zap.String("configFile", v.ConfigFileUsed()),
		zap.Bool("dotenv", loaded),
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithLogger(ctx, log), cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func newBuilder(ctx context.Context, cfg *config.Config, sink emitter.Sink) *project.Builder {
	log := logger.FromContext(ctx)
	return project.NewBuilder(project.Options{
		Input:  cfg.Input,
		Source: sourceOptions(cfg),
		Codegen: codegen.Options{
			ImportRoot:       cfg.ImportPath,
			DefaultNamespace: cfg.DefaultNamespace,
		},
		Parallelism: cfg.Parallelism,
	}, sink, log)
}

func sourceOptions(cfg *config.Config) source.Options {
	return source.Options{Extensions: cfg.Extensions, SharedDir: cfg.SharedDir}
}

func runGenerate(ctx context.Context, cfg *config.Config) error {
	res, err := newBuilder(ctx, cfg, emitter.FileSink{Root: cfg.Output}).Build(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	logger.FromContext(ctx).Info("code generated",
		zap.String("build_id", res.BuildID),
		zap.Int("units", len(res.Units)),
		zap.Strings("packages", res.Packages()),
		zap.String("output", cfg.Output),
	)
	return nil
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.FromContext(ctx)
	if err := runGenerate(ctx, cfg); err != nil {
		log.Error("initial build failed", zap.Error(err))
	}

	w, err := source.NewWatcher(cfg.Input, sourceOptions(cfg), cfg.Debounce, log)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	return w.Run(ctx, func(ctx context.Context) error {
		return runGenerate(ctx, cfg)
	})
}
