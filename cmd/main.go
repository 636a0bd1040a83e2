package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotctl/internal/repositories"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tasks"
	"github.com/desertthunder/spotctl/internal/tokens"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run loads configuration, opens the token store and executes the CLI. It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := shared.NewLogger(stderr)

	configPath := shared.DefaultConfigPath()
	config, err := loadConfig(configPath, logger)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		return 1
	}

	logger = configureLogger(logger, config.Log)

	storePath := config.StoragePath()
	var store tokens.Store
	if ts, err := repositories.Open(config.Storage, storePath); err != nil {
		logger.Warn("token store unavailable, tokens will not persist", "path", storePath, "error", err)
	} else {
		defer ts.Close()
		store = ts
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Store:      store,
		StorePath:  storePath,
		Logger:     logger,
		Output:     stdout,
	})

	if err := runner.App().Run(ctx, args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return 0
		}
		logger.Debug("command failed", "kind", shared.ErrorKind(err), "error", err)
		fmt.Fprintln(stderr, tasks.Failure(err).String())
		return 1
	}
	return 0
}

// loadConfig reads path when it exists and falls back to the embedded defaults otherwise.
// Environment credentials always win over the file.
func loadConfig(path string, logger *log.Logger) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	} else {
		logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := config.ApplyEnv(".env"); err != nil {
		return nil, err
	}
	return config, nil
}

func configureLogger(logger *log.Logger, cfg shared.LogConfig) *log.Logger {
	if cfg.File != "" {
		if fl, err := shared.NewFileLogger(cfg.File, cfg); err != nil {
			logger.Warn("failed to open log file, logging to stderr", "path", cfg.File, "error", err)
		} else {
			logger = fl
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(cfg.Level))
	return shared.WithLogger(logger, "run", shared.GenerateID()[:8])
}
