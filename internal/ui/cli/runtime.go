// Package cli holds the process-level setup shared by the staticlint
// commands: logging, configuration loading and the observability stack.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"staticlint/internal/core/app"
	"staticlint/internal/core/config"
	"staticlint/internal/shared/observability"
	"staticlint/internal/shared/version"
)

// ConfigureLogging installs a text slog handler on w as the default logger.
func ConfigureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// LoadConfig loads .env from dir, then the configuration at path, or the
// first default config file in dir when path is empty, and applies
// environment overrides. Without any file the defaults are used. The
// returned path is empty in that case.
func LoadConfig(path, dir string) (*config.Config, string, error) {
	if err := config.LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, "", fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		if found, ok := config.FindConfigFile(dir); ok {
			path = found
		}
	}

	var cfg *config.Config
	if path == "" {
		slog.Debug("no config file found, using defaults", "dir", dir)
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		slog.Debug("config loaded", "path", path)
		cfg = loaded
	}

	config.ApplyEnvOverrides(cfg)
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, path, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, path, nil
}

// StartObservability starts tracing and the metrics server as configured.
// The returned function stops both.
func StartObservability(ctx context.Context, cfg *config.Config, a *app.App) (func(context.Context), error) {
	var stops []func(context.Context) error

	obs := cfg.Observability
	if obs.Enabled && obs.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, obs.OTLPEndpoint, version.Version)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		slog.Debug("tracing enabled", "endpoint", obs.OTLPEndpoint)
		stops = append(stops, shutdown)
	}
	if obs.Enabled && obs.EnableMetrics {
		server := NewObservabilityServer(fmt.Sprintf(":%d", obs.Port), app.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			return nil, err
		}
		stops = append(stops, server.Stop)
	}

	return func(ctx context.Context) {
		for _, stop := range stops {
			if err := stop(ctx); err != nil {
				slog.Warn("observability shutdown failed", "error", err)
			}
		}
	}, nil
}

// WorkingDir returns the absolute working directory.
func WorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("detect working directory: %w", err)
	}
	return filepath.Abs(cwd)
}
