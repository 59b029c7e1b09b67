package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"staticlint/internal/core/config/helpers"
	"staticlint/internal/engine/finding"
)

var outputFormats = map[string]bool{
	"terminal": true,
	"json":     true,
	"sarif":    true,
	"tsv":      true,
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	if cfg.DB.Retention < 0 {
		return fmt.Errorf("db.retention must be >= 0")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !outputFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be one of: terminal, json, sarif, tsv; got %q", cfg.Output.Format)
	}
	if cfg.Output.FailOn != "" && cfg.Output.FailOn != "never" {
		if _, err := finding.ParseSeverity(cfg.Output.FailOn); err != nil {
			return fmt.Errorf("output.fail_on: %w", err)
		}
	}

	outputs := make(map[string]string)
	checkConflict := func(path, name string) error {
		if path == "" {
			return nil
		}
		path = filepath.Clean(path)
		for existing, owner := range outputs {
			if helpers.IsPathOverlap(existing, path) {
				return fmt.Errorf("output conflict: %s and %s share the same path %q", owner, name, path)
			}
		}
		outputs[path] = name
		return nil
	}
	if err := checkConflict(cfg.Output.SARIF, "output.sarif"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.JSON, "output.json"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.TSV, "output.tsv"); err != nil {
		return err
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Dirs {
		if !helpers.HasWildcard(pattern) {
			continue
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.dirs[%d] %q: %w", i, pattern, err)
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.files[%d] %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0")
	}
	if cfg.Watch.MaxRunsPerSecond < 0 {
		return fmt.Errorf("watch.max_runs_per_second must be >= 0")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Port < 0 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 0 and 65535, got %d", cfg.Observability.Port)
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when observability.enable_tracing=true")
	}
	return nil
}

// Validate collects every structural problem instead of stopping at the first.
func Validate(cfg *Config) []error {
	var errs []error
	checks := []func(*Config) error{
		validateVersion,
		validateDatabase,
		validateOutput,
		validateExclude,
		validateWatch,
		validateObservability,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return append(errs, validatePaths(cfg)...)
}

func validatePaths(cfg *Config) []error {
	var errs []error
	for i, path := range cfg.WatchPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("watch_paths[%d] %q does not exist", i, path))
		}
	}
	return errs
}
