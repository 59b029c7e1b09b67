package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		slog.Debug("loaded env file", "path", p)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: STATICLINT_[SECTION]_[KEY] (e.g., STATICLINT_OBSERVABILITY_PORT).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "STATICLINT_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.DatabaseDir, "STATICLINT_PATHS_DATABASE_DIR")
	setEnvInt(&cfg.Workers, "STATICLINT_WORKERS")

	// Rules
	setEnvToggle(&cfg.Resolution.Enabled, "STATICLINT_RESOLUTION_ENABLED")
	if val, ok := os.LookupEnv("STATICLINT_IMPORT_METHODS"); ok {
		slog.Info("applying env override", "key", "STATICLINT_IMPORT_METHODS", "value", val)
		cfg.Import.EnforceStaticImport.Methods = MethodSpecs{Source: CommaSeparated(val)}
	}

	// Output
	setEnvString(&cfg.Output.Format, "STATICLINT_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.FailOn, "STATICLINT_OUTPUT_FAIL_ON")

	// Database
	setEnvBool(&cfg.DB.Enabled, "STATICLINT_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "STATICLINT_DB_PATH")
	setEnvDuration(&cfg.DB.BusyTimeout, "STATICLINT_DB_BUSY_TIMEOUT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "STATICLINT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "STATICLINT_WATCH_MAX_RUNS_PER_SECOND")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "STATICLINT_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "STATICLINT_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "STATICLINT_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "STATICLINT_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "STATICLINT_OBSERVABILITY_ENABLE_METRICS")

	normalize(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Info("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvToggle(target *Toggle, key string) {
	var b bool
	if _, ok := os.LookupEnv(key); !ok {
		return
	}
	b = target.Enabled(true)
	setEnvBool(&b, key)
	*target = BoolToggle(b)
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
