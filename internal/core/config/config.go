package config

import (
	"time"
)

type Config struct {
	Version       int              `toml:"version" yaml:"version"`
	Paths         Paths            `toml:"paths" yaml:"paths"`
	WatchPaths    []string         `toml:"watch_paths" yaml:"watch_paths"`
	Exclude       Exclude          `toml:"exclude" yaml:"exclude"`
	Workers       int              `toml:"workers" yaml:"workers"`
	Resolution    Resolution       `toml:"resolution" yaml:"resolution"`
	Import        ImportRuleSet    `toml:"import" yaml:"import"`
	Micronaut     MicronautRuleSet `toml:"micronaut" yaml:"micronaut"`
	Output        Output           `toml:"output" yaml:"output"`
	DB            Database         `toml:"db" yaml:"db"`
	Watch         Watch            `toml:"watch" yaml:"watch"`
	Observability Observability    `toml:"observability" yaml:"observability"`

	// undecoded holds TOML keys that did not map onto any field.
	undecoded []string
}

type Paths struct {
	ProjectRoot string `toml:"project_root" yaml:"project_root"`
	DatabaseDir string `toml:"database_dir" yaml:"database_dir"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs" yaml:"dirs"`
	Files []string `toml:"files" yaml:"files"`
}

// Resolution controls whether calls are bound to symbols. Rules that need
// bindings stay silent when it is disabled.
type Resolution struct {
	Enabled Toggle `toml:"enabled" yaml:"enabled"`
}

type Output struct {
	Format string `toml:"format" yaml:"format"`
	SARIF  string `toml:"sarif" yaml:"sarif"`
	JSON   string `toml:"json" yaml:"json"`
	TSV    string `toml:"tsv" yaml:"tsv"`
	// FailOn is the lowest severity that makes `check` exit non-zero.
	FailOn string `toml:"fail_on" yaml:"fail_on"`
}

type Database struct {
	Enabled     bool          `toml:"enabled" yaml:"enabled"`
	Path        string        `toml:"path" yaml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout" yaml:"busy_timeout"`
	Retention   int           `toml:"retention" yaml:"retention"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce" yaml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second" yaml:"max_runs_per_second"`
	Burst            int           `toml:"burst" yaml:"burst"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Port          int    `toml:"port" yaml:"port"`
	OTLPEndpoint  string `toml:"otlp_endpoint" yaml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics bool   `toml:"enable_metrics" yaml:"enable_metrics"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Undecoded lists configuration keys that were present in a TOML file but
// are not understood.
func (c *Config) Undecoded() []string {
	return append([]string(nil), c.undecoded...)
}
