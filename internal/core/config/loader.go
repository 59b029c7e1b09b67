package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a TOML or YAML configuration file, chosen by extension, applies
// defaults and validates it. Rule option type problems are not errors here;
// they are reported by Notifications.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse decodes configuration content. path only selects the format and
// labels errors.
func Parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := decode(path, data, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		for _, key := range md.Undecoded() {
			cfg.undecoded = append(cfg.undecoded, key.String())
		}
		return nil
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = ".staticlint"
	}
	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "build", "target", ".gradle", "node_modules"}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	sec := &cfg.Micronaut.RequireSecuredAnnotation
	if len(sec.EndpointAnnotations) == 0 {
		sec.EndpointAnnotations = append([]string(nil), DefaultEndpointAnnotations...)
	}
	if len(sec.SecurityAnnotations) == 0 {
		sec.SecurityAnnotations = append([]string(nil), DefaultSecurityAnnotations...)
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "terminal"
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if cfg.DB.Retention <= 0 {
		cfg.DB.Retention = 50
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond == 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}
}

func normalize(cfg *Config) {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.FailOn = strings.ToLower(strings.TrimSpace(cfg.Output.FailOn))
	cfg.Output.SARIF = strings.TrimSpace(cfg.Output.SARIF)
	cfg.Output.JSON = strings.TrimSpace(cfg.Output.JSON)
	cfg.Output.TSV = strings.TrimSpace(cfg.Output.TSV)

	sec := &cfg.Micronaut.RequireSecuredAnnotation
	sec.EndpointAnnotations = normalizeAnnotations(sec.EndpointAnnotations)
	sec.SecurityAnnotations = normalizeAnnotations(sec.SecurityAnnotations)

	paths := cfg.WatchPaths[:0]
	for _, p := range cfg.WatchPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	cfg.WatchPaths = paths
}
