package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	domainerrors "staticlint/internal/core/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "staticlint.toml", `
watch_paths = ["./src"]
workers = 3

[exclude]
dirs = ["build", "gen-*"]
files = ["*Test.java"]

[import.EnforceStaticImport]
active = true
methods = ["java.lang.Math.floor", "java.time.LocalDate.now()"]

[micronaut.RequireSecuredAnnotation]
endpoint_annotations = ["@Get", "Post", "Get"]

[output]
format = "SARIF"
sarif = "out/staticlint.sarif"
fail_on = "style"

[watch]
debounce = "1s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if got := cfg.Import.EnforceStaticImport.Methods.Specs(); !reflect.DeepEqual(got, []string{"java.lang.Math.floor", "java.time.LocalDate.now()"}) {
		t.Errorf("unexpected methods %q", got)
	}
	if _, ok := cfg.Import.EnforceStaticImport.Methods.Source.(StringList); !ok {
		t.Errorf("expected StringList source, got %T", cfg.Import.EnforceStaticImport.Methods.Source)
	}
	if !cfg.Import.EnforceStaticImport.Active.Enabled(false) {
		t.Error("expected EnforceStaticImport to be active")
	}
	if got := cfg.Micronaut.RequireSecuredAnnotation.EndpointAnnotations; !reflect.DeepEqual(got, []string{"Get", "Post"}) {
		t.Errorf("expected annotations normalized and deduplicated, got %q", got)
	}
	if got := cfg.Micronaut.RequireSecuredAnnotation.SecurityAnnotations; !reflect.DeepEqual(got, DefaultSecurityAnnotations) {
		t.Errorf("expected default security annotations, got %q", got)
	}
	if cfg.Output.Format != "sarif" {
		t.Errorf("expected format normalized to sarif, got %q", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadCommaSeparatedMethods(t *testing.T) {
	path := writeConfig(t, "staticlint.toml", `
[import.EnforceStaticImport]
methods = "java.lang.Math.floor, java.time.LocalDate.of(int, int, int)"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"java.lang.Math.floor", "java.time.LocalDate.of(int, int, int)"}
	if got := cfg.Import.EnforceStaticImport.Methods.Specs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if _, ok := cfg.Import.EnforceStaticImport.Methods.Source.(CommaSeparated); !ok {
		t.Errorf("expected CommaSeparated source, got %T", cfg.Import.EnforceStaticImport.Methods.Source)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "staticlint.yml", `
import:
  EnforceStaticImport:
    active: true
    methods:
      - java.lang.Math.floor
      - com.google.common.truth.Truth.assertThat
micronaut:
  RequireSecuredAnnotation:
    active: false
db:
  busy_timeout: 2s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := len(cfg.Import.EnforceStaticImport.Methods.Specs()); got != 2 {
		t.Errorf("expected 2 methods, got %d", got)
	}
	if cfg.Micronaut.RequireSecuredAnnotation.Active.Enabled(true) {
		t.Error("expected RequireSecuredAnnotation to be inactive")
	}
	if cfg.DB.BusyTimeout != 2*time.Second {
		t.Errorf("expected 2s busy timeout, got %v", cfg.DB.BusyTimeout)
	}
	if n := Notifications(cfg); len(n) != 0 {
		t.Errorf("expected no notifications, got %v", n)
	}
}

func TestLoadYAMLCommaSeparated(t *testing.T) {
	path := writeConfig(t, "staticlint.yaml", `
import:
  EnforceStaticImport:
    methods: "java.lang.Math.floor, java.lang.System.gc"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"java.lang.Math.floor", "java.lang.System.gc"}
	if got := cfg.Import.EnforceStaticImport.Methods.Specs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "staticlint.yml", ""))
	if err != nil {
		t.Fatalf("expected empty yaml to load, got %v", err)
	}
	if cfg.Version != 1 || cfg.Output.Format != "terminal" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestActiveMustBeBoolean(t *testing.T) {
	for name, content := range map[string]string{
		"staticlint.toml": "[import.EnforceStaticImport]\nactive = \"yes\"\n",
		"staticlint.yml":  "import:\n  EnforceStaticImport:\n    active: notabool\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, content))
			if err != nil {
				t.Fatalf("wrong rule option type must not fail loading: %v", err)
			}
			notes := Notifications(cfg)
			if len(notes) != 1 {
				t.Fatalf("expected one notification, got %v", notes)
			}
			if notes[0].Message != "'active' property must be of type boolean." {
				t.Errorf("unexpected message %q", notes[0].Message)
			}
			if notes[0].Level != LevelError || notes[0].Key != "import.EnforceStaticImport.active" {
				t.Errorf("unexpected notification %+v", notes[0])
			}
			if !HasErrors(notes) {
				t.Error("expected HasErrors to be true")
			}
			if code, ok := domainerrors.CodeOf(notes[0].Err()); !ok || code != domainerrors.CodeInvalidConfigType {
				t.Errorf("expected %s, got %q", domainerrors.CodeInvalidConfigType, code)
			}
			if !cfg.Import.EnforceStaticImport.Active.Enabled(true) {
				t.Error("invalid toggle should fall back to the default")
			}
		})
	}
}

func TestInvalidMethodsNotification(t *testing.T) {
	cfg, err := Load(writeConfig(t, "staticlint.toml", "[import.EnforceStaticImport]\nmethods = [1, 2]\n"))
	if err != nil {
		t.Fatal(err)
	}
	notes := Notifications(cfg)
	if len(notes) != 1 || !strings.Contains(notes[0].Message, "'methods'") {
		t.Fatalf("expected methods notification, got %v", notes)
	}
	if specs := cfg.Import.EnforceStaticImport.Methods.Specs(); len(specs) != 0 {
		t.Errorf("expected no specs from invalid option, got %q", specs)
	}
}

func TestUndecodedKeysWarn(t *testing.T) {
	cfg, err := Load(writeConfig(t, "staticlint.toml", "[import.EnforceStaticImport]\nmethdos = []\n"))
	if err != nil {
		t.Fatal(err)
	}
	notes := Notifications(cfg)
	if len(notes) != 1 || notes[0].Level != LevelWarning {
		t.Fatalf("expected one warning, got %v", notes)
	}
	if HasErrors(notes) {
		t.Error("warnings should not count as errors")
	}
}

func TestLoadRejectsStructuralErrors(t *testing.T) {
	tests := map[string]string{
		"version":  "version = 7\n",
		"format":   "[output]\nformat = \"html\"\n",
		"fail_on":  "[output]\nfail_on = \"fatal\"\n",
		"glob":     "[exclude]\nfiles = [\"[\"]\n",
		"tracing":  "[observability]\nenable_tracing = true\n",
		"conflict": "[output]\nsarif = \"out.txt\"\njson = \"out.txt\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, "staticlint.toml", content)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if !cfg.Resolution.Enabled.Enabled(true) {
		t.Error("resolution should default to enabled")
	}
	if len(cfg.Import.EnforceStaticImport.Methods.Specs()) != 0 {
		t.Error("expected no configured methods by default")
	}
	if cfg.Workers <= 0 {
		t.Error("expected workers default")
	}
	if len(cfg.Micronaut.RequireSecuredAnnotation.EndpointAnnotations) != len(DefaultEndpointAnnotations) {
		t.Error("expected default endpoint annotations")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("STATICLINT_IMPORT_METHODS", "java.lang.Math.floor,java.lang.System.gc")
	t.Setenv("STATICLINT_RESOLUTION_ENABLED", "false")
	t.Setenv("STATICLINT_OUTPUT_FORMAT", "JSON")
	t.Setenv("STATICLINT_WORKERS", "not-a-number")

	cfg := DefaultConfig()
	workers := cfg.Workers
	ApplyEnvOverrides(cfg)

	if got := cfg.Import.EnforceStaticImport.Methods.Specs(); len(got) != 2 {
		t.Errorf("expected 2 methods from env, got %q", got)
	}
	if cfg.Resolution.Enabled.Enabled(true) {
		t.Error("expected resolution disabled by env")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected json, got %q", cfg.Output.Format)
	}
	if cfg.Workers != workers {
		t.Errorf("invalid int override should be ignored, got %d", cfg.Workers)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("STATICLINT_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("STATICLINT_TEST_DOTENV") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("STATICLINT_TEST_DOTENV"); got != "loaded" {
		t.Errorf("expected value from .env, got %q", got)
	}
}
