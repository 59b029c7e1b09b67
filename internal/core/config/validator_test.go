package config

import (
	"strings"
	"testing"
)

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 3
	cfg.Output.Format = "xml"
	cfg.WatchPaths = []string{"/non/existent/path"}

	errs := Validate(cfg)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	target := "watch_paths[0] \"/non/existent/path\" does not exist"
	found := false
	for _, err := range errs {
		if err.Error() == target {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in %v", target, errs)
	}
}

func TestValidateOutputConflicts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.SARIF = "reports/out.sarif"
	cfg.Output.TSV = "reports/out.sarif"

	err := validateOutput(cfg)
	if err == nil {
		t.Fatal("expected output conflict")
	}
	if !strings.Contains(err.Error(), "output.sarif and output.tsv") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestValidateExcludeDirsPlainNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Dirs = []string{"build", "out[", "gen-*"}
	if err := validateExclude(cfg); err == nil {
		t.Fatal("expected invalid glob in dirs to fail")
	}
	cfg.Exclude.Dirs = []string{"build", "gen-*"}
	if err := validateExclude(cfg); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
