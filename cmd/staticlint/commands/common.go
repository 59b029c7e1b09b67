package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"staticlint/internal/core/app"
	"staticlint/internal/core/config"
	"staticlint/internal/engine/finding"
	"staticlint/internal/ui/cli"
	"staticlint/internal/ui/report/formats"
)

// ErrFailOn is returned when findings reach the --fail-on severity.
var ErrFailOn = errors.New("findings at or above the fail-on severity")

// loadConfig reads the configuration and applies the persistent flags that
// override it.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cwd, err := cli.WorkingDir()
	if err != nil {
		return nil, "", err
	}
	cfg, _, err := cli.LoadConfig(flagConfig, cwd)
	if err != nil {
		return nil, "", err
	}
	applyFlagOverrides(cmd, cfg)
	return cfg, cwd, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workers") && flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(flagFormat))
	}
}

func loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, cwd, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.NewWithRoot(cfg, cwd)
	if err != nil {
		return nil, err
	}
	a.IncludeTests = flagIncludeTests
	return a, nil
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// openOutput returns the command's output or the --output file.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if flagOutput == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(flagOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeResult renders result in the configured format. Terminal output is
// colored unless --no-color, NO_COLOR or --output is set.
func writeResult(w io.Writer, format string, result app.Result) error {
	if format == formats.FormatTerminal || format == "" {
		noColor := flagNoColor || os.Getenv("NO_COLOR") != "" || flagOutput != ""
		_, err := io.WriteString(w, formats.TerminalFormatter{NoColor: noColor}.Render(result.Report()))
		return err
	}
	data, err := formats.Generate(format, result.Report())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// checkFailOn returns ErrFailOn when a finding is at or above failOn.
func checkFailOn(failOn string, findings []finding.Finding) error {
	if failOn == "" {
		return nil
	}
	threshold, err := finding.ParseSeverity(failOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	if finding.AtLeast(findings, threshold) {
		return ErrFailOn
	}
	return nil
}
