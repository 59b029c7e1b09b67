package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"staticlint/internal/ui/cli"
)

var flagFailOn string

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Analyze sources once and report findings",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit with code 1 if findings at or above this severity (security, defect, performance, warning, maintainability, style, minor)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	stop, err := cli.StartObservability(ctx, a.Config, a)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		stop(shutdownCtx)
	}()

	result, err := a.Analyze(ctx, args)
	if err != nil {
		return err
	}
	slog.Debug("analysis finished",
		"files", result.FilesScanned,
		"findings", len(result.Findings),
		"duration", result.Duration,
		"run_id", result.RunID)

	if _, err := a.WriteOutputs(result); err != nil {
		return err
	}

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()
	if err := writeResult(w, a.Config.Output.Format, result); err != nil {
		return err
	}

	failOn := a.Config.Output.FailOn
	if cmd.Flags().Changed("fail-on") {
		failOn = flagFailOn
	}
	return checkFailOn(failOn, result.Findings)
}
