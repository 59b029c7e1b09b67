package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"staticlint/internal/core/app"
	"staticlint/internal/data/history"
	"staticlint/internal/ui/report"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the finding trend of past runs",
	RunE:  runHistory,
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff [base-run] [head-run]",
	Short: "Compare the findings of two runs (default: the latest two)",
	Args:  cobra.RangeArgs(0, 2),
	RunE:  runHistoryDiff,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show (0 for all)")
	historyCmd.AddCommand(historyDiffCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyApp(cmd *cobra.Command) (*app.App, error) {
	cfg, cwd, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.DB.Enabled = true
	return app.NewWithRoot(cfg, cwd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := historyApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.History.LoadRuns(cmd.Context(), a.ProjectKey(), flagHistoryLimit)
	if err != nil {
		return err
	}
	points := report.Trend(runs)

	var data []byte
	if flagFormat == "json" {
		data, err = report.RenderTrendJSON(points)
	} else {
		data, err = report.RenderTrendTSV(points)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runHistoryDiff(cmd *cobra.Command, args []string) error {
	a, err := historyApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	base, head := "", ""
	switch len(args) {
	case 2:
		base, head = args[0], args[1]
	default:
		runs, err := a.History.LoadRuns(ctx, a.ProjectKey(), 2)
		if err != nil {
			return err
		}
		if len(runs) < 2 && len(args) == 0 {
			return fmt.Errorf("need at least two recorded runs, found %d", len(runs))
		}
		if len(args) == 1 {
			if len(runs) == 0 {
				return fmt.Errorf("no recorded runs")
			}
			base, head = args[0], runs[0].ID
		} else {
			base, head = runs[1].ID, runs[0].ID
		}
	}

	before, err := a.History.LoadFindings(ctx, base)
	if err != nil {
		return err
	}
	after, err := a.History.LoadFindings(ctx, head)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(report.RenderDiff(a.ProjectRoot(), history.DiffFindings(before, after)))
	return err
}
