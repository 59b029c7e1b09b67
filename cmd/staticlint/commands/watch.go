package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"staticlint/internal/core/app"
	"staticlint/internal/core/config"
	"staticlint/internal/ui/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-analyze sources whenever they change",
	Long:  `watch runs a full analysis, then re-runs it after every batch of source changes. Edits to the config file restart the watcher with the new configuration.`,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := contextWithInterrupt()
	defer cancel()

	cfg, cwd, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath, _ = config.FindConfigFile(cwd)
	}

	reloads := make(chan *config.Config, 1)
	if cfgPath != "" {
		cw := config.NewWatcher(cfgPath, func(next *config.Config) {
			applyFlagOverrides(cmd, next)
			select {
			case reloads <- next:
			default:
			}
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config hot reload unavailable", "path", cfgPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	for {
		next, err := watchOnce(ctx, cmd, cfg, cwd, args, reloads)
		if err != nil || next == nil {
			return err
		}
		slog.Info("configuration changed, restarting watcher", "path", cfgPath)
		cfg = next
	}
}

// watchOnce runs one watch session. It returns the new configuration when a
// reload ends the session and nil when ctx is done.
func watchOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config, cwd string, args []string, reloads <-chan *config.Config) (*config.Config, error) {
	a, err := app.NewWithRoot(cfg, cwd)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	a.IncludeTests = flagIncludeTests

	stop, err := cli.StartObservability(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		stop(shutdownCtx)
	}()

	sessionCtx, endSession := context.WithCancel(ctx)
	defer endSession()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Watch(sessionCtx, args, func(result app.Result, err error) {
			if err != nil {
				slog.Error("analysis failed", "error", err)
				return
			}
			if err := writeResult(cmd.OutOrStdout(), cfg.Output.Format, result); err != nil {
				slog.Error("failed to write report", "error", err)
			}
			if _, err := a.WriteOutputs(result); err != nil {
				slog.Error("failed to write report files", "error", err)
			}
		})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		return nil, nil
	case next := <-reloads:
		endSession()
		<-errCh
		return next, nil
	}
}
