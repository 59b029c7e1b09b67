package app

import (
	"context"
	"log/slog"
	"time"

	"staticlint/internal/core/app/helpers"
	"staticlint/internal/core/watcher"
	"staticlint/internal/engine/parser"
	"staticlint/internal/shared/observability"
	"staticlint/internal/shared/util"
)

// Watch analyzes paths once and again after every batch of source changes
// until ctx is cancelled. Changes arriving during a run are coalesced into
// one follow-up run; re-runs are throttled by the configured rate.
func (a *App) Watch(ctx context.Context, paths []string, onResult func(Result, error)) error {
	if len(paths) == 0 {
		paths = a.Config.WatchPaths
	}
	roots := helpers.UniqueScanRoots(paths)

	trigger := make(chan []string, 1)
	w, err := watcher.New(watcher.Options{
		Debounce:     a.Config.Watch.Debounce,
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
		Extensions:   a.Parser.SupportedExtensions(),
		TestSuffixes: parser.DefaultLanguageRegistry()["java"].TestFileSuffixes,
		IncludeTests: a.IncludeTests,
	}, func(changed []string) {
		select {
		case trigger <- changed:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(roots); err != nil {
		return err
	}

	onResult(a.Analyze(ctx, roots))

	limiter := util.NewRunLimiter(a.Config.Watch.MaxRunsPerSecond, a.Config.Watch.Burst)
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-trigger:
			if !limiter.Allow() {
				observability.WatchRunsThrottledTotal.Inc()
				delay := limiter.Delay()
				slog.Debug("throttling re-run", "delay", delay)
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(delay):
				}
			}
			slog.Info("sources changed, re-running analysis", "files", len(changed))
			onResult(a.Analyze(ctx, roots))
		}
	}
}
