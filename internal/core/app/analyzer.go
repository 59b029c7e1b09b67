package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"staticlint/internal/core/config"
	domainerrors "staticlint/internal/core/errors"
	"staticlint/internal/data/history"
	"staticlint/internal/engine/callsite"
	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/parser"
	"staticlint/internal/engine/resolver"
	"staticlint/internal/engine/rules"
	"staticlint/internal/engine/syntax"
	"staticlint/internal/shared/observability"
	"staticlint/internal/shared/version"
)

// Result is the outcome of one analysis run.
type Result struct {
	RunID         string
	ProjectRoot   string
	Findings      []finding.Finding
	Issues        []finding.Issue
	FilesScanned  int
	ParseFailures int
	Duration      time.Duration
	Notifications []config.Notification
}

// Analyze checks the sources below paths, or below the configured watch
// paths when none are given. Files that fail to read or parse are logged and
// skipped; a rule that cannot be configured fails the run before any file
// is read.
func (a *App) Analyze(ctx context.Context, paths []string) (Result, error) {
	start := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "app.Analyze")
	defer span.End()

	notifications := config.Notifications(a.Config)
	for _, n := range notifications {
		slog.Warn("rule configuration", "key", n.Key, "level", n.Level.String(), "code", n.Code, "message", n.Message)
	}

	engine, err := a.Registry.Instantiate(a.Config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rule configuration")
		return Result{}, err
	}

	if len(paths) == 0 {
		paths = a.Config.WatchPaths
	}
	files, err := a.ScanDirectories(paths)
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("scan sources: %w", err)
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	parsed, failures, err := a.parseAll(ctx, files)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	var res *resolver.Resolver
	if a.Config.Resolution.Enabled.Enabled(true) {
		res = a.buildIndex(ctx, parsed)
	}

	findings, err := a.check(ctx, engine, res, parsed)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	result := Result{
		ProjectRoot:   a.paths.ProjectRoot,
		Findings:      findings,
		Issues:        engine.Issues(),
		FilesScanned:  len(parsed),
		ParseFailures: failures,
		Duration:      time.Since(start),
		Notifications: notifications,
	}
	observability.AnalysisDuration.WithLabelValues("analyze").Observe(result.Duration.Seconds())
	span.SetAttributes(attribute.Int("findings", len(findings)))

	if a.History != nil {
		result.RunID = a.saveRun(ctx, start, result)
	}
	return result, nil
}

func (a *App) parseAll(ctx context.Context, paths []string) ([]*parser.File, int, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.parse", trace.WithAttributes(attribute.Int("files", len(paths))))
	defer span.End()

	parsed := make([]*parser.File, len(paths))
	var failures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("failed to read file", "path", path, "error", err)
				failures.Add(1)
				observability.ParseFailuresTotal.Inc()
				return nil
			}
			begin := time.Now()
			file, err := a.Parser.ParseFile(path, content)
			observability.ParsingDuration.WithLabelValues(a.Parser.GetLanguage(path)).Observe(time.Since(begin).Seconds())
			if err != nil {
				code, _ := domainerrors.CodeOf(err)
				slog.Warn("failed to parse file", "path", path, "code", code, "error", err)
				failures.Add(1)
				observability.ParseFailuresTotal.Inc()
				return nil
			}
			if file.HasErrors {
				slog.Debug("file has syntax errors, using partial result", "path", path)
			}
			observability.FilesAnalyzedTotal.Inc()
			parsed[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]*parser.File, 0, len(parsed))
	for _, f := range parsed {
		if f != nil {
			out = append(out, f)
		}
	}
	return out, int(failures.Load()), nil
}

func (a *App) buildIndex(ctx context.Context, files []*parser.File) *resolver.Resolver {
	_, span := observability.Tracer.Start(ctx, "app.index")
	defer span.End()

	begin := time.Now()
	res := resolver.New(files)
	observability.IndexedTypes.Set(float64(res.Index().Len()))
	observability.AnalysisDuration.WithLabelValues("index").Observe(time.Since(begin).Seconds())
	span.SetAttributes(attribute.Int("types", res.Index().Len()))
	return res
}

// check dispatches every call and declaration node of files. Each file is
// handled by one worker; results are merged and sorted once all are done.
func (a *App) check(ctx context.Context, engine *rules.Engine, res *resolver.Resolver, files []*parser.File) ([]finding.Finding, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.check")
	defer span.End()

	perFile := make([][]finding.Finding, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = checkFile(engine, res, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []finding.Finding
	for _, fs := range perFile {
		out = append(out, fs...)
	}
	sort.SliceStable(out, func(i, j int) bool { return finding.Less(out[i], out[j]) })
	for _, f := range out {
		observability.FindingsTotal.WithLabelValues(f.RuleSet, f.RuleID).Inc()
	}
	return out, nil
}

// checkFile builds the nodes of one file. With a nil resolver every call node
// carries no binding.
func checkFile(engine *rules.Engine, res *resolver.Resolver, file *parser.File) []finding.Finding {
	var out []finding.Finding
	for _, call := range file.Calls {
		var resolved *callsite.ResolvedCall
		if res != nil {
			if rc, ok := res.Resolve(file, call); ok {
				resolved = rc
				observability.CallsResolvedTotal.WithLabelValues("resolved").Inc()
			} else {
				observability.CallsResolvedTotal.WithLabelValues("unresolved").Inc()
			}
		}
		out = append(out, engine.Dispatch(syntax.CallNode(resolved, call.Location))...)
	}
	for _, decl := range resolver.Declarations(file) {
		out = append(out, engine.Dispatch(syntax.DeclarationNode(decl))...)
	}
	return out
}

func (a *App) workers() int {
	if a.Config.Workers > 0 {
		return a.Config.Workers
	}
	return runtime.NumCPU()
}

// saveRun persists the result and prunes old runs. Failures are logged; the
// analysis result stays valid without its history entry.
func (a *App) saveRun(ctx context.Context, start time.Time, result Result) string {
	ctx, span := observability.Tracer.Start(ctx, "app.history")
	defer span.End()

	id, err := a.History.SaveRun(ctx, history.RunRecord{
		Run: history.Run{
			ProjectKey:   a.ProjectKey(),
			StartedAt:    start.UTC(),
			Duration:     result.Duration,
			FilesScanned: result.FilesScanned,
			ToolVersion:  version.Version,
		},
		Findings: result.Findings,
	})
	if err != nil {
		observability.HistoryWriteErrorsTotal.Inc()
		span.RecordError(err)
		slog.Warn("failed to save run history", "error", err)
		return ""
	}
	if removed, err := a.History.Prune(ctx, a.ProjectKey(), a.Config.DB.Retention); err != nil {
		slog.Warn("failed to prune run history", "error", err)
	} else if removed > 0 {
		slog.Debug("pruned run history", "removed", removed)
	}
	return id
}
