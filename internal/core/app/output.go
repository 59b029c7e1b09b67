package app

import (
	"fmt"
	"log/slog"

	"staticlint/internal/core/app/helpers"
	"staticlint/internal/ui/report/formats"
)

// Report converts a result into the input of the report formats.
func (r Result) Report() formats.Report {
	return formats.Report{
		ProjectRoot:  r.ProjectRoot,
		Findings:     r.Findings,
		Issues:       r.Issues,
		FilesScanned: r.FilesScanned,
		Duration:     r.Duration,
	}
}

// WriteOutputs writes every report file configured under [output] and
// returns the paths written. Relative paths are anchored at the project root.
func (a *App) WriteOutputs(result Result) ([]string, error) {
	targets := []struct {
		format string
		path   string
	}{
		{formats.FormatSARIF, a.Config.Output.SARIF},
		{formats.FormatJSON, a.Config.Output.JSON},
		{formats.FormatTSV, a.Config.Output.TSV},
	}

	var written []string
	for _, t := range targets {
		path := helpers.ResolveOutputPath(t.path, a.paths.ProjectRoot)
		if path == "" {
			continue
		}
		data, err := formats.Generate(t.format, result.Report())
		if err != nil {
			return written, fmt.Errorf("render %s report: %w", t.format, err)
		}
		if err := helpers.WriteArtifact(path, data); err != nil {
			return written, fmt.Errorf("write %s report %s: %w", t.format, path, err)
		}
		slog.Debug("report written", "format", t.format, "path", path)
		written = append(written, path)
	}
	return written, nil
}
