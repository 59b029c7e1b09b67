// Package ports declares the boundaries between the app layer and its
// adapters.
package ports

import (
	"context"
	"time"

	"staticlint/internal/data/history"
	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/parser"
)

// CodeParser abstracts source parsing and language-file support checks.
type CodeParser interface {
	ParseFile(path string, content []byte) (*parser.File, error)
	GetLanguage(path string) string
	IsSupportedPath(filePath string) bool
	IsTestFile(path string) bool
	SupportedExtensions() []string
	Leases(now time.Time) (int, time.Duration)
}

// HistoryStore abstracts run persistence for trend and diff workflows.
type HistoryStore interface {
	SaveRun(ctx context.Context, record history.RunRecord) (string, error)
	LoadRuns(ctx context.Context, projectKey string, limit int) ([]history.Run, error)
	LoadFindings(ctx context.Context, runID string) ([]finding.Finding, error)
	Prune(ctx context.Context, projectKey string, keep int) (int, error)
	Close() error
}
