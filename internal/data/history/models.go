package history

import (
	"time"

	"staticlint/internal/engine/finding"
)

const SchemaVersion = 1

// Run is one persisted analysis run.
type Run struct {
	ID           string        `json:"id"`
	ProjectKey   string        `json:"project_key"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	FilesScanned int           `json:"files_scanned"`
	FindingCount int           `json:"finding_count"`
	ToolVersion  string        `json:"tool_version"`
}

// RunRecord is what SaveRun persists: the run and the findings it reported.
type RunRecord struct {
	Run      Run
	Findings []finding.Finding
}
