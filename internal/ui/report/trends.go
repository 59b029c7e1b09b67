// Package report renders run history and run-to-run comparisons.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"staticlint/internal/data/history"
	"staticlint/internal/shared/util"
)

// TrendPoint is one run with the change in finding count against the run
// before it.
type TrendPoint struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	DurationMS   int64     `json:"duration_ms"`
	FilesScanned int       `json:"files_scanned"`
	Findings     int       `json:"findings"`
	Delta        int       `json:"delta"`
	ToolVersion  string    `json:"tool_version"`
}

// Trend orders runs oldest first and computes deltas. LoadRuns returns
// newest first; any order is accepted.
func Trend(runs []history.Run) []TrendPoint {
	ordered := append([]history.Run(nil), runs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartedAt.Before(ordered[j].StartedAt)
	})

	points := make([]TrendPoint, 0, len(ordered))
	for i, run := range ordered {
		p := TrendPoint{
			RunID:        run.ID,
			StartedAt:    run.StartedAt,
			DurationMS:   run.Duration.Milliseconds(),
			FilesScanned: run.FilesScanned,
			Findings:     run.FindingCount,
			ToolVersion:  run.ToolVersion,
		}
		if i > 0 {
			p.Delta = run.FindingCount - ordered[i-1].FindingCount
		}
		points = append(points, p)
	}
	return points
}

func RenderTrendTSV(points []TrendPoint) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tFiles\tFindings\tDelta\tDurationMS\tVersion\n")
	for _, p := range points {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%+d\t%d\t%s\n",
			p.StartedAt.Format(time.RFC3339),
			p.RunID,
			p.FilesScanned,
			p.Findings,
			p.Delta,
			p.DurationMS,
			p.ToolVersion,
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(points []TrendPoint) ([]byte, error) {
	return json.MarshalIndent(points, "", "  ")
}

// RenderDiff lists new findings with a "+" and fixed ones with a "-".
func RenderDiff(projectRoot string, diff history.Diff) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d new, %d fixed\n", len(diff.New), len(diff.Fixed))
	for _, f := range diff.New {
		fmt.Fprintf(&buf, "+ %s:%d:%d %s/%s %s\n",
			util.RelativeSlashPath(projectRoot, f.Location.File), f.Location.Line, f.Location.Column,
			f.RuleSet, f.RuleID, f.Message)
	}
	for _, f := range diff.Fixed {
		fmt.Fprintf(&buf, "- %s:%d:%d %s/%s %s\n",
			util.RelativeSlashPath(projectRoot, f.Location.File), f.Location.Line, f.Location.Column,
			f.RuleSet, f.RuleID, f.Message)
	}
	return []byte(buf.String())
}
