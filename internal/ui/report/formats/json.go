package formats

import (
	"encoding/json"

	"staticlint/internal/engine/finding"
	"staticlint/internal/shared/util"
	"staticlint/internal/shared/version"
)

type jsonReport struct {
	Tool         string         `json:"tool"`
	Version      string         `json:"version"`
	FilesScanned int            `json:"files_scanned"`
	DurationMS   int64          `json:"duration_ms"`
	Summary      map[string]int `json:"summary"`
	Findings     []jsonFinding  `json:"findings"`
	Rules        []jsonRule     `json:"rules"`
}

type jsonFinding struct {
	RuleSet     string           `json:"rule_set"`
	RuleID      string           `json:"rule_id"`
	Severity    string           `json:"severity"`
	Message     string           `json:"message"`
	Entity      string           `json:"entity,omitempty"`
	Location    finding.Location `json:"location"`
	DebtMinutes int64            `json:"debt_minutes"`
}

type jsonRule struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Description string `json:"description,omitempty"`
	DebtMinutes int64  `json:"debt_minutes"`
}

// GenerateJSON renders findings with a per-severity summary. Paths are
// relative to the project root.
func GenerateJSON(r Report) ([]byte, error) {
	out := jsonReport{
		Tool:         toolName,
		Version:      version.Version,
		FilesScanned: r.FilesScanned,
		DurationMS:   r.Duration.Milliseconds(),
		Summary:      make(map[string]int),
		Findings:     make([]jsonFinding, 0, len(r.Findings)),
	}
	for _, f := range sortedFindings(r.Findings) {
		loc := f.Location
		loc.File = util.RelativeSlashPath(r.ProjectRoot, loc.File)
		out.Summary[f.Severity.String()]++
		out.Findings = append(out.Findings, jsonFinding{
			RuleSet:     f.RuleSet,
			RuleID:      f.RuleID,
			Severity:    f.Severity.String(),
			Message:     f.Message,
			Entity:      f.Entity,
			Location:    loc,
			DebtMinutes: int64(f.Debt.Minutes()),
		})
	}
	issues, ids := issueIndex(r)
	out.Rules = make([]jsonRule, 0, len(ids))
	for _, id := range ids {
		is := issues[id]
		out.Rules = append(out.Rules, jsonRule{
			ID:          id,
			Severity:    is.Severity.String(),
			Description: is.Description,
			DebtMinutes: int64(is.Debt.Minutes()),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
