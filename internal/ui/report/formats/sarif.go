package formats

import (
	"encoding/json"

	"staticlint/internal/engine/finding"
	"staticlint/internal/shared/util"
	"staticlint/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
	toolName     = "staticlint"
	srcRoot      = "%SRCROOT%"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
	Properties       sarifRuleProperties    `json:"properties"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Severity    string `json:"severity"`
	DebtMinutes int64  `json:"debtMinutes,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document. All file URIs are made
// relative to the project root so that reports are safe to share.
func GenerateSARIF(r Report) ([]byte, error) {
	issues, ids := issueIndex(r)
	rules := make([]sarifRule, 0, len(ids))
	ruleIndex := make(map[string]int, len(ids))
	for i, id := range ids {
		is := issues[id]
		desc := is.Description
		if desc == "" {
			desc = id
		}
		ruleIndex[id] = i
		rules = append(rules, sarifRule{
			ID:               id,
			Name:             id,
			ShortDescription: sarifMessage{Text: desc},
			DefaultConfig:    sarifRuleDefaultConfig{Level: sarifLevel(is.Severity)},
			Properties: sarifRuleProperties{
				Severity:    is.Severity.String(),
				DebtMinutes: int64(is.Debt.Minutes()),
			},
		})
	}

	results := make([]sarifResult, 0, len(r.Findings))
	for _, f := range sortedFindings(r.Findings) {
		result := sarifResult{
			RuleID:    f.RuleID,
			RuleIndex: ruleIndex[f.RuleID],
			Level:     sarifLevel(f.Severity),
			Message:   sarifMessage{Text: f.Message},
		}
		if f.Location.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       util.RelativeSlashPath(r.ProjectRoot, f.Location.File),
						URIBaseID: srcRoot,
					},
				},
			}
			if f.Location.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   f.Location.Line,
					StartColumn: f.Location.Column,
					EndLine:     f.Location.EndLine,
					EndColumn:   f.Location.EndColumn,
				}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    toolName,
				Version: version.Version,
				Rules:   rules,
			}},
			Results: results,
		}},
	}
	return json.MarshalIndent(report, "", "  ")
}

func sarifLevel(s finding.Severity) string {
	switch s {
	case finding.SeveritySecurity, finding.SeverityDefect:
		return "error"
	case finding.SeverityWarning, finding.SeverityPerformance, finding.SeverityMaintainability:
		return "warning"
	default:
		return "note"
	}
}
