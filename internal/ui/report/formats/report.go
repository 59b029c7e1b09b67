// Package formats renders analysis findings for terminals, files and CI
// integrations.
package formats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"staticlint/internal/engine/finding"
	"staticlint/internal/shared/util"
)

// Report is the input shared by every format. File paths in findings may be
// absolute; generators make them relative to ProjectRoot.
type Report struct {
	ProjectRoot  string
	Findings     []finding.Finding
	Issues       []finding.Issue
	FilesScanned int
	Duration     time.Duration
}

const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
	FormatTSV      = "tsv"
)

// Names lists the supported format names in a stable order.
func Names() []string {
	return []string{FormatJSON, FormatSARIF, FormatTerminal, FormatTSV}
}

// Generate renders r in the named format. Terminal output is produced
// without color; use TerminalFormatter directly to control styling.
func Generate(format string, r Report) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return GenerateJSON(r)
	case FormatSARIF:
		return GenerateSARIF(r)
	case FormatTSV:
		return []byte(GenerateTSV(r)), nil
	case FormatTerminal:
		return []byte(TerminalFormatter{NoColor: true}.Render(r)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(Names(), ", "))
	}
}

// issueIndex maps rule ids to their issue, adding a placeholder for rules
// that only appear in findings.
func issueIndex(r Report) (map[string]finding.Issue, []string) {
	byID := make(map[string]finding.Issue, len(r.Issues))
	for _, is := range r.Issues {
		byID[is.ID] = is
	}
	for _, f := range r.Findings {
		if _, ok := byID[f.RuleID]; !ok {
			byID[f.RuleID] = finding.Issue{ID: f.RuleID, Severity: f.Severity}
		}
	}
	return byID, util.SortedStringKeys(byID)
}

func sortedFindings(findings []finding.Finding) []finding.Finding {
	out := append([]finding.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool { return finding.Less(out[i], out[j]) })
	return out
}
