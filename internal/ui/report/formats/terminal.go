package formats

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"staticlint/internal/engine/finding"
	"staticlint/internal/shared/util"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// TerminalFormatter groups findings by file for reading in a terminal.
type TerminalFormatter struct {
	NoColor bool
}

func (t TerminalFormatter) paint(style lipgloss.Style, text string) string {
	if t.NoColor {
		return text
	}
	return style.Render(text)
}

func (t TerminalFormatter) severityStyle(s finding.Severity) lipgloss.Style {
	switch sarifLevel(s) {
	case "error":
		return errorStyle
	case "warning":
		return warningStyle
	default:
		return noteStyle
	}
}

// Render returns the full report text.
func (t TerminalFormatter) Render(r Report) string {
	var b strings.Builder
	b.WriteString(t.paint(titleStyle, "staticlint"))
	b.WriteString("\n")

	findings := sortedFindings(r.Findings)
	currentFile := ""
	for _, f := range findings {
		file := util.RelativeSlashPath(r.ProjectRoot, f.Location.File)
		if file != currentFile {
			currentFile = file
			b.WriteString("\n")
			b.WriteString(t.paint(fileStyle, file))
			b.WriteString("\n")
		}
		sev := t.paint(t.severityStyle(f.Severity), fmt.Sprintf("%-15s", f.Severity))
		fmt.Fprintf(&b, "  %4d:%-4d %s %s %s\n",
			f.Location.Line, f.Location.Column, sev, f.Message,
			t.paint(statusStyle, f.RuleSet+"/"+f.RuleID))
	}

	b.WriteString("\n")
	if len(findings) == 0 {
		b.WriteString(t.paint(successStyle, "No findings."))
	} else {
		b.WriteString(t.summary(findings))
	}
	b.WriteString("\n")
	b.WriteString(t.paint(statusStyle, fmt.Sprintf("%d files scanned in %s", r.FilesScanned, r.Duration.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}

func (t TerminalFormatter) summary(findings []finding.Finding) string {
	counts := make(map[finding.Severity]int)
	for _, f := range findings {
		counts[f.Severity]++
	}
	parts := make([]string, 0, len(counts))
	for s := finding.SeveritySecurity; s >= finding.SeverityMinor; s-- {
		if n := counts[s]; n > 0 {
			parts = append(parts, t.paint(t.severityStyle(s), fmt.Sprintf("%d %s", n, s)))
		}
	}
	noun := "findings"
	if len(findings) == 1 {
		noun = "finding"
	}
	return fmt.Sprintf("%d %s: %s", len(findings), noun, strings.Join(parts, ", "))
}
