package finding

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies how a finding should be treated by consumers.
type Severity int

const (
	SeverityMinor Severity = iota
	SeverityStyle
	SeverityMaintainability
	SeverityWarning
	SeverityPerformance
	SeverityDefect
	SeveritySecurity
)

var severityNames = map[Severity]string{
	SeverityMinor:           "minor",
	SeverityStyle:           "style",
	SeverityMaintainability: "maintainability",
	SeverityWarning:         "warning",
	SeverityPerformance:     "performance",
	SeverityDefect:          "defect",
	SeveritySecurity:        "security",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSeverity accepts the lowercase names produced by String.
func ParseSeverity(s string) (Severity, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for sev, name := range severityNames {
		if name == key {
			return sev, nil
		}
	}
	return SeverityMinor, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	parsed, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Location is a 1-based source position range.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Issue describes a rule independent of any particular finding.
type Issue struct {
	ID          string
	Severity    Severity
	Description string
	Debt        time.Duration
}

type Finding struct {
	RuleSet  string        `json:"rule_set"`
	RuleID   string        `json:"rule_id"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Entity   string        `json:"entity,omitempty"`
	Location Location      `json:"location"`
	Debt     time.Duration `json:"debt"`
}

// Less orders findings by file, position and rule.
func Less(a, b Finding) bool {
	if a.Location.File != b.Location.File {
		return a.Location.File < b.Location.File
	}
	if a.Location.Line != b.Location.Line {
		return a.Location.Line < b.Location.Line
	}
	if a.Location.Column != b.Location.Column {
		return a.Location.Column < b.Location.Column
	}
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	return a.Message < b.Message
}

// AtLeast reports whether any finding has severity s or higher.
func AtLeast(findings []Finding, s Severity) bool {
	for _, f := range findings {
		if f.Severity >= s {
			return true
		}
	}
	return false
}
