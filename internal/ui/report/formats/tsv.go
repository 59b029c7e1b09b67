package formats

import (
	"fmt"
	"strings"

	"staticlint/internal/shared/util"
)

// GenerateTSV renders one finding per row. Tabs and newlines inside
// messages are replaced by spaces.
func GenerateTSV(r Report) string {
	var buf strings.Builder

	buf.WriteString("RuleSet\tRule\tSeverity\tFile\tLine\tColumn\tEntity\tMessage\n")
	for _, f := range sortedFindings(r.Findings) {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			f.RuleSet,
			f.RuleID,
			f.Severity,
			util.RelativeSlashPath(r.ProjectRoot, f.Location.File),
			f.Location.Line,
			f.Location.Column,
			tsvField(f.Entity),
			tsvField(f.Message),
		))
	}

	return buf.String()
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ")

func tsvField(s string) string {
	return tsvReplacer.Replace(s)
}
