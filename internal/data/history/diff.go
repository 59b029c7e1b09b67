package history

import (
	"sort"

	"staticlint/internal/engine/finding"
)

// Diff compares the findings of two runs. Findings are matched by rule,
// file, entity and message so that edits shifting lines do not count as new.
type Diff struct {
	New   []finding.Finding `json:"new"`
	Fixed []finding.Finding `json:"fixed"`
}

func DiffFindings(before, after []finding.Finding) Diff {
	remaining := make(map[string]int, len(before))
	for _, f := range before {
		remaining[diffKey(f)]++
	}

	var diff Diff
	for _, f := range after {
		key := diffKey(f)
		if remaining[key] > 0 {
			remaining[key]--
			continue
		}
		diff.New = append(diff.New, f)
	}

	seen := make(map[string]int, len(after))
	for _, f := range after {
		seen[diffKey(f)]++
	}
	for _, f := range before {
		key := diffKey(f)
		if seen[key] > 0 {
			seen[key]--
			continue
		}
		diff.Fixed = append(diff.Fixed, f)
	}

	sort.SliceStable(diff.New, func(i, j int) bool { return finding.Less(diff.New[i], diff.New[j]) })
	sort.SliceStable(diff.Fixed, func(i, j int) bool { return finding.Less(diff.Fixed[i], diff.Fixed[j]) })
	return diff
}

func diffKey(f finding.Finding) string {
	return f.RuleSet + "\x00" + f.RuleID + "\x00" + f.Location.File + "\x00" + f.Entity + "\x00" + f.Message
}
