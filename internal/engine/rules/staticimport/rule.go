// Package staticimport reports calls to configured functions that are written
// with an explicit receiver instead of being statically imported.
package staticimport

import (
	"fmt"
	"strings"
	"time"

	domainerrors "staticlint/internal/core/errors"
	"staticlint/internal/engine/callsite"
	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/signature"
	"staticlint/internal/engine/syntax"
)

const (
	RuleSetID = "import"
	RuleID    = "EnforceStaticImport"
)

var issue = finding.Issue{
	ID:          RuleID,
	Severity:    finding.SeverityStyle,
	Description: "Method should be imported statically.",
	Debt:        10 * time.Minute,
}

type Rule struct {
	matchers []signature.Matcher
}

// Configure parses every non-blank spec. A malformed spec fails the whole
// configuration.
func Configure(specs []string) (*Rule, error) {
	r := &Rule{}
	for _, spec := range specs {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		m, err := signature.Parse(spec)
		if err != nil {
			return nil, domainerrors.AddContext(err, domainerrors.CtxRule, RuleID)
		}
		r.matchers = append(r.matchers, m)
	}
	return r, nil
}

func (r *Rule) Matchers() []signature.Matcher {
	return append([]signature.Matcher(nil), r.matchers...)
}

func (r *Rule) Issue() finding.Issue { return issue }

func (r *Rule) Kinds() []syntax.NodeKind { return []syntax.NodeKind{syntax.NodeCall} }

// Visit reports at most one finding per call: the first candidate, in
// candidate order, that any matcher accepts.
func (r *Rule) Visit(node syntax.Node) (finding.Finding, bool) {
	if node.Kind != syntax.NodeCall || node.Call == nil || len(r.matchers) == 0 {
		return finding.Finding{}, false
	}
	call := *node.Call
	if !call.HasExplicitReceiver {
		return finding.Finding{}, false
	}

	symbols := callsite.Symbols(call)
	for i, candidate := range callsite.Candidates(call) {
		for _, m := range r.matchers {
			if !m.Matches(candidate) {
				continue
			}
			loc := call.Location
			if loc.Line == 0 {
				loc = node.Location
			}
			return finding.Finding{
				RuleID:   RuleID,
				Severity: issue.Severity,
				Message:  fmt.Sprintf("%s needs to be statically imported.", m),
				Entity:   symbols[i].String(),
				Location: loc,
				Debt:     issue.Debt,
			}, true
		}
	}
	return finding.Finding{}, false
}
