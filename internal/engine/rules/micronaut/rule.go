// Package micronaut checks that HTTP endpoint methods declare who may call
// them.
package micronaut

import (
	"fmt"
	"strings"
	"time"

	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/syntax"
)

const (
	RuleSetID = "micronaut"
	RuleID    = "RequireSecuredAnnotation"
)

var issue = finding.Issue{
	ID:          RuleID,
	Severity:    finding.SeveritySecurity,
	Description: "Micronaut endpoints must declare a security annotation.",
	Debt:        5 * time.Minute,
}

type Rule struct {
	markers     map[string]struct{}
	required    map[string]struct{}
	requirement string
}

// Configure takes short annotation names. Order of required is kept for the
// message.
func Configure(markers, required []string) *Rule {
	r := &Rule{
		markers:  toSet(markers),
		required: toSet(required),
	}
	r.requirement = describe(required)
	return r
}

func (r *Rule) Issue() finding.Issue { return issue }

func (r *Rule) Kinds() []syntax.NodeKind {
	return []syntax.NodeKind{syntax.NodeFunctionDeclaration}
}

func (r *Rule) Visit(node syntax.Node) (finding.Finding, bool) {
	if node.Kind != syntax.NodeFunctionDeclaration || node.Decl == nil {
		return finding.Finding{}, false
	}
	decl := *node.Decl
	if !decl.HasAnnotation(r.markers) || decl.HasAnnotation(r.required) {
		return finding.Finding{}, false
	}

	name := decl.Name
	if name == "" {
		name = "unknown"
	}
	msg := fmt.Sprintf("Endpoint method '%s' must have a security annotation.", name)
	if r.requirement != "" {
		msg = fmt.Sprintf("Endpoint method '%s' must have a security annotation (%s).", name, r.requirement)
	}
	entity := name
	if decl.Owner != "" {
		entity = decl.Owner + "." + name
	}
	return finding.Finding{
		RuleID:   RuleID,
		Severity: issue.Severity,
		Message:  msg,
		Entity:   entity,
		Location: decl.Location,
		Debt:     issue.Debt,
	}, true
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// describe renders "@A", "@A or @B" or "@A, @B, or @C".
func describe(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, "@"+n)
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " or " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
	}
}
