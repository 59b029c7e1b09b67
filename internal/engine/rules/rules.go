// Package rules defines the rule plugin contract and dispatches syntax nodes
// to the rules interested in them.
package rules

import (
	"fmt"
	"sort"

	"staticlint/internal/core/config"
	domainerrors "staticlint/internal/core/errors"
	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/syntax"
)

// Rule inspects one kind of node at a time. Implementations are immutable
// after construction and Visit must be safe for concurrent use.
type Rule interface {
	Issue() finding.Issue
	Kinds() []syntax.NodeKind
	Visit(node syntax.Node) (finding.Finding, bool)
}

// RuleSet groups the active rules of one provider.
type RuleSet struct {
	ID     string
	rules  []Rule
	byKind map[syntax.NodeKind][]Rule
}

func NewRuleSet(id string, rules ...Rule) RuleSet {
	rs := RuleSet{ID: id, byKind: make(map[syntax.NodeKind][]Rule)}
	for _, r := range rules {
		if r == nil {
			continue
		}
		rs.rules = append(rs.rules, r)
		for _, kind := range r.Kinds() {
			rs.byKind[kind] = append(rs.byKind[kind], r)
		}
	}
	return rs
}

func (rs RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

func (rs RuleSet) Empty() bool { return len(rs.rules) == 0 }

// Dispatch hands node to every rule registered for its kind.
func (rs RuleSet) Dispatch(node syntax.Node) []finding.Finding {
	var out []finding.Finding
	for _, r := range rs.byKind[node.Kind] {
		f, ok := r.Visit(node)
		if !ok {
			continue
		}
		f.RuleSet = rs.ID
		if f.RuleID == "" {
			f.RuleID = r.Issue().ID
		}
		out = append(out, f)
	}
	return out
}

// Provider builds a RuleSet from configuration. Inactive rules are left out.
type Provider interface {
	RuleSetID() string
	Instance(cfg *config.Config) (RuleSet, error)
}

// Registry holds the known providers in registration order.
type Registry struct {
	providers []Provider
	ids       map[string]bool
}

func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{ids: make(map[string]bool)}
	for _, p := range providers {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(p Provider) error {
	id := p.RuleSetID()
	if r.ids[id] {
		return fmt.Errorf("rule set %q registered twice", id)
	}
	r.ids[id] = true
	r.providers = append(r.providers, p)
	return nil
}

func (r *Registry) Providers() []Provider {
	return append([]Provider(nil), r.providers...)
}

// Instantiate builds every rule set. A rule that cannot be configured aborts
// the whole run before any file is analysed.
func (r *Registry) Instantiate(cfg *config.Config) (*Engine, error) {
	sets := make([]RuleSet, 0, len(r.providers))
	for _, p := range r.providers {
		rs, err := p.Instance(cfg)
		if err != nil {
			return nil, domainerrors.AddContext(err, "rule_set", p.RuleSetID())
		}
		if rs.Empty() {
			continue
		}
		sets = append(sets, rs)
	}
	return NewEngine(sets...), nil
}

// Engine dispatches nodes to all instantiated rule sets.
type Engine struct {
	sets []RuleSet
}

func NewEngine(sets ...RuleSet) *Engine {
	return &Engine{sets: sets}
}

func (e *Engine) RuleSets() []RuleSet {
	return append([]RuleSet(nil), e.sets...)
}

// Issues lists the issues of all active rules, ordered by rule id.
func (e *Engine) Issues() []finding.Issue {
	var out []finding.Issue
	for _, rs := range e.sets {
		for _, r := range rs.rules {
			out = append(out, r.Issue())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *Engine) Dispatch(node syntax.Node) []finding.Finding {
	var out []finding.Finding
	for _, rs := range e.sets {
		out = append(out, rs.Dispatch(node)...)
	}
	return out
}
