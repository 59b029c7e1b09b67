package micronaut

import (
	"staticlint/internal/core/config"
	"staticlint/internal/engine/rules"
)

type Provider struct{}

func (Provider) RuleSetID() string { return RuleSetID }

func (Provider) Instance(cfg *config.Config) (rules.RuleSet, error) {
	sec := cfg.Micronaut.RequireSecuredAnnotation
	if !cfg.Micronaut.Active.Enabled(true) || !sec.Active.Enabled(true) {
		return rules.NewRuleSet(RuleSetID), nil
	}
	return rules.NewRuleSet(RuleSetID, Configure(sec.EndpointAnnotations, sec.SecurityAnnotations)), nil
}
