package staticimport

import (
	"staticlint/internal/core/config"
	"staticlint/internal/engine/rules"
)

type Provider struct{}

func (Provider) RuleSetID() string { return RuleSetID }

func (Provider) Instance(cfg *config.Config) (rules.RuleSet, error) {
	if !cfg.Import.Active.Enabled(true) || !cfg.Import.EnforceStaticImport.Active.Enabled(true) {
		return rules.NewRuleSet(RuleSetID), nil
	}
	r, err := Configure(cfg.Import.EnforceStaticImport.Methods.Specs())
	if err != nil {
		return rules.RuleSet{}, err
	}
	return rules.NewRuleSet(RuleSetID, r), nil
}
