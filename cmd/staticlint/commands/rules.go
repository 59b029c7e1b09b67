package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"staticlint/internal/engine/rules/builtin"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules active under the current configuration",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

type ruleInfo struct {
	RuleSet     string `json:"rule_set"`
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	DebtMinutes int64  `json:"debt_minutes"`
	Description string `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := builtin.Registry().Instantiate(cfg)
	if err != nil {
		return err
	}

	var infos []ruleInfo
	for _, rs := range engine.RuleSets() {
		for _, r := range rs.Rules() {
			is := r.Issue()
			infos = append(infos, ruleInfo{
				RuleSet:     rs.ID,
				ID:          is.ID,
				Severity:    is.Severity.String(),
				DebtMinutes: int64(is.Debt.Minutes()),
				Description: is.Description,
			})
		}
	}

	out := cmd.OutOrStdout()
	if flagFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE SET\tRULE\tSEVERITY\tDEBT\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dmin\t%s\n", info.RuleSet, info.ID, info.Severity, info.DebtMinutes, info.Description)
	}
	return w.Flush()
}
