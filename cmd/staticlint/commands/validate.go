package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"staticlint/internal/core/config"
	"staticlint/internal/engine/rules/builtin"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without analyzing sources",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	notifications := config.Notifications(cfg)
	for _, n := range notifications {
		fmt.Fprintln(out, n.String())
	}

	if _, err := builtin.Registry().Instantiate(cfg); err != nil {
		return fmt.Errorf("rule configuration: %w", err)
	}
	if config.HasErrors(notifications) {
		var errs []error
		for _, n := range notifications {
			if n.Level == config.LevelError {
				errs = append(errs, n.Err())
			}
		}
		return errors.Join(errs...)
	}
	fmt.Fprintln(out, "configuration OK")
	return nil
}
