package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"staticlint/internal/shared/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "staticlint %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
