package commands

import (
	"os"

	"github.com/spf13/cobra"

	"staticlint/internal/ui/cli"
)

var (
	flagConfig       string
	flagFormat       string
	flagOutput       string
	flagWorkers      int
	flagNoColor      bool
	flagVerbose      bool
	flagIncludeTests bool
)

var rootCmd = &cobra.Command{
	Use:          "staticlint",
	Short:        "Static checks for Java sources",
	Long:         `staticlint parses Java sources, binds method calls to the declarations they invoke and reports calls that should be statically imported and Micronaut endpoints without a security annotation.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.ConfigureLogging(os.Stderr, flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default: staticlint.toml, staticlint.yml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format (terminal, json, sarif, tsv)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIncludeTests, "include-tests", false, "Also analyze test sources")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
