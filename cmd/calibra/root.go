// calibra gates execution of analysis methods: it scores each method
// across up to eight quality layers, fuses the scores per role, and turns
// the result into PASS/FAIL decisions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calibra/internal/config"
	"calibra/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configDir string
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "calibra",
	Short: "Calibration gate for analysis methods",
	Long: "Calibra computes a bounded, auditable confidence score for analysis\n" +
		"methods and gates their execution against configured thresholds.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configDir, "config", "config", "Directory holding the registry documents")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

// configStore builds the lazy store for the configured directory.
func configStore() *config.Store {
	return config.NewStore(rootFlags.configDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
