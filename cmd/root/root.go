// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bill-check/internal/config"
	"bill-check/internal/engine"
	"bill-check/internal/export"
	"bill-check/internal/loader"
	"bill-check/internal/match"
	"bill-check/internal/normalize"
)

// CommonFlags represents the flags that are shared by multiple commands
type CommonFlags struct {
	Output string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the effective configuration, loaded before any command runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bill-check",
		Short: "Validate a medical bill list against its supporting documents.",
		Long: `bill-check cross-checks each entry of an extracted medical bill list
against extracted supporting documents (receipts, prescriptions, invoices)
and reports full, partial and missing matches.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bill-check!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			Cfg, err = config.Load()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Log = config.ConfigureLogging(Cfg)

			// Hand the configured logger to every logging package.
			normalize.SetLogger(Log)
			match.SetLogger(Log)
			engine.SetLogger(Log)
			loader.SetLogger(Log)
			export.SetLogger(Log)
		},
	}

	// SharedFlags holds common flag values accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Report format: json or csv (default: configured output format)")
}
