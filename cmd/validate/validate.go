// Package validate handles the bill validation command
package validate

import (
	"github.com/spf13/cobra"

	"bill-check/cmd/root"
	"bill-check/internal/engine"
	"bill-check/internal/export"
	"bill-check/internal/loader"
	"bill-check/internal/models"
)

var (
	billsFile string
	docsFile  string
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a bill list against supporting documents",
	Long: `Validate reads the extracted bill list and supporting document records
(JSON or CSV), matches every bill entry against the document pool and writes
the validation report.`,
	Run: validateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&billsFile, "bills", "b", "", "Extracted bill list file (JSON or CSV)")
	Cmd.Flags().StringVarP(&docsFile, "docs", "d", "", "Extracted supporting document records file (JSON or CSV)")
	_ = Cmd.MarkFlagRequired("bills")
}

func validateFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Bill validation command called")
	root.Log.Infof("Bill list file: %s", billsFile)
	root.Log.Infof("Supporting documents file: %s", docsFile)

	entries, err := loader.LoadBillEntries(billsFile)
	if err != nil {
		root.Log.Fatalf("Error loading bill entries: %v", err)
	}

	var docs []models.SupportingDocument
	if docsFile != "" {
		docs, err = loader.LoadSupportingDocuments(docsFile)
		if err != nil {
			root.Log.Fatalf("Error loading supporting documents: %v", err)
		}
	} else {
		root.Log.Warn("No supporting documents file given, every entry will be unmatched")
	}

	eng := engine.New(root.Cfg.Matching, root.Cfg.Engine.Workers)
	report, err := eng.Validate(entries, docs)
	if err != nil {
		root.Log.Fatalf("Validation failed: %v", err)
	}

	format := root.SharedFlags.Format
	if format == "" {
		format = root.Cfg.Output.Format
	}
	if err := export.Write(report, format, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Error writing report: %v", err)
	}
	root.Log.Info("Bill validation completed successfully!")
}
