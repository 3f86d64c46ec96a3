// Package validator provides a stable embedding API over the validation
// core: load the two extracted collections, run the engine, export the
// report. The CLI uses the internal packages directly; this facade is for
// programs that embed bill-check.
package validator

import (
	"bill-check/internal/config"
	"bill-check/internal/engine"
	"bill-check/internal/export"
	"bill-check/internal/loader"
	"bill-check/internal/models"
)

// Validator validates bill entries against supporting documents using a
// fixed configuration. Safe for concurrent use; each call is a
// self-contained computation with no shared mutable state.
type Validator struct {
	engine *engine.Engine
}

// New creates a Validator from an application configuration.
func New(cfg *config.Config) *Validator {
	return &Validator{engine: engine.New(cfg.Matching, cfg.Engine.Workers)}
}

// NewWithDefaults creates a Validator with the default matching thresholds
// and the sequential engine.
func NewWithDefaults() *Validator {
	return &Validator{engine: engine.New(config.DefaultMatching(), 0)}
}

// Validate runs the full validation pass over in-memory collections.
func (v *Validator) Validate(entries []models.BillEntry, documents []models.SupportingDocument) (*models.ValidationReport, error) {
	return v.engine.Validate(entries, documents)
}

// ValidateFiles loads both collections from disk (JSON or CSV, by
// extension) and validates them. docsPath may be empty for an empty pool.
func (v *Validator) ValidateFiles(billsPath, docsPath string) (*models.ValidationReport, error) {
	entries, err := loader.LoadBillEntries(billsPath)
	if err != nil {
		return nil, err
	}
	var documents []models.SupportingDocument
	if docsPath != "" {
		documents, err = loader.LoadSupportingDocuments(docsPath)
		if err != nil {
			return nil, err
		}
	}
	return v.engine.Validate(entries, documents)
}

// Export renders a report as "json" or "csv".
func Export(report *models.ValidationReport, format string) ([]byte, error) {
	return export.Generate(report, format)
}
