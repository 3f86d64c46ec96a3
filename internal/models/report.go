package models

import (
	"time"

	"github.com/google/uuid"
)

// ValidationResult is the verdict for a single bill entry.
type ValidationResult struct {
	BillEntry       BillEntry           `json:"bill_entry"`
	Status          MatchStatus         `json:"status"`
	Color           string              `json:"color"`
	MatchedDocument *SupportingDocument `json:"matched_document,omitempty"`
	OverallScore    float64             `json:"overall_score"`

	BillReferenceMatches bool `json:"bill_reference_matches"`
	AmountMatches        bool `json:"amount_matches"`
	DateMatches          bool `json:"date_matches"`

	// MismatchDescriptions lists every comparison dimension that failed,
	// with both values. Absent fields are reported in Notes, never here.
	MismatchDescriptions []string `json:"mismatches,omitempty"`
	Notes                string   `json:"notes,omitempty"`
}

// Summary aggregates the per-entry outcomes of one validation run.
type Summary struct {
	Total        int     `json:"total"`
	FullMatch    int     `json:"full_match"`
	PartialMatch int     `json:"partial_match"`
	NoMatch      int     `json:"no_match"`
	// ReusedDocuments counts supporting documents chosen by more than one
	// bill entry. One receipt may legitimately cover several line items.
	ReusedDocuments int `json:"reused_documents"`

	ProcessingSeconds float64   `json:"processing_seconds"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// ValidationReport is the aggregate result of validating all bill entries
// against the supporting document pool. Results keep the input entry order.
type ValidationReport struct {
	ReportID            string               `json:"report_id"`
	Summary             Summary              `json:"summary"`
	Results             []ValidationResult   `json:"results"`
	SupportingDocuments []SupportingDocument `json:"supporting_documents"`
}

// NewValidationReport creates an empty report with a generated ID.
func NewValidationReport(documents []SupportingDocument) *ValidationReport {
	return &ValidationReport{
		ReportID:            uuid.New().String(),
		Results:             []ValidationResult{},
		SupportingDocuments: documents,
	}
}
