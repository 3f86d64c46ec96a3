// Package models defines the data types exchanged between the extraction
// boundary, the matching engine and the presentation layer.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus is the per-entry validation outcome.
type MatchStatus string

const (
	// StatusMatched indicates the bill entry is fully corroborated by a
	// supporting document (green).
	StatusMatched MatchStatus = "matched"
	// StatusPartialMatch indicates a supporting document was found but at
	// least one field disagrees (orange).
	StatusPartialMatch MatchStatus = "partial"
	// StatusNotMatched indicates no supporting document was found (red).
	StatusNotMatched MatchStatus = "not_matched"
)

// Color returns the display color associated with the status.
func (s MatchStatus) Color() string {
	switch s {
	case StatusMatched:
		return "green"
	case StatusPartialMatch:
		return "orange"
	default:
		return "red"
	}
}

// BillEntry is one line item from the bill list. Entries are built once per
// validation run and never mutated afterwards.
type BillEntry struct {
	SequenceNumber int             `json:"sequence_number"`
	BillReference  string          `json:"bill_reference"`
	BillDate       *time.Time      `json:"bill_date,omitempty"`
	Amount         decimal.Decimal `json:"amount"`

	// Display metadata, carried through untouched and never used in matching.
	Classification string `json:"classification,omitempty"`
	TreatmentType  string `json:"treatment_type,omitempty"`
	AccountCode    string `json:"account_code,omitempty"`
	Description    string `json:"description,omitempty"`

	// Pass-through approval amounts from the bill list, if present.
	MedPassAmount        *decimal.Decimal `json:"med_pass_amount,omitempty"`
	FinPassAmountTaxable *decimal.Decimal `json:"fin_pass_amount_taxable,omitempty"`
	FinPassNonTaxable    *decimal.Decimal `json:"fin_pass_non_taxable,omitempty"`
}

// SupportingDocument is one extracted record from a supporting file
// (receipt, prescription, invoice). Any of the comparison fields may be
// absent when the extraction collaborator could not find them; absence is
// distinct from a mismatch.
type SupportingDocument struct {
	Filename      string           `json:"filename"`
	BillReference string           `json:"bill_reference,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	DocumentDate  *time.Time       `json:"document_date,omitempty"`

	// Audit and display fields, never used in scoring.
	PatientName     string   `json:"patient_name,omitempty"`
	HospitalName    string   `json:"hospital_name,omitempty"`
	ExtractedText   string   `json:"extracted_text,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	DocumentType    string   `json:"document_type,omitempty"`
}

// HasReference reports whether the extraction found a bill reference.
func (d *SupportingDocument) HasReference() bool {
	return d.BillReference != ""
}

// HasAmount reports whether the extraction found an amount.
func (d *SupportingDocument) HasAmount() bool {
	return d.Amount != nil
}

// HasDate reports whether the extraction found a document date.
func (d *SupportingDocument) HasDate() bool {
	return d.DocumentDate != nil
}
