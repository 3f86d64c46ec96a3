// Package classify turns a matched (or unmatched) candidate into the final
// per-entry verdict.
package classify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bill-check/internal/config"
	"bill-check/internal/match"
	"bill-check/internal/models"
	"bill-check/internal/score"
)

// NoDocumentNote is the note attached to entries with no supporting
// document above the acceptance threshold.
const NoDocumentNote = "No supporting document found"

// Classifier decides the outcome category for a bill entry and compiles the
// human-readable mismatch list. A matched document with a wrong amount is
// actionable evidence of a discrepancy and is kept distinct from having no
// evidence at all.
type Classifier struct {
	cfg config.Matching
}

// New creates a Classifier with the given thresholds.
func New(cfg config.Matching) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify produces the ValidationResult for one bill entry and its best
// candidate; cand is nil when the matcher accepted nothing.
func (c *Classifier) Classify(entry *models.BillEntry, cand *match.Candidate) models.ValidationResult {
	result := models.ValidationResult{BillEntry: *entry}

	if cand == nil {
		result.Status = models.StatusNotMatched
		result.Color = result.Status.Color()
		result.Notes = NoDocumentNote
		return result
	}

	doc := cand.Document
	result.MatchedDocument = doc
	result.OverallScore = cand.Overall

	result.BillReferenceMatches = cand.Reference.Applicable && cand.Reference.Value >= c.cfg.ReferenceThreshold
	result.AmountMatches = cand.Amount.Applicable && c.amountWithinTolerance(entry.Amount, doc.Amount)
	result.DateMatches = cand.Date.Applicable &&
		score.DayDistance(*entry.BillDate, *doc.DocumentDate) <= c.cfg.DateToleranceDays

	var mismatches []string
	var notes []string

	if cand.Reference.Applicable {
		if !result.BillReferenceMatches {
			mismatches = append(mismatches, fmt.Sprintf(
				"Bill number mismatch: expected %s, found %s", entry.BillReference, doc.BillReference))
		}
	} else {
		notes = append(notes, "Bill number missing from supporting document")
	}

	if cand.Amount.Applicable {
		if !result.AmountMatches {
			mismatches = append(mismatches, fmt.Sprintf(
				"Amount mismatch: expected %s, found %s",
				entry.Amount.StringFixed(2), doc.Amount.StringFixed(2)))
		}
	} else {
		notes = append(notes, "Amount missing from supporting document")
	}

	if cand.Date.Applicable {
		if !result.DateMatches {
			mismatches = append(mismatches, fmt.Sprintf(
				"Date mismatch: expected %s, found %s",
				entry.BillDate.Format("2006-01-02"), doc.DocumentDate.Format("2006-01-02")))
		}
	}
	// An absent date on either side is simply not compared; corroboration
	// only requires reference and amount evidence.

	dateOK := result.DateMatches || !cand.Date.Applicable
	if result.BillReferenceMatches && result.AmountMatches && dateOK {
		result.Status = models.StatusMatched
	} else {
		result.Status = models.StatusPartialMatch
	}
	result.Color = result.Status.Color()
	result.MismatchDescriptions = mismatches
	result.Notes = strings.Join(notes, "; ")

	return result
}

func (c *Classifier) amountWithinTolerance(a decimal.Decimal, b *decimal.Decimal) bool {
	diff := a.Sub(*b).Abs()
	tolerance := decimal.Max(a, *b).Mul(decimal.NewFromFloat(c.cfg.AmountTolerancePct)).Div(decimal.NewFromInt(100))
	return diff.LessThanOrEqual(tolerance)
}
