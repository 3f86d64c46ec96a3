// Package export serializes validation reports for the presentation layer.
// Every field flattens to a plain key-value form; nothing in a report is an
// opaque handle.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"bill-check/internal/models"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// resultRow is the flat CSV projection of one validation result.
type resultRow struct {
	SequenceNumber  int     `csv:"si_no"`
	BillReference   string  `csv:"bill_reference"`
	BillDate        string  `csv:"bill_date"`
	Amount          string  `csv:"amount"`
	Status          string  `csv:"status"`
	Color           string  `csv:"color"`
	MatchedDocument string  `csv:"matched_document"`
	OverallScore    float64 `csv:"overall_score"`
	ReferenceMatch  bool    `csv:"bill_reference_matches"`
	AmountMatch     bool    `csv:"amount_matches"`
	DateMatch       bool    `csv:"date_matches"`
	Mismatches      string  `csv:"mismatches"`
	Notes           string  `csv:"notes"`
}

// Generate renders the report in the requested format ("json" or "csv").
func Generate(report *models.ValidationReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return generateJSON(report)
	case "csv":
		return generateCSV(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Write renders the report and writes it to path, or to stdout when path
// is empty.
func Write(report *models.ValidationReport, format, path string) error {
	data, err := Generate(report, format)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	log.WithFields(logrus.Fields{"file": path, "format": format}).Info("Report written")
	return nil
}

func generateJSON(report *models.ValidationReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func generateCSV(report *models.ValidationReport) ([]byte, error) {
	rows := make([]resultRow, 0, len(report.Results))
	for i := range report.Results {
		rows = append(rows, toRow(&report.Results[i]))
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		log.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return data, nil
}

func toRow(r *models.ValidationResult) resultRow {
	row := resultRow{
		SequenceNumber: r.BillEntry.SequenceNumber,
		BillReference:  r.BillEntry.BillReference,
		Amount:         r.BillEntry.Amount.StringFixed(2),
		Status:         string(r.Status),
		Color:          r.Color,
		OverallScore:   r.OverallScore,
		ReferenceMatch: r.BillReferenceMatches,
		AmountMatch:    r.AmountMatches,
		DateMatch:      r.DateMatches,
		Mismatches:     strings.Join(r.MismatchDescriptions, "; "),
		Notes:          r.Notes,
	}
	if r.BillEntry.BillDate != nil {
		row.BillDate = r.BillEntry.BillDate.Format("2006-01-02")
	}
	if r.MatchedDocument != nil {
		row.MatchedDocument = r.MatchedDocument.Filename
	}
	return row
}
