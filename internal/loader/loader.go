// Package loader is the typed boundary with the extraction collaborator.
// It decodes the collaborator's structured output (JSON or CSV) into the
// core record types, normalizing raw fields on the way in. Per-field
// problems are recovered as absence and logged; only rows with no usable
// identity are dropped.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"bill-check/internal/models"
	"bill-check/internal/normalize"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// RawBillEntry is a bill list row exactly as the extraction collaborator
// emits it. Field names follow the collaborator's wire contract.
type RawBillEntry struct {
	SequenceNumber       int        `json:"si_no" csv:"si_no"`
	BillCashMemo         FlexString `json:"bill_cash_memo" csv:"bill_cash_memo"`
	BillDate             FlexString `json:"bill_date" csv:"bill_date"`
	Classification       string     `json:"classification" csv:"classification"`
	TypeOfTreatment      string     `json:"type_of_treatment" csv:"type_of_treatment"`
	AccountCode          FlexString `json:"account_code" csv:"account_code"`
	Description          string     `json:"description" csv:"description"`
	Amount               FlexString `json:"amount" csv:"amount"`
	MedPassAmount        FlexString `json:"med_pass_amount" csv:"med_pass_amount"`
	FinPassAmountTaxable FlexString `json:"fin_pass_amount_taxable" csv:"fin_pass_amount_taxable"`
	FinPassNonTaxable    FlexString `json:"fin_pass_non_taxable" csv:"fin_pass_non_taxable"`
}

// RawSupportingDocument is one extracted supporting document record as the
// collaborator emits it.
type RawSupportingDocument struct {
	Filename        string     `json:"filename" csv:"filename"`
	BillNumber      FlexString `json:"bill_number" csv:"bill_number"`
	Amount          FlexString `json:"amount" csv:"amount"`
	PatientName     FlexString `json:"patient_name" csv:"patient_name"`
	Date            FlexString `json:"date" csv:"date"`
	HospitalName    FlexString `json:"hospital_name" csv:"hospital_name"`
	ExtractedText   string     `json:"extracted_text" csv:"extracted_text"`
	ConfidenceScore FlexString `json:"confidence_score" csv:"confidence_score"`
	DocumentType    FlexString `json:"document_type" csv:"document_type"`
}

// LoadBillEntries reads and normalizes the bill list from a JSON array or a
// CSV file with headers, selected by file extension.
func LoadBillEntries(path string) ([]models.BillEntry, error) {
	raws, err := readRecords[RawBillEntry](path)
	if err != nil {
		return nil, err
	}

	entries := make([]models.BillEntry, 0, len(raws))
	for i := range raws {
		entry, err := ConvertBillEntry(&raws[i])
		if err != nil {
			log.WithError(err).WithField("row", i+1).Warn("Skipping bill entry")
			continue
		}
		entries = append(entries, *entry)
	}
	log.WithField("count", len(entries)).Info("Loaded bill entries")
	return entries, nil
}

// LoadSupportingDocuments reads and normalizes the extracted supporting
// document records from a JSON array or a CSV file with headers.
func LoadSupportingDocuments(path string) ([]models.SupportingDocument, error) {
	raws, err := readRecords[RawSupportingDocument](path)
	if err != nil {
		return nil, err
	}

	documents := make([]models.SupportingDocument, 0, len(raws))
	for i := range raws {
		doc, err := ConvertSupportingDocument(&raws[i])
		if err != nil {
			log.WithError(err).WithField("row", i+1).Warn("Skipping supporting document")
			continue
		}
		documents = append(documents, *doc)
	}
	log.WithField("count", len(documents)).Info("Loaded supporting documents")
	return documents, nil
}

// ConvertBillEntry normalizes one raw bill list row. Rows without a usable
// identity (sequence number, reference) or amount are rejected; everything
// else degrades to absent fields.
func ConvertBillEntry(raw *RawBillEntry) (*models.BillEntry, error) {
	if raw.SequenceNumber <= 0 {
		return nil, fmt.Errorf("missing or non-positive si_no")
	}
	if strings.TrimSpace(raw.BillCashMemo.String()) == "" {
		return nil, fmt.Errorf("missing bill_cash_memo")
	}
	amount := normalize.Amount(raw.Amount.String())
	if amount == nil {
		return nil, fmt.Errorf("missing or unparsable amount %q", raw.Amount)
	}

	return &models.BillEntry{
		SequenceNumber:       raw.SequenceNumber,
		BillReference:        strings.TrimSpace(raw.BillCashMemo.String()),
		BillDate:             normalize.Date(raw.BillDate.String()),
		Amount:               *amount,
		Classification:       raw.Classification,
		TreatmentType:        raw.TypeOfTreatment,
		AccountCode:          raw.AccountCode.String(),
		Description:          raw.Description,
		MedPassAmount:        normalize.Amount(raw.MedPassAmount.String()),
		FinPassAmountTaxable: normalize.Amount(raw.FinPassAmountTaxable.String()),
		FinPassNonTaxable:    normalize.Amount(raw.FinPassNonTaxable.String()),
	}, nil
}

// ConvertSupportingDocument normalizes one raw supporting document record.
// Only the filename is required; any extraction field may be absent.
func ConvertSupportingDocument(raw *RawSupportingDocument) (*models.SupportingDocument, error) {
	if strings.TrimSpace(raw.Filename) == "" {
		return nil, fmt.Errorf("missing filename")
	}

	doc := &models.SupportingDocument{
		Filename:      strings.TrimSpace(raw.Filename),
		BillReference: strings.TrimSpace(raw.BillNumber.String()),
		Amount:        normalize.Amount(raw.Amount.String()),
		DocumentDate:  normalize.Date(raw.Date.String()),
		PatientName:   raw.PatientName.String(),
		HospitalName:  raw.HospitalName.String(),
		ExtractedText: raw.ExtractedText,
		DocumentType:  raw.DocumentType.String(),
	}
	if strings.EqualFold(doc.BillReference, "null") {
		doc.BillReference = ""
	}

	if s := strings.TrimSpace(raw.ConfidenceScore.String()); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v <= 1 {
			doc.ConfidenceScore = &v
		} else {
			// Informational only; it must never gate matching.
			log.WithFields(logrus.Fields{
				"file": doc.Filename,
				"raw":  raw.ConfidenceScore,
			}).Warn("Ignoring invalid confidence score")
		}
	}

	return doc, nil
}

// readRecords decodes a file into a slice of wire records. CSV files go
// through gocsv struct mapping; everything else is treated as a JSON array.
func readRecords[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var records []T
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if err := gocsv.UnmarshalFile(file, &records); err != nil {
			return nil, fmt.Errorf("error parsing CSV file: %w", err)
		}
		return records, nil
	}

	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("error parsing JSON file: %w", err)
	}
	return records, nil
}
