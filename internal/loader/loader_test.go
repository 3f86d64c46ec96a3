package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFlexStringUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"String value", `"INV-001"`, "INV-001"},
		{"Integer value", `1500`, "1500"},
		{"Float value", `1500.50`, "1500.50"},
		{"Null value", `null`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &f))
			assert.Equal(t, tc.want, f.String())
		})
	}

	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &f))
}

func TestLoadBillEntriesJSON(t *testing.T) {
	// Amounts arrive as a mix of numbers and formatted strings, dates in
	// more than one layout, and one row has no usable reference.
	path := writeTemp(t, "bills.json", `[
		{"si_no": 1, "bill_cash_memo": "INV-001", "bill_date": "03/23/2024", "amount": 1500.50,
		 "classification": "OPD", "type_of_treatment": "Allopathic", "description": "Consultation",
		 "med_pass_amount": "1,400.00"},
		{"si_no": 2, "bill_cash_memo": 5060834, "bill_date": "2024-03-25", "amount": "₹2,000.00"},
		{"si_no": 3, "bill_cash_memo": null, "amount": 100},
		{"si_no": 4, "bill_cash_memo": "INV-004", "amount": "not a number"}
	]`)

	entries, err := LoadBillEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2, "rows without reference or amount are skipped")

	first := entries[0]
	assert.Equal(t, 1, first.SequenceNumber)
	assert.Equal(t, "INV-001", first.BillReference)
	require.NotNil(t, first.BillDate)
	assert.Equal(t, time.Date(2024, time.March, 23, 0, 0, 0, 0, time.UTC), *first.BillDate)
	assert.Equal(t, "1500.5", first.Amount.String())
	assert.Equal(t, "OPD", first.Classification)
	assert.Equal(t, "Allopathic", first.TreatmentType)
	require.NotNil(t, first.MedPassAmount)
	assert.Equal(t, "1400", first.MedPassAmount.String())

	second := entries[1]
	assert.Equal(t, "5060834", second.BillReference)
	assert.Equal(t, "2000", second.Amount.String())
	require.NotNil(t, second.BillDate)
	assert.Equal(t, time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC), *second.BillDate)
}

func TestLoadBillEntriesCSV(t *testing.T) {
	path := writeTemp(t, "bills.csv",
		"si_no,bill_cash_memo,bill_date,amount\n"+
			"1,INV-001,2024-03-23,1500.50\n"+
			"2,INV-002,,\"2,000.00\"\n")

	entries, err := LoadBillEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "INV-001", entries[0].BillReference)
	assert.Equal(t, "1500.5", entries[0].Amount.String())
	assert.Nil(t, entries[1].BillDate)
	assert.Equal(t, "2000", entries[1].Amount.String())
}

func TestLoadSupportingDocumentsJSON(t *testing.T) {
	path := writeTemp(t, "docs.json", `[
		{"filename": "receipt_001.pdf", "bill_number": "INV-001", "amount": "1,500.50",
		 "date": "23-03-2024", "patient_name": "A. Kumar", "hospital_name": "City Hospital",
		 "confidence_score": 0.92, "document_type": "pharmacy_bill"},
		{"filename": "scan_002.jpg", "bill_number": "null", "amount": null,
		 "confidence_score": "high"},
		{"filename": "   ", "bill_number": "INV-003"}
	]`)

	documents, err := LoadSupportingDocuments(path)
	require.NoError(t, err)
	require.Len(t, documents, 2, "the record without a filename is skipped")

	first := documents[0]
	assert.Equal(t, "receipt_001.pdf", first.Filename)
	assert.Equal(t, "INV-001", first.BillReference)
	require.NotNil(t, first.Amount)
	assert.Equal(t, "1500.5", first.Amount.String())
	require.NotNil(t, first.DocumentDate)
	assert.Equal(t, time.Date(2024, time.March, 23, 0, 0, 0, 0, time.UTC), *first.DocumentDate)
	assert.Equal(t, "A. Kumar", first.PatientName)
	assert.Equal(t, "City Hospital", first.HospitalName)
	require.NotNil(t, first.ConfidenceScore)
	assert.InDelta(t, 0.92, *first.ConfidenceScore, 1e-9)
	assert.Equal(t, "pharmacy_bill", first.DocumentType)

	second := documents[1]
	assert.Empty(t, second.BillReference, "literal null reference reads as absent")
	assert.Nil(t, second.Amount)
	assert.Nil(t, second.DocumentDate)
	assert.Nil(t, second.ConfidenceScore, "non-numeric confidence is ignored")
}

func TestLoadSupportingDocumentsCSV(t *testing.T) {
	path := writeTemp(t, "docs.csv",
		"filename,bill_number,amount,date,confidence_score\n"+
			"receipt.pdf,INV-001,1500.50,2024-03-23,1.5\n")

	documents, err := LoadSupportingDocuments(path)
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Nil(t, documents[0].ConfidenceScore, "out-of-range confidence is ignored")
}

func TestLoadErrors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadBillEntries(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := writeTemp(t, "bad.json", `{"not": "an array"`)
		_, err := LoadSupportingDocuments(path)
		assert.Error(t, err)
	})

	t.Run("Malformed CSV", func(t *testing.T) {
		path := writeTemp(t, "bad.csv", "si_no,amount\n1,2,3,4,too,many\n")
		_, err := LoadBillEntries(path)
		assert.Error(t, err)
	})
}

func TestConvertBillEntryRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  RawBillEntry
	}{
		{"Zero sequence number", RawBillEntry{BillCashMemo: "INV-001", Amount: "100"}},
		{"Blank reference", RawBillEntry{SequenceNumber: 1, BillCashMemo: "  ", Amount: "100"}},
		{"Unparsable amount", RawBillEntry{SequenceNumber: 1, BillCashMemo: "INV-001", Amount: "n/a"}},
		{"Negative amount", RawBillEntry{SequenceNumber: 1, BillCashMemo: "INV-001", Amount: "-50"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := ConvertBillEntry(&tc.raw)
			assert.Nil(t, entry)
			assert.Error(t, err)
		})
	}
}
