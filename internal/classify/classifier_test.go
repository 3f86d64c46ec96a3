package classify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bill-check/internal/config"
	"bill-check/internal/match"
	"bill-check/internal/models"
)

func amt(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func classifyPair(t *testing.T, cfg config.Matching, entry models.BillEntry, doc models.SupportingDocument) models.ValidationResult {
	t.Helper()
	cand := match.New(cfg).Score(&entry, &doc)
	return New(cfg).Classify(&entry, &cand)
}

func TestClassifyNoCandidate(t *testing.T) {
	entry := models.BillEntry{SequenceNumber: 3, BillReference: "INV-003", Amount: decimal.NewFromInt(500)}

	result := New(config.DefaultMatching()).Classify(&entry, nil)

	assert.Equal(t, models.StatusNotMatched, result.Status)
	assert.Equal(t, "red", result.Color)
	assert.Nil(t, result.MatchedDocument)
	assert.Equal(t, NoDocumentNote, result.Notes)
	assert.Empty(t, result.MismatchDescriptions)
	assert.False(t, result.BillReferenceMatches)
	assert.False(t, result.AmountMatches)
	assert.False(t, result.DateMatches)
}

func TestClassifyFullMatch(t *testing.T) {
	// Reference normalizes equal, amounts identical, no dates on either side
	result := classifyPair(t, config.DefaultMatching(),
		models.BillEntry{SequenceNumber: 1, BillReference: "INV-001", Amount: decimal.NewFromFloat(1500.50)},
		models.SupportingDocument{Filename: "receipt.pdf", BillReference: "INV001", Amount: amt(1500.50)},
	)

	assert.Equal(t, models.StatusMatched, result.Status)
	assert.Equal(t, "green", result.Color)
	require.NotNil(t, result.MatchedDocument)
	assert.True(t, result.BillReferenceMatches)
	assert.True(t, result.AmountMatches)
	assert.False(t, result.DateMatches)
	assert.Empty(t, result.MismatchDescriptions)
}

func TestClassifyAmountMismatch(t *testing.T) {
	// 20% difference exceeds the default 5% tolerance
	result := classifyPair(t, config.DefaultMatching(),
		models.BillEntry{SequenceNumber: 2, BillReference: "INV-002", Amount: decimal.NewFromFloat(1000.00)},
		models.SupportingDocument{Filename: "invoice.pdf", BillReference: "INV-002", Amount: amt(1200.00)},
	)

	assert.Equal(t, models.StatusPartialMatch, result.Status)
	assert.Equal(t, "orange", result.Color)
	assert.True(t, result.BillReferenceMatches)
	assert.False(t, result.AmountMatches)
	require.Len(t, result.MismatchDescriptions, 1)
	assert.Equal(t, "Amount mismatch: expected 1000.00, found 1200.00", result.MismatchDescriptions[0])
}

func TestClassifyAmountWithinTolerance(t *testing.T) {
	// 4% off stays within the default 5% relative tolerance
	result := classifyPair(t, config.DefaultMatching(),
		models.BillEntry{SequenceNumber: 1, BillReference: "INV-001", Amount: decimal.NewFromFloat(1000.00)},
		models.SupportingDocument{Filename: "receipt.pdf", BillReference: "INV-001", Amount: amt(960.00)},
	)

	assert.True(t, result.AmountMatches)
	assert.Equal(t, models.StatusMatched, result.Status)
}

func TestClassifyDateMismatch(t *testing.T) {
	cfg := config.DefaultMatching()
	entry := models.BillEntry{
		SequenceNumber: 1,
		BillReference:  "INV-001",
		BillDate:       day(2024, time.March, 23),
		Amount:         decimal.NewFromInt(500),
	}
	doc := models.SupportingDocument{
		Filename:      "receipt.pdf",
		BillReference: "INV-001",
		Amount:        amt(500),
		DocumentDate:  day(2024, time.March, 25),
	}

	result := classifyPair(t, cfg, entry, doc)
	assert.Equal(t, models.StatusPartialMatch, result.Status)
	assert.False(t, result.DateMatches)
	require.Len(t, result.MismatchDescriptions, 1)
	assert.Equal(t, "Date mismatch: expected 2024-03-23, found 2024-03-25", result.MismatchDescriptions[0])

	// A two-day tolerance turns the same pairing into a full match
	cfg.DateToleranceDays = 2
	result = classifyPair(t, cfg, entry, doc)
	assert.Equal(t, models.StatusMatched, result.Status)
	assert.True(t, result.DateMatches)
	assert.Empty(t, result.MismatchDescriptions)
}

func TestClassifyAbsenceIsNotMismatch(t *testing.T) {
	t.Run("Date missing on both sides", func(t *testing.T) {
		result := classifyPair(t, config.DefaultMatching(),
			models.BillEntry{SequenceNumber: 1, BillReference: "INV-001", Amount: decimal.NewFromInt(500)},
			models.SupportingDocument{Filename: "receipt.pdf", BillReference: "INV-001", Amount: amt(500)},
		)
		assert.Equal(t, models.StatusMatched, result.Status)
		for _, m := range result.MismatchDescriptions {
			assert.NotContains(t, m, "Date")
		}
	})

	t.Run("Reference missing on document side", func(t *testing.T) {
		result := classifyPair(t, config.DefaultMatching(),
			models.BillEntry{SequenceNumber: 1, BillReference: "INV-005", Amount: decimal.NewFromInt(750)},
			models.SupportingDocument{Filename: "pharmacy.jpg", Amount: amt(750)},
		)
		// Still a usable pairing but it cannot fully corroborate the entry
		assert.Equal(t, models.StatusPartialMatch, result.Status)
		assert.False(t, result.BillReferenceMatches)
		assert.Empty(t, result.MismatchDescriptions)
		assert.Contains(t, result.Notes, "Bill number missing")
	})
}

func TestClassifyReferenceMismatch(t *testing.T) {
	result := classifyPair(t, config.DefaultMatching(),
		models.BillEntry{SequenceNumber: 1, BillReference: "INV-1001", Amount: decimal.NewFromInt(500)},
		models.SupportingDocument{Filename: "receipt.pdf", BillReference: "NV-993", Amount: amt(500)},
	)

	assert.Equal(t, models.StatusPartialMatch, result.Status)
	assert.False(t, result.BillReferenceMatches)
	require.NotEmpty(t, result.MismatchDescriptions)
	assert.Equal(t, "Bill number mismatch: expected INV-1001, found NV-993", result.MismatchDescriptions[0])
}
