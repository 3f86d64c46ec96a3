// Package normalize canonicalizes raw extracted fields (bill references,
// currency amounts, dates) into comparable forms. Raw values come straight
// from the extraction collaborator and carry every cosmetic quirk of the
// source documents; everything downstream compares normalized values only.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var (
	referenceSeparators = strings.NewReplacer(" ", "", "-", "", "_", "", "/", "", ".", "")
	currencyRunes       = regexp.MustCompile(`[€$£¥₹₣₤₧₺₽₩฿₫CHFRSrs\s]`)
	whitespaceRuns      = regexp.MustCompile(`\s+`)
)

// Reference canonicalizes a bill/invoice reference: separators are stripped,
// letters upper-cased and leading zeros trimmed from the trailing digit run
// so that "INV-001", "inv/001" and "INV001" all compare equal.
// The function is idempotent.
func Reference(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = referenceSeparators.Replace(s)

	// Trim leading zeros from the numeric suffix, keeping at least one
	// digit so an all-zero reference stays comparable.
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	prefix, digits := s[:i], s[i:]
	if len(digits) > 1 {
		trimmed := strings.TrimLeft(digits, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		digits = trimmed
	}
	return prefix + digits
}

// Amount parses a raw amount string into a non-negative decimal. Currency
// symbols, thousand separators and both European and US decimal conventions
// are handled. Returns nil when the value is unparsable or negative; callers
// must treat nil as "field absent", never as zero.
func Amount(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}

	standardized := standardizeAmount(s)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		log.WithField("raw", raw).Warn("Unparsable amount, treating as absent")
		return nil
	}
	if amount.IsNegative() {
		log.WithField("raw", raw).Warn("Negative amount, treating as absent")
		return nil
	}
	return &amount
}

// standardizeAmount converts the various currency string formats seen on
// receipts into a form decimal.NewFromString accepts. Handles patterns like
// "₹1,500.50", "CHF 1'234.56", "1.234,56" and "1 234,56".
func standardizeAmount(amountStr string) string {
	amountStr = currencyRunes.ReplaceAllString(amountStr, "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// US format (1,234.56)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		// Comma only: decimal separator when followed by at most two digits,
		// thousand separator otherwise.
		parts := strings.Split(amountStr, ",")
		if len(parts) > 1 && len(parts[len(parts)-1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	// Apostrophes as thousand separators (1'234.56)
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	// A leading dot is residue of a stripped currency token ("Rs. 500")
	amountStr = strings.TrimLeft(amountStr, ".")

	return amountStr
}

// dateFormats lists the layouts tried in order when parsing a raw date.
// Slash dates are read month-first (the bill lists use US-style MM/DD/YY),
// dash dates day-first (the convention on Indian receipts). Anything not
// covered is treated as absent rather than guessed.
var dateFormats = []string{
	"2006-01-02", // ISO
	"2006/01/02",
	"01/02/2006", // US slash
	"1/2/2006",
	"1/2/06",
	"02-01-2006", // day-first dash
	"2-1-2006",
	"02.01.2006", // day-first dot
	"2.1.2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
}

// Date parses a raw date string using the known layouts and returns the
// date at UTC midnight, or nil when no layout matches.
func Date(raw string) *time.Time {
	s := whitespaceRuns.ReplaceAllString(strings.TrimSpace(raw), " ")
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}

	log.WithField("raw", raw).Warn("Unparsable date, treating as absent")
	return nil
}
