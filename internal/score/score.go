// Package score provides pure similarity functions over normalized fields.
// Every scorer distinguishes "no similarity" (a numeric zero) from "nothing
// to compare" (Score.Applicable == false); absent data must never be
// penalized as a mismatch.
package score

import (
	"time"

	"github.com/agext/levenshtein"
	"github.com/shopspring/decimal"

	"bill-check/internal/normalize"
)

// Score is a similarity value in [0,1] plus an applicability flag.
// A non-applicable score carries no value and is excluded from weighted
// aggregation and from mismatch reporting.
type Score struct {
	Value      float64
	Applicable bool
}

// NotApplicable is the sentinel returned when either input is absent.
var NotApplicable = Score{}

func applicable(v float64) Score {
	return Score{Value: v, Applicable: true}
}

// dateDecayWindowDays is the day distance at which date similarity reaches
// zero.
const dateDecayWindowDays = 30.0

// Reference scores two bill references after normalization: 1.0 on exact
// equality, otherwise a normalized Levenshtein similarity. Empty inputs on
// either side are not applicable.
func Reference(a, b string) Score {
	na, nb := normalize.Reference(a), normalize.Reference(b)
	if na == "" || nb == "" {
		return NotApplicable
	}
	if na == nb {
		return applicable(1.0)
	}
	return applicable(levenshtein.Similarity(na, nb, nil))
}

// Amount scores the closeness of two amounts: 1.0 on equality, otherwise
// 1 - |a-b| / max(a, b), floored at zero. Nil inputs are not applicable.
func Amount(a, b *decimal.Decimal) Score {
	if a == nil || b == nil {
		return NotApplicable
	}
	if a.Equal(*b) {
		return applicable(1.0)
	}

	diff := a.Sub(*b).Abs()
	max := decimal.Max(*a, *b)
	if !max.IsPositive() {
		// Both zero would have compared equal above; one side is zero here,
		// so the other is the whole difference.
		return applicable(0)
	}
	similarity, _ := decimal.NewFromInt(1).Sub(diff.Div(max)).Float64()
	if similarity < 0 {
		similarity = 0
	}
	return applicable(similarity)
}

// Date scores the closeness of two calendar dates: 1.0 on equality,
// degrading linearly to zero over a 30-day window. Nil inputs are not
// applicable.
func Date(a, b *time.Time) Score {
	if a == nil || b == nil {
		return NotApplicable
	}

	days := DayDistance(*a, *b)
	if days == 0 {
		return applicable(1.0)
	}
	similarity := 1.0 - float64(days)/dateDecayWindowDays
	if similarity < 0 {
		similarity = 0
	}
	return applicable(similarity)
}

// DayDistance returns the absolute calendar-day distance between two dates,
// ignoring any time-of-day component.
func DayDistance(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
