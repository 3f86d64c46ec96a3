// Package match selects, for one bill entry, the best supporting document
// out of the extracted pool.
package match

import (
	"github.com/sirupsen/logrus"

	"bill-check/internal/config"
	"bill-check/internal/models"
	"bill-check/internal/normalize"
	"bill-check/internal/score"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Candidate pairs a bill entry with one pool document and carries the
// componentwise and overall scores of the pairing.
type Candidate struct {
	Document  *models.SupportingDocument
	Reference score.Score
	Amount    score.Score
	Date      score.Score
	// Overall is the weighted average of the applicable component scores,
	// with weights renormalized over the applicable dimensions.
	Overall float64
	// ExactReference is set when the references compare equal after
	// normalization; it wins ties between candidates with equal overall
	// scores.
	ExactReference bool
}

// Matcher searches the supporting document pool for the best candidate per
// bill entry. The pool is shared, read-only data: documents are never
// consumed, so one document may match several bill entries.
type Matcher struct {
	cfg config.Matching
}

// New creates a Matcher with the given thresholds and weights.
func New(cfg config.Matching) *Matcher {
	return &Matcher{cfg: cfg}
}

// Score builds the candidate for a single (entry, document) pairing.
func (m *Matcher) Score(entry *models.BillEntry, doc *models.SupportingDocument) Candidate {
	c := Candidate{
		Document:  doc,
		Reference: score.Reference(entry.BillReference, doc.BillReference),
		Amount:    score.Amount(&entry.Amount, doc.Amount),
		Date:      score.Date(entry.BillDate, doc.DocumentDate),
	}
	c.ExactReference = c.Reference.Applicable &&
		normalize.Reference(entry.BillReference) == normalize.Reference(doc.BillReference)

	weights := m.cfg.Weights
	var weighted, weightSum float64
	for _, part := range []struct {
		s score.Score
		w float64
	}{
		{c.Reference, weights.Reference},
		{c.Amount, weights.Amount},
		{c.Date, weights.Date},
	} {
		if part.s.Applicable {
			weighted += part.s.Value * part.w
			weightSum += part.w
		}
	}
	if weightSum > 0 {
		c.Overall = weighted / weightSum
	}
	return c
}

// Best returns the accepted best candidate for the entry, or nil when no
// candidate strictly exceeds the acceptance threshold. Ties on overall
// score break toward an exact reference match, then toward the
// lexicographically smallest filename, keeping the result independent of
// pool order.
func (m *Matcher) Best(entry *models.BillEntry, pool []models.SupportingDocument) *Candidate {
	var best *Candidate
	for i := range pool {
		c := m.Score(entry, &pool[i])
		if !c.Reference.Applicable && !c.Amount.Applicable && !c.Date.Applicable {
			// Nothing comparable on this document.
			continue
		}
		if best == nil || better(&c, best) {
			copied := c
			best = &copied
		}
	}

	if best == nil || best.Overall <= m.cfg.AcceptanceThreshold {
		if best != nil {
			log.WithFields(logrus.Fields{
				"sequence": entry.SequenceNumber,
				"file":     best.Document.Filename,
				"score":    best.Overall,
			}).Debug("Best candidate below acceptance threshold")
		}
		return nil
	}
	return best
}

func better(a, b *Candidate) bool {
	if a.Overall != b.Overall {
		return a.Overall > b.Overall
	}
	if a.ExactReference != b.ExactReference {
		return a.ExactReference
	}
	return a.Document.Filename < b.Document.Filename
}
