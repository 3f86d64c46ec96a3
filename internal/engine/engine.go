// Package engine runs the full validation pass: structural input checks,
// per-entry matching and classification, and summary aggregation.
package engine

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"bill-check/internal/classify"
	"bill-check/internal/config"
	"bill-check/internal/match"
	"bill-check/internal/models"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Engine validates every bill entry against the supporting document pool
// and builds the aggregate report. One Engine is safe for concurrent use
// across requests: it holds only immutable configuration.
type Engine struct {
	matcher    *match.Matcher
	classifier *classify.Classifier
	workers    int
}

// New creates an Engine with the given matching configuration. workers
// below 2 selects the sequential pass; anything higher fans the per-entry
// matching out over a worker pool without changing the output.
func New(cfg config.Matching, workers int) *Engine {
	return &Engine{
		matcher:    match.New(cfg),
		classifier: classify.New(cfg),
		workers:    workers,
	}
}

// Validate runs the full validation pass. The result list preserves the
// input entry order; one result per entry, always, even when every entry is
// unmatched. Returns an *InputError when a collection is structurally
// invalid.
func (e *Engine) Validate(entries []models.BillEntry, documents []models.SupportingDocument) (*models.ValidationReport, error) {
	if err := checkInputs(entries, documents); err != nil {
		return nil, err
	}

	start := time.Now()
	report := models.NewValidationReport(documents)
	report.Results = e.run(entries, documents)

	usage := make(map[string]int)
	for i := range report.Results {
		r := &report.Results[i]
		switch r.Status {
		case models.StatusMatched:
			report.Summary.FullMatch++
		case models.StatusPartialMatch:
			report.Summary.PartialMatch++
		default:
			report.Summary.NoMatch++
		}
		if r.MatchedDocument != nil {
			usage[r.MatchedDocument.Filename]++
		}
	}
	for _, n := range usage {
		if n > 1 {
			report.Summary.ReusedDocuments++
		}
	}

	report.Summary.Total = len(report.Results)
	report.Summary.ProcessingSeconds = time.Since(start).Seconds()
	report.Summary.GeneratedAt = time.Now().UTC()

	log.WithFields(logrus.Fields{
		"total":   report.Summary.Total,
		"matched": report.Summary.FullMatch,
		"partial": report.Summary.PartialMatch,
		"none":    report.Summary.NoMatch,
	}).Info("Validation complete")

	return report, nil
}

// run produces one result per entry. Results are written into an
// index-addressed slice, so the parallel pass yields output identical to
// the sequential one.
func (e *Engine) run(entries []models.BillEntry, documents []models.SupportingDocument) []models.ValidationResult {
	results := make([]models.ValidationResult, len(entries))

	if e.workers < 2 || len(entries) < 2 {
		for i := range entries {
			results[i] = e.validateOne(&entries[i], documents)
		}
		return results
	}

	pool, err := ants.NewPool(e.workers)
	if err != nil {
		log.WithError(err).Warn("Worker pool unavailable, falling back to sequential pass")
		for i := range entries {
			results[i] = e.validateOne(&entries[i], documents)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range entries {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = e.validateOne(&entries[i], documents)
		}); err != nil {
			results[i] = e.validateOne(&entries[i], documents)
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// validateOne matches and classifies a single entry. The document pool is
// read-only shared data; no document is consumed by being chosen.
func (e *Engine) validateOne(entry *models.BillEntry, documents []models.SupportingDocument) models.ValidationResult {
	best := e.matcher.Best(entry, documents)
	return e.classifier.Classify(entry, best)
}

// checkInputs enforces the structural contract on both collections.
// Per-field problems never reach this point; they were recovered as absent
// fields at the extraction boundary.
func checkInputs(entries []models.BillEntry, documents []models.SupportingDocument) error {
	if len(entries) == 0 {
		return &InputError{Collection: "bill entries", Reason: "collection is empty"}
	}

	seen := make(map[int]bool, len(entries))
	for i := range entries {
		entry := &entries[i]
		if entry.SequenceNumber <= 0 {
			return &InputError{
				Collection: "bill entries",
				Reason:     "sequence number must be positive",
			}
		}
		if seen[entry.SequenceNumber] {
			return &InputError{
				Collection: "bill entries",
				Reason:     "duplicate sequence number",
			}
		}
		seen[entry.SequenceNumber] = true
		if entry.Amount.IsNegative() {
			return &InputError{
				Collection: "bill entries",
				Reason:     "amount must not be negative",
			}
		}
	}

	filenames := make(map[string]bool, len(documents))
	for i := range documents {
		doc := &documents[i]
		if doc.Amount != nil && doc.Amount.IsNegative() {
			return &InputError{
				Collection: "supporting documents",
				Reason:     "amount must not be negative",
			}
		}
		if filenames[doc.Filename] {
			// Filenames are display identity only; a collaborator-side
			// collision must not take the whole report down.
			log.WithField("file", doc.Filename).Warn("Duplicate supporting document filename")
		}
		filenames[doc.Filename] = true
	}

	return nil
}
