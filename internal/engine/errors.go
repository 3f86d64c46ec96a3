package engine

import "fmt"

// InputError reports a structurally invalid input collection. Structural
// problems abort the whole report before any matching begins; a partial
// report must never be silently mislabeled as complete.
type InputError struct {
	Collection string
	Reason     string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Collection, e.Reason)
}
