package domain

import "errors"

// ErrPaperNotFound is returned when an arXiv identifier resolves to no paper.
var ErrPaperNotFound = errors.New("paper not found")

// ValidationError reports a structurally invalid thought payload. It is
// always caught at the adapter boundary and converted into a failure
// response; it never crosses the tool boundary as a raw error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StateError is reserved for invariant violations inside the thought store.
// Under the single-writer discipline it is not expected to occur.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return "state error in " + e.Op + ": " + e.Reason
}
