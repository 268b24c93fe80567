package greeting

import (
	"errors"
	"fmt"
)

// Validation reasons surfaced to the form.
const (
	ReasonNothingProvided = "nothing_provided"
	ReasonInvalidAmount   = "invalid_amount"
)

// ValidationError rejects a submission before any I/O happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonNothingProvided:
		return "greeting is empty: provide a name, message, photo or amount"
	case ReasonInvalidAmount:
		return "amount must be a non-negative number"
	default:
		return fmt.Sprintf("invalid greeting: %s", e.Reason)
	}
}

var (
	ErrMissingEventID     = errors.New("no event is bound to this submission")
	ErrPersist            = errors.New("failed to persist greeting")
	ErrSubmissionInFlight = errors.New("a matching submission is already in flight")
)
