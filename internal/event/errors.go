package event

import "errors"

// Load-path failures. Anything else coming out of LoadEvent is an
// unexpected store error wrapped with context.
var (
	ErrNotFound  = errors.New("event not found")
	ErrCorrupted = errors.New("event data corrupted")
	ErrTimeout   = errors.New("event load timed out")
)

// Create/update validation failures.
var (
	ErrTitleRequired       = errors.New("event title is required")
	ErrUpiIDRequired       = errors.New("upi id is required")
	ErrInvalidTargetAmount = errors.New("target amount must be a positive number")
	ErrInvalidEndDate      = errors.New("end date must be a calendar date (YYYY-MM-DD)")
)
