package compare

import "errors"

// Comparison errors.
var (
	ErrTooFewRuns   = errors.New("comparison needs at least two runs")
	ErrDuplicateRun = errors.New("duplicate run name")
)
