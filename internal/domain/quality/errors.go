package quality

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrDecode           = errors.New("decode document failed")
	ErrTaxonomyMismatch = errors.New("taxonomy mismatch")
)

// TaxonomyMismatchError reports a run whose taxonomy defines no usable
// categories. Analysis does not fail on it; the default taxonomy is used
// instead and the error is surfaced as a warning.
type TaxonomyMismatchError struct {
	Run string
}

func (e *TaxonomyMismatchError) Error() string {
	if e.Run == "" {
		return "taxonomy has no valid categories; using default taxonomy"
	}
	return fmt.Sprintf("run %q: taxonomy has no valid categories; using default taxonomy", e.Run)
}

// Is matches ErrTaxonomyMismatch.
func (e *TaxonomyMismatchError) Is(target error) bool { return target == ErrTaxonomyMismatch }
