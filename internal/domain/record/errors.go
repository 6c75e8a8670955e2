package record

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrSchema          = errors.New("schema error")
	ErrEmptyInput      = errors.New("empty input")
	ErrMalformedRecord = errors.New("malformed record")
)

// SchemaError reports required columns that the header row lacks.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns [%s]; found [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Is matches ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// EmptyInputError reports input without a header and at least one usable row.
type EmptyInputError struct {
	Discarded int
}

func (e *EmptyInputError) Error() string {
	if e.Discarded > 0 {
		return fmt.Sprintf("no usable data rows (%d blank rows discarded)", e.Discarded)
	}
	return "no usable data rows"
}

// Is matches ErrEmptyInput.
func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// MalformedRecordError reports a row the CSV grammar rejects, most commonly a
// quoted field left open at end of input.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
}

// Is matches ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

func (e *MalformedRecordError) Unwrap() error { return e.Err }
