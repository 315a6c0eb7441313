package ingest

import (
	"errors"
	"fmt"
)

// ErrValidation matches every [*ValidationError].
var ErrValidation = errors.New("ingest: validation failed")

// ValidationError reports a problem with the source table. Row is the
// zero-based source row, or -1 when the problem is not tied to one row.
type ValidationError struct {
	Column string
	Row    int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := "ingest: " + e.Reason
	switch {
	case e.Column != "" && e.Row >= 0:
		msg = fmt.Sprintf("ingest: column %q row %d: %s", e.Column, e.Row, e.Reason)
	case e.Column != "":
		msg = fmt.Sprintf("ingest: column %q: %s", e.Column, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error { return e.Err }

func columnError(column, reason string) *ValidationError {
	return &ValidationError{Column: column, Row: -1, Reason: reason}
}

func cellError(column string, row int, reason string) *ValidationError {
	return &ValidationError{Column: column, Row: row, Reason: reason}
}
