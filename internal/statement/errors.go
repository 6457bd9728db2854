package statement

import (
	"errors"
	"fmt"

	"github.com/IO-n-A/quant-fin/internal/model"
)

// ErrInvalidAmount is returned for amount fields that are not a number.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidDate is returned for date fields matching no known layout.
var ErrInvalidDate = errors.New("invalid date")

// FormatError reports a statement whose header or required columns could not
// be found. The file is skipped; other files are unaffected.
type FormatError struct {
	Source model.Source
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statement %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("statement %s: %s", e.Source, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ParseError reports a single field that could not be normalized. The row is dropped.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: parsing %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
