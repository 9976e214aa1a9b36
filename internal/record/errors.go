package record

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every *FormatError via errors.Is.
var ErrFormat = errors.New("record format invalid")

// FormatError reports a record whose shape or field pattern is invalid.
// For a wrong column count Field is "record" and Count holds the actual count.
type FormatError struct {
	Field   string
	Value   string
	Pattern string
	Example string
	Count   int
}

func (e *FormatError) Error() string {
	if e.Field == fieldRecord {
		return fmt.Sprintf("the event is not correctly formatted: must have %d columns but found %d", len(schema), e.Count)
	}
	msg := fmt.Sprintf("the event %s '%s' does not match the required pattern '%s'", e.Field, e.Value, e.Pattern)
	if e.Example != "" {
		msg += " (e.g. " + e.Example + ")"
	}
	return msg + "; please revise the input csv"
}

func (e *FormatError) Unwrap() error { return ErrFormat }
