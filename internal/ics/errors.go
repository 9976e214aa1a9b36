package ics

import (
	"errors"
	"fmt"
)

// Sentinel kinds for this package. Typed errors below match them via errors.Is.
var (
	ErrEventConstruction = errors.New("error creating event")
	ErrEmptyCalendar     = errors.New("no events that can be created found")
	ErrVerify            = errors.New("calendar verification failed")
)

// EventConstructionError reports composed fields that could not become an event.
type EventConstructionError struct {
	Title string
	Err   error
}

func (e *EventConstructionError) Error() string {
	return fmt.Sprintf("error creating event %q: %v", e.Title, e.Err)
}

func (e *EventConstructionError) Is(target error) bool { return target == ErrEventConstruction }

func (e *EventConstructionError) Unwrap() error { return e.Err }

// EmptyCalendarError is returned when assembly produced zero events.
type EmptyCalendarError struct {
	// Lines is the number of input lines seen, all of them blank.
	Lines int
}

func (e *EmptyCalendarError) Error() string {
	return fmt.Sprintf("%s (%d input lines)", ErrEmptyCalendar.Error(), e.Lines)
}

func (e *EmptyCalendarError) Unwrap() error { return ErrEmptyCalendar }

// RecordError attaches the failing record's position to a failure.
// Record counts input records from 1; Line is the line in the source file,
// which differs from Record by the number of header lines.
type RecordError struct {
	Record int
	Line   int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d (record %d): %v", e.Line, e.Record, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
