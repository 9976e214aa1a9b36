package tz

import (
	"errors"
	"fmt"
)

// Sentinel kinds for this package. Typed errors below unwrap to them.
var (
	ErrInvalidTime         = errors.New("invalid start time")
	ErrTimezoneUnavailable = errors.New("timezone unavailable")
)

// InvalidTimeError is returned by Quantize for a minute outside [0, 60).
type InvalidTimeError struct {
	Hour   int
	Minute int
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid start time %02d:%02d", e.Hour, e.Minute)
}

func (e *InvalidTimeError) Unwrap() error { return ErrInvalidTime }

// TimezoneUnavailableError wraps a failed timezone lookup.
type TimezoneUnavailableError struct {
	Name string
	Err  error
}

func (e *TimezoneUnavailableError) Error() string {
	name := e.Name
	if name == "" {
		name = "local"
	}
	return fmt.Sprintf("timezone %q unavailable: %v", name, e.Err)
}

func (e *TimezoneUnavailableError) Is(target error) bool { return target == ErrTimezoneUnavailable }

func (e *TimezoneUnavailableError) Unwrap() error { return e.Err }
