package tz

import (
	"errors"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// Provider supplies the observer's timezone.
type Provider interface {
	Location() (*time.Location, error)
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// LocalProvider resolves an IANA name, or the process-local zone when Name is empty.
type LocalProvider struct {
	Name string
}

func (p LocalProvider) Location() (*time.Location, error) {
	if p.Name == "" {
		if time.Local == nil {
			return nil, &TimezoneUnavailableError{Err: errors.New("no local timezone configured")}
		}
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.Name)
	if err != nil {
		return nil, &TimezoneUnavailableError{Name: p.Name, Err: err}
	}
	return loc, nil
}

// FixedProvider always returns the same location.
type FixedProvider struct {
	Loc *time.Location
}

func (p FixedProvider) Location() (*time.Location, error) {
	if p.Loc == nil {
		return nil, &TimezoneUnavailableError{Err: errors.New("nil location")}
	}
	return p.Loc, nil
}
