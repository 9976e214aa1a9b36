// Package tz decides which UTC offset an event's wall-clock start carries and
// rounds start times to the quarter hour.
//
// Offsets are whole hours. The current offset is taken as the difference
// between the observer's local hour and the UTC hour of a single captured
// instant, then corrected by one hour when today and the event date fall on
// different sides of a daylight-saving transition. Half-hour zones are
// therefore approximated to the hour.
package tz

import (
	"fmt"
	"time"

	appLog "github.com/BlsnA/EasyICS/internal/log"
)

// Offset is a UTC offset in whole hours.
type Offset int

// String renders the offset as an ISO-8601 suffix, e.g. "+02:00" or "-05:00".
func (o Offset) String() string {
	sign := '+'
	h := int(o)
	if h < 0 {
		sign = '-'
		h = -h
	}
	return fmt.Sprintf("%c%02d:00", sign, h)
}

// Location returns a fixed zone carrying this offset.
func (o Offset) Location() *time.Location {
	return time.FixedZone(o.String(), int(o)*3600)
}

// Resolver computes event offsets against an observer clock and timezone.
type Resolver struct {
	clock    Clock
	provider Provider
}

// NewResolver returns a Resolver. Nil arguments fall back to SystemClock and
// the process-local timezone.
func NewResolver(clock Clock, provider Provider) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	if provider == nil {
		provider = LocalProvider{}
	}
	return &Resolver{clock: clock, provider: provider}
}

// Resolve returns the offset for an event on the calendar date of date.
// Only the year, month and day of date are used.
func (r *Resolver) Resolve(date time.Time) (Offset, error) {
	loc, err := r.provider.Location()
	if err != nil {
		return 0, err
	}

	now := r.clock.Now()
	local := now.In(loc)
	raw := HourOffset(local, now.UTC())

	todayDST := local.IsDST()
	eventDST := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).IsDST()
	resolved := raw + Correction(todayDST, eventDST)

	appLog.Debug("offset resolved",
		"timezone", loc.String(),
		"event_date", date.Format(time.DateOnly),
		"raw", int(raw),
		"today_dst", todayDST,
		"event_dst", eventDST,
		"offset", resolved.String(),
	)
	return resolved, nil
}

// HourOffset is local.Hour() minus utc.Hour() for the same instant, shifted
// by a day when the two clocks are on different calendar dates.
func HourOffset(local, utc time.Time) Offset {
	d := local.Hour() - utc.Hour()
	ly, lm, ld := local.Date()
	uy, um, ud := utc.Date()
	localDay := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	utcDay := time.Date(uy, um, ud, 0, 0, 0, 0, time.UTC)
	switch {
	case localDay.After(utcDay):
		d += 24
	case localDay.Before(utcDay):
		d -= 24
	}
	return Offset(d)
}

// Correction is the hour shift applied when today and the event date sit in
// different daylight-saving regimes.
func Correction(todayDST, eventDST bool) Offset {
	switch {
	case !todayDST && eventDST:
		return 1
	case todayDST && !eventDST:
		return -1
	default:
		return 0
	}
}
