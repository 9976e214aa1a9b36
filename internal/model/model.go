package model

import (
	"fmt"
	"time"
)

// Alarm is a display reminder relative to an event's begin.
type Alarm struct {
	// Trigger is the offset from begin; never positive.
	Trigger     time.Duration
	Description string
}

// Event is a single, non-recurring calendar entry built from one input record.
// Begin and End always carry an explicit UTC offset.
type Event struct {
	UID string

	Name     string
	Location string

	Begin time.Time
	End   time.Time

	Alarm Alarm
}

// Duration is End minus Begin.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Begin)
}

// AlarmAt is the absolute instant the reminder fires.
func (e Event) AlarmAt() time.Time {
	return e.Begin.Add(e.Alarm.Trigger)
}

// String is a one-line summary used in the run journal.
func (e Event) String() string {
	return fmt.Sprintf("Event(name=%q, begin=%s, end=%s, location=%q, alarm=%s)",
		e.Name,
		e.Begin.Format(time.RFC3339),
		e.End.Format(time.RFC3339),
		e.Location,
		e.Alarm.Trigger,
	)
}
