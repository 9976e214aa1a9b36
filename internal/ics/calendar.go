package ics

import (
	ical "github.com/arran4/golang-ical"

	appLog "github.com/BlsnA/EasyICS/internal/log"
	"github.com/BlsnA/EasyICS/internal/model"
	"github.com/BlsnA/EasyICS/internal/record"
)

// Calendar is an assembled, non-empty set of events backed by a golang-ical
// document ready for serialization.
type Calendar struct {
	cal     *ical.Calendar
	events  []model.Event
	skipped int
}

func newCalendar(name, prodID string) *Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)
	if name != "" {
		cal.SetXWRCalName(name)
	}
	return &Calendar{cal: cal}
}

func (c *Calendar) add(ev model.Event, ve *ical.VEvent) {
	c.events = append(c.events, ev)
	c.cal.AddVEvent(ve)
}

// Events returns the events in input order. Consumers must not rely on it.
func (c *Calendar) Events() []model.Event {
	out := make([]model.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Len is the number of events.
func (c *Calendar) Len() int { return len(c.events) }

// Skipped is the number of blank input lines that were ignored.
func (c *Calendar) Skipped() int { return c.skipped }

// Serialize renders the calendar as iCalendar text.
func (c *Calendar) Serialize() string {
	return c.cal.Serialize()
}

// Assemble validates and builds every non-blank line into one calendar.
//
// The first failing record aborts the whole batch; no partial calendar is
// returned. Blank lines are skipped. Zero events is an *EmptyCalendarError.
func (b *Builder) Assemble(lines []string) (*Calendar, error) {
	c := newCalendar(b.calName, b.prodID)

	for i, line := range lines {
		if record.IsBlank(line) {
			c.skipped++
			continue
		}

		fields, err := record.Validate(line)
		if err != nil {
			return nil, b.recordError(i, err)
		}

		ev, ve, err := b.Build(fields)
		if err != nil {
			return nil, b.recordError(i, err)
		}
		c.add(ev, ve)

		appLog.Debug("event built",
			"line", i+1+b.headerLines,
			"name", ev.Name,
			"begin", ev.Begin,
			"end", ev.End,
		)
	}

	if c.Len() == 0 {
		return nil, &EmptyCalendarError{Lines: len(lines)}
	}

	appLog.Info("calendar assembled", "events", c.Len(), "skipped", c.skipped)
	return c, nil
}

func (b *Builder) recordError(i int, err error) *RecordError {
	return &RecordError{Record: i + 1, Line: i + 1 + b.headerLines, Err: err}
}
