package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "github.com/BlsnA/EasyICS/internal/log"
)

// ParsedEvent is a VEVENT read back from serialized output.
type ParsedEvent struct {
	UID      string
	Summary  string
	Location string

	Start time.Time
	End   time.Time

	// Triggers holds the raw TRIGGER value of every VALARM.
	Triggers []string
}

// ParseICS parses an iCalendar payload into a list of ParsedEvent.
func ParseICS(body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]ParsedEvent, 0)
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			return nil, perr
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("event %s: DTSTART: %w", out.UID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("event %s: DTEND: %w", out.UID, err)
	}
	out.Start = start
	out.End = end

	for _, a := range ve.Alarms() {
		if p := a.GetProperty(ical.ComponentPropertyTrigger); p != nil {
			out.Triggers = append(out.Triggers, p.Value)
		}
	}
	return out, nil
}

// Verify reads back a serialized calendar and checks that it holds exactly
// want events, each with absolute DTSTART/DTEND, end not before start and a
// single non-positive alarm trigger.
func Verify(body []byte, want int) ([]ParsedEvent, error) {
	events, err := ParseICS(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if len(events) != want {
		return nil, fmt.Errorf("%w: expected %d events, found %d", ErrVerify, want, len(events))
	}

	for _, ev := range events {
		switch {
		case ev.Start.IsZero() || ev.End.IsZero():
			return nil, fmt.Errorf("%w: event %s has no start or end", ErrVerify, ev.UID)
		case ev.End.Before(ev.Start):
			return nil, fmt.Errorf("%w: event %s ends before it starts", ErrVerify, ev.UID)
		case len(ev.Triggers) != 1:
			return nil, fmt.Errorf("%w: event %s has %d alarms", ErrVerify, ev.UID, len(ev.Triggers))
		case !strings.HasPrefix(ev.Triggers[0], "-") && ev.Triggers[0] != "PT0M":
			return nil, fmt.Errorf("%w: event %s alarm %q fires after start", ErrVerify, ev.UID, ev.Triggers[0])
		}
	}

	appLog.Debug("ics verified", "event_count", len(events))
	return events, nil
}
