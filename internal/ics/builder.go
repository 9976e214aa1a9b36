package ics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/BlsnA/EasyICS/internal/model"
	"github.com/BlsnA/EasyICS/internal/record"
	"github.com/BlsnA/EasyICS/internal/tz"
)

const (
	DefaultCalendarName = "EasyICS"
	DefaultProductID    = "-//EasyICS//EN"
)

// Builder turns validated records into events and calendars.
type Builder struct {
	resolver  *tz.Resolver
	clock     tz.Clock
	newUID    func() string
	alarmText string
	calName   string
	prodID    string

	headerLines int
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for DTSTAMP.
func WithClock(c tz.Clock) Option {
	return func(b *Builder) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithUIDFunc replaces the UID generator.
func WithUIDFunc(f func() string) Option {
	return func(b *Builder) {
		if f != nil {
			b.newUID = f
		}
	}
}

// WithAlarmText sets the reminder DESCRIPTION. Empty falls back to the event name.
func WithAlarmText(s string) Option {
	return func(b *Builder) {
		b.alarmText = s
	}
}

// WithCalendarName sets X-WR-CALNAME.
func WithCalendarName(s string) Option {
	return func(b *Builder) {
		if s != "" {
			b.calName = s
		}
	}
}

// WithProductID sets PRODID.
func WithProductID(s string) Option {
	return func(b *Builder) {
		if s != "" {
			b.prodID = s
		}
	}
}

// WithHeaderLines sets how many source lines precede the records passed to
// Assemble, so errors can report file line numbers.
func WithHeaderLines(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.headerLines = n
		}
	}
}

// NewBuilder creates a Builder resolving offsets with resolver.
func NewBuilder(resolver *tz.Resolver, opts ...Option) *Builder {
	if resolver == nil {
		resolver = tz.NewResolver(nil, nil)
	}
	b := &Builder{
		resolver: resolver,
		clock:    tz.SystemClock{},
		newUID:   uuid.NewString,
		calName:  DefaultCalendarName,
		prodID:   DefaultProductID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build composes one event from validated fields.
//
// The begin timestamp is the record date, the start time rounded down to the
// quarter hour and the resolved offset, e.g. 2024-09-09T20:00:00+02:00.
// End is begin plus the duration in hours; the single display alarm fires
// the notification lead in minutes before begin.
func (b *Builder) Build(f record.Fields) (model.Event, *ical.VEvent, error) {
	date, err := time.Parse(record.DateLayout, f.Date)
	if err != nil {
		return model.Event{}, nil, &EventConstructionError{Title: f.Title, Err: err}
	}

	hour, minute, err := splitClock(f.StartTime)
	if err != nil {
		return model.Event{}, nil, &EventConstructionError{Title: f.Title, Err: err}
	}

	offset, err := b.resolver.Resolve(date)
	if err != nil {
		return model.Event{}, nil, err
	}

	hour, minute, err = tz.Quantize(hour, minute)
	if err != nil {
		return model.Event{}, nil, err
	}

	stamp := fmt.Sprintf("%sT%02d:%02d:00%s", date.Format(time.DateOnly), hour, minute, offset)
	begin, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return model.Event{}, nil, &EventConstructionError{Title: f.Title, Err: err}
	}

	duration, err := strconv.Atoi(f.Duration)
	if err != nil {
		return model.Event{}, nil, &EventConstructionError{Title: f.Title, Err: err}
	}
	lead, err := strconv.Atoi(f.Notification)
	if err != nil {
		return model.Event{}, nil, &EventConstructionError{Title: f.Title, Err: err}
	}

	alarmText := b.alarmText
	if alarmText == "" {
		alarmText = f.Title
	}

	ev := model.Event{
		UID:      b.newUID(),
		Name:     f.Title,
		Location: f.Location,
		Begin:    begin,
		End:      begin.Add(time.Duration(duration) * time.Hour),
		Alarm: model.Alarm{
			Trigger:     -time.Duration(lead) * time.Minute,
			Description: alarmText,
		},
	}

	ve, err := toVEvent(ev, b.clock.Now())
	if err != nil {
		return model.Event{}, nil, &EventConstructionError{Title: f.Title, Err: err}
	}
	return ev, ve, nil
}

func splitClock(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("start time %q has no ':'", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, 0, err
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, 0, err
	}
	return h, m, nil
}

// toVEvent hands an event to golang-ical, rejecting inconsistent input.
func toVEvent(ev model.Event, dtstamp time.Time) (*ical.VEvent, error) {
	switch {
	case ev.UID == "":
		return nil, errors.New("uid is required")
	case ev.Begin.IsZero():
		return nil, errors.New("begin is required")
	case ev.End.Before(ev.Begin):
		return nil, errors.New("end is before begin")
	case ev.Alarm.Trigger > 0:
		return nil, errors.New("alarm fires after begin")
	}

	ve := ical.NewEvent(ev.UID)
	ve.SetDtStampTime(dtstamp)
	ve.SetSummary(ev.Name)
	if ev.Location != "" {
		ve.SetLocation(ev.Location)
	}
	ve.SetStartAt(ev.Begin)
	ve.SetEndAt(ev.End)

	alarm := ve.AddAlarm()
	alarm.SetAction(ical.ActionDisplay)
	alarm.SetTrigger(triggerValue(ev.Alarm.Trigger))
	alarm.SetProperty(ical.ComponentPropertyDescription, ev.Alarm.Description)

	return ve, nil
}

// triggerValue renders a non-positive offset as an RFC 5545 duration, e.g. -PT15M.
func triggerValue(d time.Duration) string {
	minutes := int(-d / time.Minute)
	if minutes == 0 {
		return "PT0M"
	}
	return fmt.Sprintf("-PT%dM", minutes)
}
