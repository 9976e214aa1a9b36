// Package record validates raw event lines of the form
//
//	title, location, YYYY.MM.DD, hh:mm, duration_hours, notification_minutes
//
// and hands back trimmed, pattern-checked fields.
package record

import (
	"regexp"
	"strings"
)

const (
	// Delimiter separates the columns of a record.
	Delimiter = ","

	// DateLayout is the time layout of a validated Date field.
	DateLayout = "2006.01.02"

	fieldRecord = "record"
)

// Fields is a record after validation. All values are whitespace-trimmed.
type Fields struct {
	Title        string
	Location     string
	Date         string // YYYY.MM.DD
	StartTime    string // hh:mm
	Duration     string // whole hours, 1-2 digits
	Notification string // minutes before begin, 1-2 digits
}

// rule describes one column. A nil pattern accepts any text.
type rule struct {
	name    string
	pattern *regexp.Regexp
	human   string
	example string
	assign  func(*Fields, string)
}

var schema = []rule{
	{
		name:   "title",
		assign: func(f *Fields, v string) { f.Title = v },
	},
	{
		name:   "location",
		assign: func(f *Fields, v string) { f.Location = v },
	},
	{
		name:    "date",
		pattern: regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`),
		human:   "YYYY.MM.DD",
		example: "2024.12.01",
		assign:  func(f *Fields, v string) { f.Date = v },
	},
	{
		name:    "starttime",
		pattern: regexp.MustCompile(`^\d{2}:\d{2}$`),
		human:   "hh:mm",
		example: "12:00",
		assign:  func(f *Fields, v string) { f.StartTime = v },
	},
	{
		name:    "duration",
		pattern: regexp.MustCompile(`^\d{1,2}$`),
		human:   "h or hh",
		example: "'2' or '10'",
		assign:  func(f *Fields, v string) { f.Duration = v },
	},
	{
		name:    "notification",
		pattern: regexp.MustCompile(`^\d{1,2}$`),
		human:   "m or mm",
		example: "'5' or '15'",
		assign:  func(f *Fields, v string) { f.Notification = v },
	},
}

// Columns returns the column names in record order.
func Columns() []string {
	out := make([]string, len(schema))
	for i, r := range schema {
		out[i] = r.name
	}
	return out
}

// Validate checks a raw line and returns its fields.
// Any violation is reported as a *FormatError.
func Validate(line string) (Fields, error) {
	var f Fields

	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, Delimiter)
	if len(parts) != len(schema) {
		return f, &FormatError{Field: fieldRecord, Value: line, Count: len(parts)}
	}

	for i, r := range schema {
		v := strings.TrimSpace(parts[i])
		if r.pattern != nil && !r.pattern.MatchString(v) {
			return Fields{}, &FormatError{
				Field:   r.name,
				Value:   v,
				Pattern: r.human,
				Example: r.example,
				Count:   len(parts),
			}
		}
		r.assign(&f, v)
	}
	return f, nil
}

// IsBlank reports whether a line carries no record at all.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
