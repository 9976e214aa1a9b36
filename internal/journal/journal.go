// Package journal appends a human-readable entry per conversion run.
package journal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BlsnA/EasyICS/internal/model"
)

const (
	entryStart = "############### LOG ENTRY START ###############"
	entryEnd   = "############### LOG ENTRY END ###############"

	// TimestampLayout formats the run time in the entry header.
	TimestampLayout = "2006-01-02 15:04:05"
)

// WriteEntry writes one entry listing events to w.
func WriteEntry(w io.Writer, at time.Time, events []model.Event) error {
	var sb strings.Builder
	sb.WriteString(entryStart + "\n")
	fmt.Fprintf(&sb, "Created %d events on %s\n\n", len(events), at.Format(TimestampLayout))
	for _, ev := range events {
		sb.WriteString(ev.String() + "\n\n")
	}
	sb.WriteString(entryEnd + "\n\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Append adds an entry to the journal file at path, creating it if needed.
func Append(path string, at time.Time, events []model.Event) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := WriteEntry(f, at, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
