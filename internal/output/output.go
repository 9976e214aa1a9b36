// Package output persists serialized calendars.
package output

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// FileNameLayout is the timestamp layout embedded in output file names.
const FileNameLayout = "2006-01-02_15-04-05"

// FileName returns events_<timestamp>.ics for the given instant.
func FileName(at time.Time) string {
	return "events_" + at.Format(FileNameLayout) + ".ics"
}

// WriteCalendar writes body to dir/events_<timestamp>.ics and returns the path.
func WriteCalendar(dir string, at time.Time, body []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(at))
	if err := WriteAtomic(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAtomic writes data to path via a temp file in the same directory
// followed by rename, so readers never observe a partial file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return errors.New("output path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".easyics-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
