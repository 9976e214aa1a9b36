// Package input reads the events file and hands its record lines to the
// calendar assembler.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// HeaderLines is the number of lines ReadLines drops before the records.
const HeaderLines = 1

// ErrMissing is returned when the events file does not exist.
var ErrMissing = errors.New("events file is not at the expected location")

// Load reads path and returns every line after the header.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// ReadLines returns all lines of r except the first (header) one.
// Lines are returned without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	lines := make([]string, 0)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
