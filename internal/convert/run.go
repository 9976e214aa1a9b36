// Package convert runs one CSV to iCalendar conversion end to end: load the
// events file, assemble and verify the calendar, write it, then record the
// run in the journal and metrics.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BlsnA/EasyICS/internal/config"
	"github.com/BlsnA/EasyICS/internal/ics"
	"github.com/BlsnA/EasyICS/internal/input"
	"github.com/BlsnA/EasyICS/internal/journal"
	appLog "github.com/BlsnA/EasyICS/internal/log"
	"github.com/BlsnA/EasyICS/internal/metrics"
	"github.com/BlsnA/EasyICS/internal/output"
	"github.com/BlsnA/EasyICS/internal/tz"
)

// Result describes a finished run.
type Result struct {
	// Path is the written .ics file; empty on a dry run.
	Path    string
	Events  int
	Skipped int
}

// Runner performs conversions for one configuration.
type Runner struct {
	cfg     *config.Config
	clock   tz.Clock
	metrics *metrics.Recorder
	stdout  io.Writer
	dryRun  bool
	uidFunc func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the system clock, e.g. for tests.
func WithClock(c tz.Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithStdout redirects user-facing messages and dry-run output.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.stdout = w
		}
	}
}

// WithDryRun prints the calendar instead of writing files.
func WithDryRun(dry bool) Option {
	return func(r *Runner) {
		r.dryRun = dry
	}
}

// WithMetrics shares a recorder across runs.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithUIDFunc replaces the VEVENT UID generator.
func WithUIDFunc(f func() string) Option {
	return func(r *Runner) {
		r.uidFunc = f
	}
}

// NewRunner creates a Runner for cfg.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		clock:   tz.SystemClock{},
		metrics: metrics.New(),
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one conversion. Input, validation and verification failures
// abort the run before anything is written. A journal failure is reported
// after the calendar file has been written; Result.Path names it.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	wall := time.Now()
	start := r.clock.Now()
	res, err := r.run(start)
	took := time.Since(wall)

	if err != nil {
		r.metrics.Failure(took)
	} else {
		r.metrics.Success(start, took, res.Events, res.Skipped)
	}
	r.flushMetrics()

	return res, err
}

func (r *Runner) run(start time.Time) (Result, error) {
	lines, err := input.Load(r.cfg.Input)
	if err != nil {
		return Result{}, err
	}
	appLog.Info("events file loaded", "input", r.cfg.Input, "lines", len(lines))

	resolver := tz.NewResolver(r.clock, tz.LocalProvider{Name: r.cfg.Timezone})
	opts := []ics.Option{
		ics.WithClock(r.clock),
		ics.WithAlarmText(r.cfg.AlarmText),
		ics.WithCalendarName(r.cfg.CalendarName),
		ics.WithProductID(r.cfg.ProductID),
		ics.WithHeaderLines(input.HeaderLines),
	}
	if r.uidFunc != nil {
		opts = append(opts, ics.WithUIDFunc(r.uidFunc))
	}

	cal, err := ics.NewBuilder(resolver, opts...).Assemble(lines)
	if err != nil {
		return Result{}, err
	}

	body := []byte(cal.Serialize())
	if _, err := ics.Verify(body, cal.Len()); err != nil {
		return Result{}, err
	}

	res := Result{Events: cal.Len(), Skipped: cal.Skipped()}

	if r.dryRun {
		if _, err := r.stdout.Write(body); err != nil {
			return Result{}, fmt.Errorf("write calendar to stdout: %w", err)
		}
		return res, nil
	}

	path, err := output.WriteCalendar(r.cfg.OutputDir, start, body)
	if err != nil {
		return Result{}, fmt.Errorf("saving the calendar failed: %w", err)
	}
	res.Path = path
	appLog.Info("calendar written", "path", path, "events", res.Events)
	fmt.Fprintln(r.stdout, "Successfully created .ics file!")

	if r.cfg.Journal != "" {
		if err := journal.Append(r.cfg.Journal, start, cal.Events()); err != nil {
			return res, fmt.Errorf("writing the journal failed: %w", err)
		}
		fmt.Fprintln(r.stdout, "Successfully written to log.")
	}
	return res, nil
}

func (r *Runner) flushMetrics() {
	if r.cfg.MetricsFile == "" {
		return
	}
	if err := r.metrics.WriteTextfile(r.cfg.MetricsFile); err != nil {
		appLog.Error("metrics textfile write failed", err, "path", r.cfg.MetricsFile)
	}
}
