package convert_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/BlsnA/EasyICS/internal/config"
	"github.com/BlsnA/EasyICS/internal/convert"
	"github.com/BlsnA/EasyICS/internal/ics"
	"github.com/BlsnA/EasyICS/internal/input"
	"github.com/BlsnA/EasyICS/internal/metrics"
	"github.com/BlsnA/EasyICS/internal/record"
	"github.com/BlsnA/EasyICS/internal/tz"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
)

const eventsCSV = "title,location,date,starttime,duration,notification\n" +
	"Meeting,Office,2024.09.09,20:05,2,15\n" +
	"\n" +
	"Dentist,Main St,2024.09.10,08:30,1,30\n"

func setup(t *testing.T, csv string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "events.csv")
	if err := os.WriteFile(in, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Input = in
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Journal = filepath.Join(dir, "log.txt")
	cfg.MetricsFile = filepath.Join(dir, "easyics.prom")
	cfg.Timezone = "Europe/Berlin"
	return cfg
}

func TestRun(t *testing.T) {
	now := time.Date(2024, 9, 29, 18, 22, 31, 0, time.UTC)
	clock := convert.WithClock(tz.FixedClock(now))

	convey.Convey("Given a valid events file", t, func() {
		cfg := setup(t, eventsCSV)
		var stdout bytes.Buffer
		rec := metrics.New()
		r := convert.NewRunner(cfg, clock, convert.WithStdout(&stdout), convert.WithMetrics(rec))

		convey.Convey("When the conversion runs", func() {
			res, err := r.Run(context.Background())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the calendar is written under a timestamped name", func() {
				convey.So(res.Path, convey.ShouldEqual, filepath.Join(cfg.OutputDir, "events_2024-09-29_18-22-31.ics"))
				convey.So(res.Events, convey.ShouldEqual, 2)
				convey.So(res.Skipped, convey.ShouldEqual, 1)

				body, err := os.ReadFile(res.Path)
				convey.So(err, convey.ShouldBeNil)
				parsed, err := ics.Verify(body, 2)
				convey.So(err, convey.ShouldBeNil)
				convey.So(parsed[0].Summary, convey.ShouldEqual, "Meeting")
				convey.So(parsed[0].Start.Equal(time.Date(2024, 9, 9, 18, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
			})

			convey.Convey("Then the user is told about the file and the journal", func() {
				convey.So(stdout.String(), convey.ShouldEqual,
					"Successfully created .ics file!\nSuccessfully written to log.\n")

				journal, err := os.ReadFile(cfg.Journal)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(journal), convey.ShouldContainSubstring, "Created 2 events on 2024-09-29 18:22:31")
			})

			convey.Convey("Then the run is counted and exported", func() {
				n, err := testutil.GatherAndCount(rec.Registry(), "easyics_events_built_total")
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 1)

				prom, err := os.ReadFile(cfg.MetricsFile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(prom), convey.ShouldContainSubstring, "easyics_events_built_total 2")
				convey.So(string(prom), convey.ShouldContainSubstring, `easyics_runs_total{result="success"} 1`)
			})
		})

		convey.Convey("When the journal is disabled", func() {
			cfg.Journal = ""
			_, err := r.Run(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(stdout.String(), convey.ShouldEqual, "Successfully created .ics file!\n")
		})

		convey.Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := r.Run(ctx)
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a dry run", t, func() {
		cfg := setup(t, eventsCSV)
		var stdout bytes.Buffer
		r := convert.NewRunner(cfg, clock, convert.WithStdout(&stdout), convert.WithDryRun(true))

		res, err := r.Run(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the calendar is printed and nothing is written", func() {
			convey.So(res.Path, convey.ShouldBeEmpty)
			convey.So(stdout.String(), convey.ShouldStartWith, "BEGIN:VCALENDAR")
			_, statErr := os.Stat(cfg.OutputDir)
			convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			_, statErr = os.Stat(cfg.Journal)
			convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a malformed record", t, func() {
		cfg := setup(t, strings.Replace(eventsCSV, "2024.09.10", "2024-09-10", 1))
		var stdout bytes.Buffer
		r := convert.NewRunner(cfg, clock, convert.WithStdout(&stdout))

		_, err := r.Run(context.Background())

		convey.Convey("Then the run aborts without output", func() {
			var fe *record.FormatError
			convey.So(errors.As(err, &fe), convey.ShouldBeTrue)
			convey.So(fe.Field, convey.ShouldEqual, "date")
			convey.So(stdout.String(), convey.ShouldBeEmpty)

			var re *ics.RecordError
			convey.So(errors.As(err, &re), convey.ShouldBeTrue)
			convey.So(re.Line, convey.ShouldEqual, 4)
			convey.So(re.Record, convey.ShouldEqual, 3)
			convey.So(err.Error(), convey.ShouldStartWith, "line 4 (record 3): ")
			_, statErr := os.Stat(cfg.OutputDir)
			convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
		})

		convey.Convey("Then the failure is still exported", func() {
			prom, readErr := os.ReadFile(cfg.MetricsFile)
			convey.So(readErr, convey.ShouldBeNil)
			convey.So(string(prom), convey.ShouldContainSubstring, `easyics_runs_total{result="failure"} 1`)
		})
	})

	convey.Convey("Given a journal path that cannot be opened", t, func() {
		cfg := setup(t, eventsCSV)
		cfg.Journal = t.TempDir()
		var stdout bytes.Buffer
		res, err := convert.NewRunner(cfg, clock, convert.WithStdout(&stdout)).Run(context.Background())

		convey.Convey("Then the run fails after the calendar was written", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "writing the journal failed")
			convey.So(res.Path, convey.ShouldNotBeEmpty)
			_, statErr := os.Stat(res.Path)
			convey.So(statErr, convey.ShouldBeNil)
			convey.So(stdout.String(), convey.ShouldEqual, "Successfully created .ics file!\n")
		})
	})

	convey.Convey("Given a missing events file", t, func() {
		cfg := setup(t, eventsCSV)
		cfg.Input = filepath.Join(t.TempDir(), "nope.csv")
		_, err := convert.NewRunner(cfg, clock, convert.WithStdout(&bytes.Buffer{})).Run(context.Background())
		convey.So(errors.Is(err, input.ErrMissing), convey.ShouldBeTrue)
	})

	convey.Convey("Given only a header line", t, func() {
		cfg := setup(t, "title,location,date,starttime,duration,notification\n")
		_, err := convert.NewRunner(cfg, clock, convert.WithStdout(&bytes.Buffer{})).Run(context.Background())
		convey.So(errors.Is(err, ics.ErrEmptyCalendar), convey.ShouldBeTrue)
	})
}

func TestValidateSchedule(t *testing.T) {
	convey.Convey("Cron expressions are validated", t, func() {
		convey.So(convert.ValidateSchedule("0 3 * * *"), convey.ShouldBeNil)
		convey.So(convert.ValidateSchedule("@every 1h"), convey.ShouldBeNil)
		convey.So(convert.ValidateSchedule("not a schedule"), convey.ShouldNotBeNil)
		convey.So(convert.ValidateSchedule(""), convey.ShouldNotBeNil)
	})
}

func TestWatchRunsAtStartup(t *testing.T) {
	convey.Convey("Given a daily schedule", t, func() {
		cfg := setup(t, eventsCSV)
		r := convert.NewRunner(cfg, convert.WithStdout(&bytes.Buffer{}))

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		convey.Convey("Then a calendar is written before the first tick", func() {
			convey.So(r.Watch(ctx, "0 3 * * *"), convey.ShouldBeNil)
			entries, err := os.ReadDir(cfg.OutputDir)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(entries), convey.ShouldEqual, 1)
			convey.So(entries[0].Name(), convey.ShouldEndWith, ".ics")
		})
	})
}

func TestWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron tick")
	}

	convey.Convey("Given a runner on a one second schedule", t, func() {
		cfg := setup(t, eventsCSV)
		cfg.Journal = ""
		rec := metrics.New()
		r := convert.NewRunner(cfg, convert.WithStdout(&bytes.Buffer{}), convert.WithDryRun(true), convert.WithMetrics(rec))

		ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
		defer cancel()

		convey.Convey("Then it runs until the context ends", func() {
			convey.So(r.Watch(ctx, "@every 1s"), convey.ShouldBeNil)
			n, err := testutil.GatherAndCount(rec.Registry(), "easyics_runs_total")
			convey.So(err, convey.ShouldBeNil)
			convey.So(n, convey.ShouldBeGreaterThanOrEqualTo, 1)
		})
	})

	convey.Convey("An invalid schedule is rejected before starting", t, func() {
		r := convert.NewRunner(config.DefaultConfig())
		convey.So(r.Watch(context.Background(), "every tuesday"), convey.ShouldNotBeNil)
	})
}
