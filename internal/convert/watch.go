package convert

import (
	"context"
	"fmt"

	appLog "github.com/BlsnA/EasyICS/internal/log"
	"github.com/robfig/cron/v3"
)

// ValidateSchedule reports whether spec is a usable cron expression.
// Standard five-field specs and descriptors such as "@every 1h" are accepted.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Watch runs one conversion immediately, then repeats it on the cron
// schedule spec until ctx is canceled. A failed run is logged and the
// schedule continues.
func (r *Runner) Watch(ctx context.Context, spec string) error {
	if err := ValidateSchedule(spec); err != nil {
		return err
	}

	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	job := func() {
		res, err := r.Run(ctx)
		if err != nil {
			appLog.Error("scheduled conversion failed", err, "schedule", spec)
			return
		}
		appLog.Info("scheduled conversion done", "path", res.Path, "events", res.Events)
	}
	if _, err := c.AddFunc(spec, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	appLog.Info("watching", "schedule", spec)
	job()
	c.Start()
	<-ctx.Done()

	// Wait for a running conversion to finish.
	<-c.Stop().Done()
	appLog.Info("watch stopped")
	return nil
}

// cronLogger routes cron's own messages into the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}
