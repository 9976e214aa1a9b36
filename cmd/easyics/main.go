package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/BlsnA/EasyICS/internal/config"
	"github.com/BlsnA/EasyICS/internal/convert"
	appLog "github.com/BlsnA/EasyICS/internal/log"
)

const version = "0.1.0"

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	envFile    string
	input      string
	outputDir  string
	once       bool
	dryRun     bool
}

func main() {
	flags, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(exitCode(run(ctx, flags, os.Stdout)))
}

// exitCode logs a fatal error once and maps it to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	appLog.Error("easyics failed", err)
	return 1
}

func run(ctx context.Context, flags flagConfig, stdout io.Writer) error {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", flags.envFile, err)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", flags.configPath, err)
	}
	if flags.input != "" {
		conf.Input = flags.input
	}
	if flags.outputDir != "" {
		conf.OutputDir = flags.outputDir
	}

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		appLog.Warn("falling back to info logging", "log_level", conf.LogLevel)
	}
	appLog.SetLevel(level)

	appLog.Info("easyics starting", "version", version)
	appLog.Debug("effective config",
		"input", conf.Input,
		"output_dir", conf.OutputDir,
		"timezone", conf.Timezone,
		"journal", conf.Journal,
		"metrics_file", conf.MetricsFile,
		"schedule", conf.Schedule,
		"once", flags.once,
		"dry_run", flags.dryRun,
	)

	runner := convert.NewRunner(conf,
		convert.WithStdout(stdout),
		convert.WithDryRun(flags.dryRun),
	)

	if conf.Schedule == "" || flags.once {
		_, err := runner.Run(ctx)
		return err
	}
	return runner.Watch(ctx, conf.Schedule)
}

func parseFlags(args []string, errOut io.Writer) (flagConfig, error) {
	var cfg flagConfig

	fs := flag.NewFlagSet("easyics", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&cfg.configPath, "config", "", "Path to config file (created with defaults if missing)")
	fs.StringVar(&cfg.envFile, "env", ".env", "Path to a dotenv file with EASYICS_* overrides")
	fs.StringVar(&cfg.input, "input", "", "Events CSV file (overrides config if set)")
	fs.StringVar(&cfg.outputDir, "out", "", "Output directory (overrides config if set)")
	fs.BoolVar(&cfg.once, "once", false, "Run one conversion and exit even if a schedule is configured")
	fs.BoolVar(&cfg.dryRun, "dry-run", false, "Print the calendar to stdout; write no files")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}
