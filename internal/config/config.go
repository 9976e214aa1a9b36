package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/BlsnA/EasyICS/internal/output"
)

// Config is the top-level application configuration.
type Config struct {
	// Input is the CSV file with one event per line after a header line.
	Input string `yaml:"input"`

	// OutputDir receives events_<timestamp>.ics.
	OutputDir string `yaml:"output_dir"`

	// Timezone is the observer's IANA timezone (e.g. "Europe/Berlin").
	// Empty means the system local zone.
	Timezone string `yaml:"timezone"`

	// CalendarName is written as X-WR-CALNAME.
	CalendarName string `yaml:"calendar_name"`

	// ProductID is written as PRODID.
	ProductID string `yaml:"product_id"`

	// AlarmText is the DESCRIPTION of every reminder. Empty uses the event title.
	AlarmText string `yaml:"alarm_text"`

	// Journal is the run log appended after each conversion. Empty disables it.
	Journal string `yaml:"journal"`

	// MetricsFile is a Prometheus textfile written after each run. Empty disables it.
	MetricsFile string `yaml:"metrics_file"`

	// Schedule is a cron expression (e.g. "0 3 * * *"). When set the conversion
	// is repeated on schedule until interrupted.
	Schedule string `yaml:"schedule"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

const (
	defaultInput        = "events.csv"
	defaultCalendarName = "EasyICS"
	defaultProductID    = "-//EasyICS//EN"
	defaultAlarmText    = "Reminder"
	defaultJournal      = "log.txt"
	defaultLogLevel     = "info"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Input:        defaultInput,
		OutputDir:    DefaultOutputDir(),
		Timezone:     "",
		CalendarName: defaultCalendarName,
		ProductID:    defaultProductID,
		AlarmText:    defaultAlarmText,
		Journal:      defaultJournal,
		LogLevel:     defaultLogLevel,
	}
}

// DefaultOutputDir is the user's Desktop when it exists, else the working directory.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		return desktop
	}
	return "."
}

// Normalize fills in missing values so partially-filled configs still work.
// Journal, MetricsFile, Schedule, Timezone and AlarmText may stay empty.
func (c *Config) Normalize() {
	if c.Input == "" {
		c.Input = defaultInput
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir()
	}
	if c.CalendarName == "" {
		c.CalendarName = defaultCalendarName
	}
	if c.ProductID == "" {
		c.ProductID = defaultProductID
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Load loads configuration from the given YAML path, then applies
// environment overrides (see ApplyEnv).
//
// Behavior:
//   - If path is empty, defaults are used and nothing is written.
//   - If the file does not exist, a default config is written with 0600 perms.
//   - Otherwise the YAML is read and normalized.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	// Keys missing from the file keep their defaults.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path atomically
// with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return output.WriteAtomic(path, data, 0o600)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
