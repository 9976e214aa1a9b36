package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override, e.g. EASYICS_TIMEZONE.
const EnvPrefix = "EASYICS_"

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error; variables already set are not overwritten.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overrides fields from EASYICS_* variables. A variable that is set
// but empty clears the field.
func (c *Config) ApplyEnv() error {
	if c == nil {
		return errors.New("config is nil")
	}
	for key, field := range c.envFields() {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*field = v
		}
	}
	return nil
}

func (c *Config) envFields() map[string]*string {
	return map[string]*string{
		"INPUT":         &c.Input,
		"OUTPUT_DIR":    &c.OutputDir,
		"TIMEZONE":      &c.Timezone,
		"CALENDAR_NAME": &c.CalendarName,
		"PRODUCT_ID":    &c.ProductID,
		"ALARM_TEXT":    &c.AlarmText,
		"JOURNAL":       &c.Journal,
		"METRICS_FILE":  &c.MetricsFile,
		"SCHEDULE":      &c.Schedule,
		"LOG_LEVEL":     &c.LogLevel,
	}
}
