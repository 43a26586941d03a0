/*
Package config loads server settings from the environment.

SOURCES (later wins):
  1. Defaults
  2. A .env file in the working directory, if present
  3. Process environment
  4. Command-line flags (cmd/server binds them with BindFlags)

VARIABLES:
  PLANNER_ADDR           listen address (default ":8080")
  PLANNER_DB             sqlite path, ":memory:" allowed (default "planner.db")
  PLANNER_TAX_TABLES     optional YAML or JSON file with extra tax years
  PLANNER_HOLIDAY_FROM   first year of the national holiday table (default 2025)
  PLANNER_HOLIDAY_TO     last year of the national holiday table (default 2030)
  PLANNER_CORS_ORIGINS   comma separated allowed origins
  PLANNER_LOG_LEVEL      logrus level (default "info")
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings.
type Config struct {
	Addr        string
	DBPath      string
	TaxTables   string
	HolidayFrom int
	HolidayTo   int
	CORSOrigins []string
	LogLevel    string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:        ":8080",
		DBPath:      "planner.db",
		HolidayFrom: 2025,
		HolidayTo:   2030,
		LogLevel:    "info",
	}
}

// Load reads an optional .env file and then the environment on top of the
// defaults. A missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv applies the PLANNER_* variables to the defaults.
func FromEnv() Config {
	c := Default()
	c.Addr = getEnv("PLANNER_ADDR", c.Addr)
	c.DBPath = getEnv("PLANNER_DB", c.DBPath)
	c.TaxTables = getEnv("PLANNER_TAX_TABLES", c.TaxTables)
	c.HolidayFrom = getEnvAsInt("PLANNER_HOLIDAY_FROM", c.HolidayFrom)
	c.HolidayTo = getEnvAsInt("PLANNER_HOLIDAY_TO", c.HolidayTo)
	c.CORSOrigins = splitList(getEnv("PLANNER_CORS_ORIGINS", ""))
	c.LogLevel = getEnv("PLANNER_LOG_LEVEL", c.LogLevel)
	return c
}

// BindFlags registers flags that override c when fs is parsed.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.DBPath, "db", c.DBPath, `SQLite database path (":memory:" for in-memory)`)
	fs.StringVar(&c.TaxTables, "tax-tables", c.TaxTables, "YAML or JSON file with extra tax years")
	fs.IntVar(&c.HolidayFrom, "holiday-from", c.HolidayFrom, "first year of the national holiday table")
	fs.IntVar(&c.HolidayTo, "holiday-to", c.HolidayTo, "last year of the national holiday table")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.Func("cors", "comma separated allowed origins", func(s string) error {
		c.CORSOrigins = splitList(s)
		return nil
	})
}

// Validate checks the settings for obvious mistakes.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("config: listen address is empty")
	}
	if c.DBPath == "" {
		return errors.New("config: database path is empty")
	}
	if c.HolidayFrom > c.HolidayTo {
		return fmt.Errorf("config: holiday range %d..%d is inverted", c.HolidayFrom, c.HolidayTo)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
