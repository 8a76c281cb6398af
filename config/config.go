/*
Package config loads runtime settings from the environment.

ENVIRONMENT:
  PAYROLL_ADDR                 HTTP listen address        (default ":8080")
  PAYROLL_DB                   SQLite database path       (default "payroll.db")
  PAYROLL_ENV                  development | production   (default "production")
  PAYROLL_WORKERS              Concurrent payees per run  (default 1)
  PAYROLL_SCHEDULER            Run payday automatically   (default false)
  PAYROLL_SCHEDULER_INTERVAL   How often the scheduler checks (default 1h)

  A .env file in the working directory is loaded first when present.
  Variables already set in the process environment win over .env.
  Command-line flags in cmd/payroll override both.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Addr              string
	DBPath            string
	Environment       string
	Workers           int
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
}

// Load reads .env (if any) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() Config {
	return Config{
		Addr:              getEnv("PAYROLL_ADDR", ":8080"),
		DBPath:            getEnv("PAYROLL_DB", "payroll.db"),
		Environment:       getEnv("PAYROLL_ENV", "production"),
		Workers:           getEnvInt("PAYROLL_WORKERS", 1),
		SchedulerEnabled:  getEnvBool("PAYROLL_SCHEDULER", false),
		SchedulerInterval: getEnvDuration("PAYROLL_SCHEDULER_INTERVAL", time.Hour),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("PAYROLL_DB is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	if c.SchedulerEnabled && c.SchedulerInterval <= 0 {
		return fmt.Errorf("PAYROLL_SCHEDULER_INTERVAL must be positive")
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// NewLogger builds the process logger for the configured environment.
func (c Config) NewLogger() (*zap.Logger, error) {
	if c.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
