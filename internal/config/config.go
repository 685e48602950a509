package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string `envconfig:"APP_PORT" default:"8080"`

	MySQLHost string `envconfig:"MYSQL_HOST" default:"mysql"`
	MySQLPort string `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLDB   string `envconfig:"MYSQL_DB" default:"library"`
	MySQLUser string `envconfig:"MYSQL_USER" default:"library"`
	MySQLPass string `envconfig:"MYSQL_PASS" default:"library"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	IdempTTLSecs int `envconfig:"IDEMPOTENCY_TTL_SECONDS" default:"300"`

	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	DBLogLevel string `envconfig:"DB_LOG_LEVEL" default:"warn"`

	Timezone      string          `envconfig:"LIBRARY_TIMEZONE" default:"UTC"`
	LoanDays      int             `envconfig:"LOAN_DAYS" default:"14"`
	DailyFineRate decimal.Decimal `envconfig:"DAILY_FINE_RATE" default:"5.00"`

	SweepCron    string `envconfig:"SWEEP_CRON" default:"5 0 * * *"`
	SweepOnStart bool   `envconfig:"SWEEP_ON_START" default:"true"`
	AutoMigrate  bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

// Load reads a .env file when one exists, then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid LIBRARY_TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.LoanDays < 1 {
		return fmt.Errorf("LOAN_DAYS must be at least 1, got %d", c.LoanDays)
	}
	if c.DailyFineRate.IsNegative() {
		return fmt.Errorf("DAILY_FINE_RATE must not be negative, got %s", c.DailyFineRate)
	}
	if _, err := cron.ParseStandard(c.SweepCron); err != nil {
		return fmt.Errorf("invalid SWEEP_CRON %q: %w", c.SweepCron, err)
	}
	return nil
}

// Location is the library's timezone; call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATE/DATETIME; loc=UTC keeps DATE columns at UTC midnight
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
