package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StandingsURL    string        `envconfig:"STANDINGS_URL" default:"https://www.majorleaguepickleball.co/events-2025/?division=premier&view=player#standings-table"`
	TableID         string        `envconfig:"TABLE_ID" default:"standings-table"`
	ChromeBin       string        `envconfig:"CHROME_BIN"`
	ChromeDebugPort int           `envconfig:"CHROME_DEBUG_PORT" default:"9222"`
	ReadyTimeout    time.Duration `envconfig:"READY_TIMEOUT" default:"30s"`
	SettleDelay     time.Duration `envconfig:"SETTLE_DELAY" default:"0s"`

	RawCSVPath     string `envconfig:"RAW_CSV_PATH" default:"./output/raw_stats.csv"`
	CleanCSVPath   string `envconfig:"CLEAN_CSV_PATH" default:"./output/mlp_stats.csv"`
	XLSXOutputPath string `envconfig:"XLSX_OUTPUT_PATH" default:"./output/mlp_stats.xlsx"`

	DBDriver         string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"rally"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"rally"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"rally_metrics"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	SQLitePath       string `envconfig:"SQLITE_PATH" default:"./output/rally_metrics.db"`

	// PercentStripSign drops a trailing "%" from percent statistics before parsing.
	PercentStripSign   bool   `envconfig:"PERCENT_STRIP_SIGN" default:"true"`
	ThousandsSeparator string `envconfig:"THOUSANDS_SEPARATOR"`

	SyncHour     int    `envconfig:"SYNC_HOUR" default:"8"`
	SyncTimezone string `envconfig:"SYNC_TIMEZONE" default:"America/Los_Angeles"`

	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// GeminiAPIKey enables generated player profiles; empty keeps the plain record.
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiURL     string        `envconfig:"GEMINI_URL"`
	GeminiTimeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (want postgres or sqlite)", c.DBDriver)
	}
	if c.SyncHour < 0 || c.SyncHour > 23 {
		return fmt.Errorf("config: SYNC_HOUR must be 0-23, got %d", c.SyncHour)
	}
	if c.TableID == "" {
		return fmt.Errorf("config: TABLE_ID must not be empty")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
