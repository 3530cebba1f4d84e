package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server        ServerConfig
	MongoDB       MongoDBConfig
	Sheets        SheetsConfig
	Redis         RedisConfig
	ChannelEngine ChannelEngineConfig
	SMTP          SMTPConfig
	Pricing       PricingConfig
	Scheduler     SchedulerConfig
	LogLevel      string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Catalog sync is disabled when no spreadsheet is configured.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	CatalogRange    string
}

// Enabled reports whether catalog ingest from Sheets is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// RedisConfig holds settings for the Redis run-lock and summary cache. The
// application degrades to lockless single-instance behaviour when unset.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether Redis is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ChannelEngineConfig contains credentials for the ChannelEngine merchant API.
// Approved proposals are only pushed when both values are present.
type ChannelEngineConfig struct {
	BaseURL string
	APIKey  string
}

// Enabled reports whether price pushes to ChannelEngine are configured.
func (c ChannelEngineConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// SMTPConfig holds settings for batch notification mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Enabled reports whether notification mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && c.To != ""
}

// PricingConfig carries the run-wide pricing constraints.
type PricingConfig struct {
	MinimumMarginPercent float64
	DefaultRoundingRule  string
	DefaultChannelID     string
	AccountID            string
}

// SchedulerConfig holds cron expressions for the background jobs.
type SchedulerConfig struct {
	CatalogSyncSchedule string
	RepricingSchedule   string
	PurgeSchedule       string
	Timezone            string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	minMargin, err := getenvFloat("PRICING_MINIMUM_MARGIN_PERCENT", 10)
	if err != nil {
		return nil, err
	}
	smtpPort, err := getenvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	redisDB, err := getenvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitCSV(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "repricer"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_CATALOG_ID"),
			CatalogRange:    getenvWithDefault("GOOGLE_SHEET_CATALOG_RANGE", "Catalog!A2:K"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		ChannelEngine: ChannelEngineConfig{
			BaseURL: getenvWithDefault("CHANNELENGINE_BASE_URL", ""),
			APIKey:  os.Getenv("CHANNELENGINE_API_KEY"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			To:       os.Getenv("SMTP_TO"),
		},
		Pricing: PricingConfig{
			MinimumMarginPercent: minMargin,
			DefaultRoundingRule:  getenvWithDefault("PRICING_ROUNDING_RULE", "nearest_99p"),
			DefaultChannelID:     getenvWithDefault("PRICING_DEFAULT_CHANNEL_ID", "channelengine"),
			AccountID:            getenvWithDefault("PRICING_ACCOUNT_ID", "default"),
		},
		Scheduler: SchedulerConfig{
			CatalogSyncSchedule: getenvWithDefault("CATALOG_SYNC_CRON_SCHEDULE", "0 6 * * *"),
			RepricingSchedule:   getenvWithDefault("REPRICING_CRON_SCHEDULE", "30 6 * * *"),
			PurgeSchedule:       getenvWithDefault("PROPOSAL_PURGE_CRON_SCHEDULE", "0 3 * * *"),
			Timezone:            getenvWithDefault("TIMEZONE", "Europe/London"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when a catalog sheet is configured")
	}

	if c.Pricing.MinimumMarginPercent < 0 {
		return errors.New("PRICING_MINIMUM_MARGIN_PERCENT must not be negative")
	}
	if c.Pricing.DefaultChannelID == "" {
		return errors.New("PRICING_DEFAULT_CHANNEL_ID must be provided")
	}

	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
