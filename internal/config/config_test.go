package config

import (
	"reflect"
	"strings"
	"testing"
)

// clearOptional blanks every optional block so host environment variables
// cannot leak into a test.
func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "CORS_ALLOWED_ORIGINS", "MONGODB_DB_NAME",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_CATALOG_ID", "GOOGLE_SHEET_CATALOG_RANGE",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"CHANNELENGINE_BASE_URL", "CHANNELENGINE_API_KEY",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM", "SMTP_TO",
		"PRICING_MINIMUM_MARGIN_PERCENT", "PRICING_ROUNDING_RULE",
		"PRICING_DEFAULT_CHANNEL_ID", "PRICING_ACCOUNT_ID",
		"CATALOG_SYNC_CRON_SCHEDULE", "REPRICING_CRON_SCHEDULE", "PROPOSAL_PURGE_CRON_SCHEDULE",
		"TIMEZONE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearOptional(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.Server.AllowedOrigins)
	}
	if cfg.MongoDB.DBName != "repricer" {
		t.Errorf("DBName = %q, want repricer", cfg.MongoDB.DBName)
	}
	if cfg.Sheets.Enabled() || cfg.Redis.Enabled() || cfg.ChannelEngine.Enabled() || cfg.SMTP.Enabled() {
		t.Error("optional integrations must be disabled when their env vars are unset")
	}
	if cfg.Pricing.MinimumMarginPercent != 10 {
		t.Errorf("MinimumMarginPercent = %v, want 10", cfg.Pricing.MinimumMarginPercent)
	}
	if cfg.Pricing.DefaultRoundingRule != "nearest_99p" {
		t.Errorf("DefaultRoundingRule = %q, want nearest_99p", cfg.Pricing.DefaultRoundingRule)
	}
	if cfg.Pricing.DefaultChannelID != "channelengine" {
		t.Errorf("DefaultChannelID = %q, want channelengine", cfg.Pricing.DefaultChannelID)
	}
	if cfg.Scheduler.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q, want Europe/London", cfg.Scheduler.Timezone)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFullEnvironment(t *testing.T) {
	clearOptional(t)
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://dash.example.com, https://staging.example.com")
	t.Setenv("GOOGLE_SHEET_CATALOG_ID", "sheet-123")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/etc/creds.json")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CHANNELENGINE_BASE_URL", "https://acme.channelengine.net")
	t.Setenv("CHANNELENGINE_API_KEY", "key-abc")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_FROM", "repricer@example.com")
	t.Setenv("SMTP_TO", "ops@example.com")
	t.Setenv("PRICING_MINIMUM_MARGIN_PERCENT", "12.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantOrigins := []string{"https://dash.example.com", "https://staging.example.com"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, wantOrigins) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, wantOrigins)
	}
	if !cfg.Sheets.Enabled() {
		t.Error("Sheets should be enabled")
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v, want enabled with DB 2", cfg.Redis)
	}
	if !cfg.ChannelEngine.Enabled() {
		t.Error("ChannelEngine should be enabled")
	}
	if !cfg.SMTP.Enabled() || cfg.SMTP.Port != 587 {
		t.Errorf("SMTP = %+v, want enabled with default port 587", cfg.SMTP)
	}
	if cfg.Pricing.MinimumMarginPercent != 12.5 {
		t.Errorf("MinimumMarginPercent = %v, want 12.5", cfg.Pricing.MinimumMarginPercent)
	}
}

func TestLoadRequiresMongoURI(t *testing.T) {
	clearOptional(t)
	t.Setenv("MONGODB_URI", "")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "MONGODB_URI") {
		t.Fatalf("Load() error = %v, want MONGODB_URI requirement", err)
	}
}

func TestLoadRequiresCredentialsWithSheet(t *testing.T) {
	clearOptional(t)
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("GOOGLE_SHEET_CATALOG_ID", "sheet-123")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH") {
		t.Fatalf("Load() error = %v, want credentials requirement", err)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"margin not a number", "PRICING_MINIMUM_MARGIN_PERCENT", "ten"},
		{"smtp port not an integer", "SMTP_PORT", "five87"},
		{"redis db not an integer", "REDIS_DB", "primary"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearOptional(t)
			t.Setenv("MONGODB_URI", "mongodb://db:27017")
			t.Setenv(tc.key, tc.value)

			if _, err := Load(""); err == nil || !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("Load() error = %v, want complaint about %s", err, tc.key)
			}
		})
	}
}

func TestLoadRejectsNegativeMinimumMargin(t *testing.T) {
	clearOptional(t)
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("PRICING_MINIMUM_MARGIN_PERCENT", "-5")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "PRICING_MINIMUM_MARGIN_PERCENT") {
		t.Fatalf("Load() error = %v, want negative margin rejection", err)
	}
}
