// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like STRIPE_SECRET_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root,
// so tests running from package directories pick it up too.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars expands ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills credentials from plain environment variables
// when the YAML left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Integrations.Kit.APIKey == "" {
		if val := os.Getenv("KIT_API_KEY"); val != "" {
			cfg.Integrations.Kit.APIKey = val
		}
	}
	if cfg.Integrations.Stripe.SecretKey == "" {
		if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
			cfg.Integrations.Stripe.SecretKey = val
		}
	}
	if cfg.Integrations.Stripe.WebhookSecret == "" {
		if val := os.Getenv("STRIPE_WEBHOOK_SECRET"); val != "" {
			cfg.Integrations.Stripe.WebhookSecret = val
		}
	}
	if cfg.Integrations.Discord.BotToken == "" {
		if val := os.Getenv("DISCORD_BOT_TOKEN"); val != "" {
			cfg.Integrations.Discord.BotToken = val
		}
	}
	if cfg.Integrations.Discord.DashboardWebhook == "" {
		if val := os.Getenv("DISCORD_WEBHOOK_DASHBOARD"); val != "" {
			cfg.Integrations.Discord.DashboardWebhook = val
		}
	}
	if cfg.Integrations.Discord.InviteSecret == "" {
		if val := os.Getenv("INVITE_SECRET"); val != "" {
			cfg.Integrations.Discord.InviteSecret = val
		}
	}
	if cfg.Integrations.Sheets.AccessToken == "" {
		if val := os.Getenv("GOOGLE_SHEETS_ACCESS_TOKEN"); val != "" {
			cfg.Integrations.Sheets.AccessToken = val
		}
	}
	if cfg.Integrations.Sheets.SpreadsheetID == "" {
		if val := os.Getenv("GOOGLE_SHEET_ID"); val != "" {
			cfg.Integrations.Sheets.SpreadsheetID = val
		}
	}
	if cfg.Integrations.WhatsApp.GatewayURL == "" {
		if val := os.Getenv("OPENCLAW_GATEWAY_URL"); val != "" {
			cfg.Integrations.WhatsApp.GatewayURL = val
		}
	}
	if cfg.Integrations.WhatsApp.GatewayToken == "" {
		if val := os.Getenv("OPENCLAW_GATEWAY_TOKEN"); val != "" {
			cfg.Integrations.WhatsApp.GatewayToken = val
		}
	}
	if cfg.Verification.APIKey == "" {
		if val := os.Getenv("YOUTUBE_API_KEY"); val != "" {
			cfg.Verification.APIKey = val
		}
	}
	if cfg.Automation.CronSecret == "" {
		if val := os.Getenv("CRON_SECRET"); val != "" {
			cfg.Automation.CronSecret = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.Origin == "" {
		cfg.Server.Origin = "https://apply.boundlesscreator.com"
	}
	if cfg.Server.CalBookingURL == "" {
		cfg.Server.CalBookingURL = "https://cal.com/davejeltema/bcp-1"
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.SubmissionsPath == "" {
		cfg.Storage.SubmissionsPath = "data/submissions.json"
	}
	if cfg.Storage.LedgerBackend == "" {
		cfg.Storage.LedgerBackend = "file"
	}
	if cfg.Storage.LedgerPath == "" {
		cfg.Storage.LedgerPath = "data/automation-state.json"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Kit tag IDs default to the production account values.
	if cfg.Integrations.Kit.BaseURL == "" {
		cfg.Integrations.Kit.BaseURL = "https://api.kit.com/v4"
	}
	if cfg.Integrations.Kit.TagApplicant == "" {
		cfg.Integrations.Kit.TagApplicant = "15754298"
	}
	if cfg.Integrations.Kit.TagQualified == "" {
		cfg.Integrations.Kit.TagQualified = "15773880"
	}
	if cfg.Integrations.Kit.TagUnqualified == "" {
		cfg.Integrations.Kit.TagUnqualified = "15773881"
	}
	if cfg.Integrations.Kit.TagCallBooked == "" {
		cfg.Integrations.Kit.TagCallBooked = "15773882"
	}
	if cfg.Integrations.Kit.TagMember == "" {
		cfg.Integrations.Kit.TagMember = "8240961"
	}

	if cfg.Integrations.Stripe.BaseURL == "" {
		cfg.Integrations.Stripe.BaseURL = "https://api.stripe.com/v1"
	}
	if cfg.Integrations.Discord.BaseURL == "" {
		cfg.Integrations.Discord.BaseURL = "https://discord.com/api/v10"
	}
	if cfg.Integrations.Sheets.BaseURL == "" {
		cfg.Integrations.Sheets.BaseURL = "https://sheets.googleapis.com/v4"
	}
	if cfg.Integrations.Sheets.SheetName == "" {
		cfg.Integrations.Sheets.SheetName = "Form Responses 1"
	}

	if cfg.Verification.BaseURL == "" {
		cfg.Verification.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.Verification.MinVideos == 0 {
		cfg.Verification.MinVideos = 10
	}
	if cfg.Verification.RecencyDays == 0 {
		cfg.Verification.RecencyDays = 180
	}
	if cfg.Verification.MinMaxViews == 0 {
		cfg.Verification.MinMaxViews = 5000
	}
	if cfg.Verification.MinAvgViews == 0 {
		cfg.Verification.MinAvgViews = 500
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Storage.Backend != "file" && cfg.Storage.Backend != "postgres" {
		return fmt.Errorf("storage.backend must be file or postgres")
	}
	if cfg.Storage.LedgerBackend != "file" && cfg.Storage.LedgerBackend != "redis" {
		return fmt.Errorf("storage.ledger_backend must be file or redis")
	}

	if cfg.Storage.Backend == "postgres" {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres backend")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres backend")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required for the postgres backend")
		}
	}

	if cfg.Storage.LedgerBackend == "redis" && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required for the redis ledger")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
