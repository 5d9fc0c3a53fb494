// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Integrations IntegrationConfig  `mapstructure:"integrations"`
	Verification VerificationConfig `mapstructure:"verification"`
	Forms        FormsConfig        `mapstructure:"forms"`
	Automation   AutomationConfig   `mapstructure:"automation"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Origin is the public base URL used for checkout success/cancel
	// redirects when the request carries no Origin header.
	Origin        string `mapstructure:"origin"`
	CalBookingURL string `mapstructure:"cal_booking_url"`
}

// StorageConfig selects the submission-log backend.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend         string `mapstructure:"backend"`
	SubmissionsPath string `mapstructure:"submissions_path"`
	LedgerBackend   string `mapstructure:"ledger_backend"` // "redis" or "file"
	LedgerPath      string `mapstructure:"ledger_path"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Integration Configuration ---

// IntegrationConfig holds settings for CRM, payments, and notification
// channels.
type IntegrationConfig struct {
	Kit      KitConfig      `mapstructure:"kit"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Discord  DiscordConfig  `mapstructure:"discord"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	AWS      AWSConfig      `mapstructure:"aws"`
}

// KitConfig holds credentials and tag IDs for the Kit (ConvertKit)
// email/CRM platform. Tag IDs default to the production account values.
type KitConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TagApplicant   string `mapstructure:"tag_applicant"`
	TagQualified   string `mapstructure:"tag_qualified"`
	TagUnqualified string `mapstructure:"tag_unqualified"`
	TagCallBooked  string `mapstructure:"tag_call_booked"`
	TagMember      string `mapstructure:"tag_member"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	BaseURL       string `mapstructure:"base_url"`
}

type DiscordConfig struct {
	BotToken         string `mapstructure:"bot_token"`
	WelcomeChannelID string `mapstructure:"welcome_channel_id"`
	DashboardWebhook string `mapstructure:"dashboard_webhook"`
	InviteSecret     string `mapstructure:"invite_secret"`
	BaseURL          string `mapstructure:"base_url"`
}

type SheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	AccessToken   string `mapstructure:"access_token"`
	SheetName     string `mapstructure:"sheet_name"`
	BaseURL       string `mapstructure:"base_url"`
}

type WhatsAppConfig struct {
	GatewayURL   string `mapstructure:"gateway_url"`
	GatewayToken string `mapstructure:"gateway_token"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SES    struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"ses"`
	SNS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
	} `mapstructure:"sns"`
}

// VerificationConfig holds YouTube channel verification settings.
type VerificationConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	MinVideos   int    `mapstructure:"min_videos"`
	RecencyDays int    `mapstructure:"recency_days"`
	MinMaxViews int    `mapstructure:"min_max_views"`
	MinAvgViews int    `mapstructure:"min_avg_views"`
}

// FormsConfig holds the Google-Forms relay target and its per-field
// entry IDs. Empty entry IDs skip that field.
type FormsConfig struct {
	ActionURL string            `mapstructure:"action_url"`
	Fields    map[string]string `mapstructure:"fields"`
	Qualified string            `mapstructure:"qualified_entry"`
	Score     string            `mapstructure:"score_entry"`
}

// AutomationConfig holds settings for the polling tag sweep.
type AutomationConfig struct {
	CronSecret    string `mapstructure:"cron_secret"`
	OperatorPhone string `mapstructure:"operator_phone"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
