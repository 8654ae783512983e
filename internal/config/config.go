package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Dataset  DatasetConfig
	Letter   LetterConfig
	Mail     MailConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration. FernetKey encrypts
// settings at rest and must stay stable across restarts or stored tokens
// become unreadable.
type DatabaseConfig struct {
	Path      string
	FernetKey string
}

// DatasetConfig points at the three CSV source files and controls the
// scheduled refresh. RefreshSpec takes a cron expression such as
// "@every 5m"; the value "off" disables the scheduler.
type DatasetConfig struct {
	InvestorsPath string
	CompaniesPath string
	FeeTermsPath  string
	RefreshSpec   string
}

// LetterConfig holds letter rendering configuration. An empty TemplatePath
// selects the embedded default template.
type LetterConfig struct {
	TemplatePath string
}

// MailConfig holds Microsoft Graph delivery configuration. Mode is off,
// draft, or send; Mailbox is the sending account.
type MailConfig struct {
	Mode    string
	Mailbox string
	BaseURL string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path:      getEnv("DB_PATH", "./data/fee_letters.db"),
			FernetKey: os.Getenv("FERNET_KEY"),
		},
		Dataset: DatasetConfig{
			InvestorsPath: getEnv("DATASET_INVESTORS_PATH", "./data/investors.csv"),
			CompaniesPath: getEnv("DATASET_COMPANIES_PATH", "./data/companies.csv"),
			FeeTermsPath:  getEnv("DATASET_FEE_TERMS_PATH", "./data/fee_terms.csv"),
			RefreshSpec:   getEnv("DATASET_REFRESH_CRON", "@every 5m"),
		},
		Letter: LetterConfig{
			TemplatePath: os.Getenv("LETTER_TEMPLATE_PATH"),
		},
		Mail: MailConfig{
			Mode:    getEnv("MAIL_MODE", model.MailModeOff),
			Mailbox: os.Getenv("MAIL_MAILBOX"),
			BaseURL: getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	if !model.ValidMailMode[config.Mail.Mode] {
		return nil, fmt.Errorf("invalid MAIL_MODE %q: must be off, draft, or send", config.Mail.Mode)
	}

	if config.Mail.Mode != model.MailModeOff && config.Mail.Mailbox == "" {
		return nil, fmt.Errorf("MAIL_MAILBOX is required when MAIL_MODE is %q", config.Mail.Mode)
	}

	if config.Database.FernetKey == "" {
		return nil, fmt.Errorf("FERNET_KEY is required")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
