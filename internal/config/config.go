package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Mailtrap  MailtrapConfig  `yaml:"mailtrap"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with environment override
func (c ServerConfig) GetHost() string {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection targets. AuthURL points at the
// database that owns the account table; when empty, accounts are read from
// the primary database.
type DatabaseConfig struct {
	URL     string `yaml:"url"`
	AuthURL string `yaml:"auth_url"`
}

// MailtrapConfig holds Mailtrap sending API configuration
type MailtrapConfig struct {
	Token          string `yaml:"token"`
	BaseURL        string `yaml:"base_url"`
	SenderEmail    string `yaml:"sender_email"`
	SenderName     string `yaml:"sender_name"`
	TemplateUUID   string `yaml:"template_uuid"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c MailtrapConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReconcileConfig names the destination table of each deployment. The
// records deployment is only mounted when RecordsEnabled is set.
type ReconcileConfig struct {
	MarketingTable string `yaml:"marketing_table"`
	RecordsTable   string `yaml:"records_table"`
	RecordsEnabled bool   `yaml:"records_enabled"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Mailtrap.BaseURL == "" {
		cfg.Mailtrap.BaseURL = "https://send.api.mailtrap.io"
	}
	if cfg.Mailtrap.TimeoutSeconds == 0 {
		cfg.Mailtrap.TimeoutSeconds = 30
	}
	if cfg.Reconcile.MarketingTable == "" {
		cfg.Reconcile.MarketingTable = "email_marketing"
	}
	if cfg.Reconcile.RecordsTable == "" {
		cfg.Reconcile.RecordsTable = "email_record"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if authURL := os.Getenv("AUTH_DATABASE_URL"); authURL != "" {
		cfg.Database.AuthURL = authURL
	}
	if token := os.Getenv("MAILTRAP_API_TOKEN"); token != "" {
		cfg.Mailtrap.Token = token
	}
	if baseURL := os.Getenv("MAILTRAP_BASE_URL"); baseURL != "" {
		cfg.Mailtrap.BaseURL = baseURL
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	return cfg, nil
}

// ValidateDatabase checks the values required before any store access.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (set DATABASE_URL)")
	}
	return nil
}

// ValidateMailtrap checks the values required before any outbound send.
func (c *Config) ValidateMailtrap() error {
	if c.Mailtrap.Token == "" {
		return fmt.Errorf("mailtrap.token is required (set MAILTRAP_API_TOKEN)")
	}
	if c.Mailtrap.SenderEmail == "" {
		return fmt.Errorf("mailtrap.sender_email is required")
	}
	if c.Mailtrap.TemplateUUID == "" {
		return fmt.Errorf("mailtrap.template_uuid is required")
	}
	return nil
}
