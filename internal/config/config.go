package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration shared by the CLI and the
// sync daemon.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Paystack  PaystackConfig  `yaml:"paystack"`
	Booking   BookingConfig   `yaml:"booking"`
	Database  DatabaseConfig  `yaml:"database"`
	Notify    NotifyConfig    `yaml:"notify"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Status    StatusConfig    `yaml:"status"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig contains the remote hostel API settings.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	TokenFile      string `yaml:"token_file"`
}

// PaystackConfig contains payment gateway settings. Only the public key is
// held client-side; verification secrets stay with the server.
type PaystackConfig struct {
	PublicKey string `yaml:"public_key"`
	BaseURL   string `yaml:"base_url"`
}

// BookingConfig centralizes the constants the booking flow depends on. The
// booking fee used to drift between call sites; it lives here now.
type BookingConfig struct {
	Fee                 float64 `yaml:"fee"`
	Currency            string  `yaml:"currency"`
	ReferencePrefix     string  `yaml:"reference_prefix"`
	PollIntervalSeconds int     `yaml:"poll_interval_seconds"`
}

// DatabaseConfig contains PostgreSQL settings for the sync daemon's local
// snapshot store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// NotifyConfig contains operator notification settings for the daemon.
type NotifyConfig struct {
	EmailEnabled   bool   `yaml:"email_enabled"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	ToEmail        string `yaml:"to_email"`
	ToName         string `yaml:"to_name"`
}

// Watch is a hostel/date window the daemon snapshots availability for.
type Watch struct {
	HostelID     string `yaml:"hostel_id"`
	CheckInDate  string `yaml:"check_in_date"`
	CheckOutDate string `yaml:"check_out_date"`
}

// SchedulerConfig contains cron specs for the daemon's recurring jobs.
type SchedulerConfig struct {
	RefreshBalance       string  `yaml:"refresh_balance"`
	SnapshotAvailability string  `yaml:"snapshot_availability"`
	SyncBookings         string  `yaml:"sync_bookings"`
	Watches              []Watch `yaml:"watches"`
}

// StatusConfig contains the daemon's local status endpoint settings.
type StatusConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file, applies environment overrides
// and defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables.
func (c *Config) overrideWithEnv() {
	// API
	if val := os.Getenv("API_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("API_TOKEN_FILE"); val != "" {
		c.API.TokenFile = val
	}

	// Paystack
	if val := os.Getenv("PAYSTACK_PUBLIC_KEY"); val != "" {
		c.Paystack.PublicKey = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Notifications
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.SendGridAPIKey = val
	}

	// Logging
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.Paystack.BaseURL == "" {
		c.Paystack.BaseURL = "https://api.paystack.co"
	}
	if c.Booking.Fee <= 0 {
		c.Booking.Fee = 70
	}
	if c.Booking.Currency == "" {
		c.Booking.Currency = "GHS"
	}
	if c.Booking.ReferencePrefix == "" {
		c.Booking.ReferencePrefix = "BK"
	}
	if c.Booking.PollIntervalSeconds <= 0 {
		c.Booking.PollIntervalSeconds = 3
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Scheduler.RefreshBalance == "" {
		c.Scheduler.RefreshBalance = "@every 5m"
	}
	if c.Scheduler.SnapshotAvailability == "" {
		c.Scheduler.SnapshotAvailability = "@every 15m"
	}
	if c.Scheduler.SyncBookings == "" {
		c.Scheduler.SyncBookings = "@every 10m"
	}
	if c.Status.Host == "" {
		c.Status.Host = "127.0.0.1"
	}
	if c.Status.Port == 0 {
		c.Status.Port = 8090
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Notify.EmailEnabled {
		if c.Notify.SendGridAPIKey == "" {
			return fmt.Errorf("notify.sendgrid_api_key is required when email is enabled")
		}
		if c.Notify.FromEmail == "" || c.Notify.ToEmail == "" {
			return fmt.Errorf("notify.from_email and notify.to_email are required when email is enabled")
		}
	}
	return nil
}

// APITimeout returns the per-request timeout for API calls.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// PollInterval returns the availability poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Booking.PollIntervalSeconds) * time.Second
}

// DatabaseConnectionString builds the lib/pq connection string for the
// snapshot store.
func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Database, c.Database.SSLMode)
}

// StatusAddress returns the daemon status listen address.
func (c *Config) StatusAddress() string {
	return fmt.Sprintf("%s:%d", c.Status.Host, c.Status.Port)
}
