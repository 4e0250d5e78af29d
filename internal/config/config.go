package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Public application URL (used for auth callbacks and links in emails)
	AppURL string `mapstructure:"APP_URL"`

	// Database configuration
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     string `mapstructure:"DB_PORT"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseSSLMode  string `mapstructure:"DB_SSL_MODE"`

	// Auth provider configuration
	AuthPublishableKey string `mapstructure:"AUTH_PUBLISHABLE_KEY"`
	AuthSecretKey      string `mapstructure:"AUTH_SECRET_KEY"`
	AuthProviderURL    string `mapstructure:"AUTH_PROVIDER_URL"`

	// CORS configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Optional: email delivery
	EmailAPIKey string `mapstructure:"EMAIL_API_KEY"`
	EmailAPIURL string `mapstructure:"EMAIL_API_URL"`
	EmailFrom   string `mapstructure:"EMAIL_FROM"`

	// Optional: background jobs (durable-execution service)
	JobsEventKey string `mapstructure:"JOBS_EVENT_KEY"`
	JobsEventURL string `mapstructure:"JOBS_EVENT_URL"`

	// Optional: error monitoring
	MonitoringDSN string `mapstructure:"MONITORING_DSN"`

	// Optional: edge deployment
	EdgeAPIToken string `mapstructure:"EDGE_API_TOKEN"`
	EdgePort     string `mapstructure:"EDGE_PORT"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL from DB_* parts if not provided directly
	if config.DatabaseURL == "" {
		config.DatabaseURL = buildDatabaseURL(&config)
	}

	// Validate required fields before any other component initializes
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// Keys without a usable default still need to be registered so
	// AutomaticEnv picks them up during Unmarshal.
	viper.SetDefault("APP_URL", "")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("AUTH_PUBLISHABLE_KEY", "")
	viper.SetDefault("AUTH_SECRET_KEY", "")
	viper.SetDefault("EMAIL_API_KEY", "")
	viper.SetDefault("JOBS_EVENT_KEY", "")
	viper.SetDefault("MONITORING_DSN", "")
	viper.SetDefault("EDGE_API_TOKEN", "")

	// Database defaults (parts used to assemble DATABASE_URL when unset)
	viper.SetDefault("DB_HOST", "")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "")
	viper.SetDefault("DB_SSL_MODE", "disable")

	// Auth provider defaults
	viper.SetDefault("AUTH_PROVIDER_URL", "https://accounts.saasstarter.dev")

	// CORS defaults
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	// Email defaults
	viper.SetDefault("EMAIL_API_URL", "https://api.resend.com")
	viper.SetDefault("EMAIL_FROM", "noreply@saasstarter.dev")

	// Jobs defaults
	viper.SetDefault("JOBS_EVENT_URL", "https://inn.gs")

	// Edge defaults
	viper.SetDefault("EDGE_PORT", "8787")
}

func buildDatabaseURL(config *Config) string {
	if config.DatabaseHost == "" || config.DatabaseName == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
		config.DatabaseSSLMode,
	)
}

// Validate checks that all required keys are present and non-empty.
// The returned error names every missing key so a broken deployment is
// diagnosable from a single startup log line. Optional keys (email, jobs,
// monitoring, edge token) may be absent; their features are disabled instead.
func (c *Config) Validate() error {
	var missing []string

	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.AuthPublishableKey == "" {
		missing = append(missing, "AUTH_PUBLISHABLE_KEY")
	}
	if c.AuthSecretKey == "" {
		missing = append(missing, "AUTH_SECRET_KEY")
	}
	if c.AppURL == "" {
		missing = append(missing, "APP_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// EmailEnabled reports whether the optional email delivery feature is configured
func (c *Config) EmailEnabled() bool {
	return c.EmailAPIKey != ""
}

// JobsEnabled reports whether the optional background-jobs feature is configured
func (c *Config) JobsEnabled() bool {
	return c.JobsEventKey != ""
}

// MonitoringEnabled reports whether the optional error-monitoring feature is configured
func (c *Config) MonitoringEnabled() bool {
	return c.MonitoringDSN != ""
}
