package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Auth       AuthConfig
	Stripe     StripeConfig
	Cache      CacheConfig
	Sentry     SentryConfig
	Explainer  ExplainerConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"api_keys"`
}

type StripeConfig struct {
	SecretKey         string  `mapstructure:"secret_key"`
	PageSize          int64   `mapstructure:"page_size" validate:"gte=0,lte=100"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	MaxRetries        uint64  `mapstructure:"max_retries"`
}

// Enabled reports whether subscriptions can be listed from Stripe
func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type ExplainerConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseURL    string        `mapstructure:"base_url" validate:"required_if=Enabled true"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model" validate:"required_if=Enabled true"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, values already in the environment win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/subscription-analytics")

	v.SetEnvPrefix("SUBSCRIPTION_ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it without a config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.page_size", 100)
	v.SetDefault("stripe.requests_per_second", 20)
	v.SetDefault("stripe.max_retries", 3)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("explainer.enabled", false)
	v.SetDefault("explainer.base_url", "")
	v.SetDefault("explainer.api_key", "")
	v.SetDefault("explainer.model", "")
	v.SetDefault("explainer.timeout", 30*time.Second)
	v.SetDefault("explainer.max_retries", 2)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Stripe: StripeConfig{
			PageSize:          100,
			RequestsPerSecond: 20,
			MaxRetries:        3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Explainer: ExplainerConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
	}
}
