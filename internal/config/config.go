// Package config loads runtime settings from the environment and an
// optional app.env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values of Store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all runtime settings.
type Config struct {
	Addr   string `mapstructure:"ADDR"`
	WebDir string `mapstructure:"WEB_DIR"`
	TZ     string `mapstructure:"TZ"`

	Store        string        `mapstructure:"STORE"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	SQLitePath   string        `mapstructure:"SQLITE_PATH"`
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT"`

	OpenAIAPIKey   string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel    string        `mapstructure:"OPENAI_MODEL"`
	AnalyzeTimeout time.Duration `mapstructure:"ANALYZE_TIMEOUT"`

	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	AnalyzeRateLimit  int           `mapstructure:"ANALYZE_RATE_LIMIT"`
	AnalyzeRateWindow time.Duration `mapstructure:"ANALYZE_RATE_WINDOW"`

	SimulatedClock   bool `mapstructure:"SIMULATED_CLOCK"`
	TrustForwardAuth bool `mapstructure:"TRUST_FORWARD_AUTH"`
	CookieSecure     bool `mapstructure:"COOKIE_SECURE"`

	OIDCIssuer       string `mapstructure:"OIDC_ISSUER"`
	OIDCClientID     string `mapstructure:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `mapstructure:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `mapstructure:"OIDC_REDIRECT_URL"`
}

var defaults = map[string]any{
	"ADDR":                ":8080",
	"WEB_DIR":             "web",
	"TZ":                  "",
	"STORE":               StoreMemory,
	"DATABASE_URL":        "",
	"SQLITE_PATH":         "data/nutritrack.db",
	"STORE_TIMEOUT":       "5s",
	"OPENAI_API_KEY":      "",
	"OPENAI_BASE_URL":     "",
	"OPENAI_MODEL":        "gpt-3.5-turbo",
	"ANALYZE_TIMEOUT":     "20s",
	"REDIS_ADDR":          "",
	"ANALYZE_RATE_LIMIT":  10,
	"ANALYZE_RATE_WINDOW": "1m",
	"SIMULATED_CLOCK":     false,
	"TRUST_FORWARD_AUTH":  false,
	"COOKIE_SECURE":       false,
	"OIDC_ISSUER":         "",
	"OIDC_CLIENT_ID":      "",
	"OIDC_CLIENT_SECRET":  "",
	"OIDC_REDIRECT_URL":   "",
}

// Load reads app.env from path if it exists and overlays the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return cfg, cfg.Validate()
}

// Validate checks combinations that cannot work at runtime.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	if c.Store == StoreSQLite && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when STORE=sqlite")
	}
	if c.AnalyzeRateLimit < 0 {
		return errors.New("ANALYZE_RATE_LIMIT must be >= 0")
	}
	return nil
}

// OIDCEnabled reports whether SSO is configured.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// Location resolves TZ, defaulting to the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.TZ == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TZ)
}
