// Package config loads the catalog's runtime configuration.
//
// Values come from CATALOG_-prefixed environment variables (a `.env` file is
// autoloaded first), are mapped into the Config struct with koanf and checked
// with go-playground/validator so the process fails fast on missing settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment, if present.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every environment variable before mapping.
//
// Nested keys are separated by a double underscore:
//
//	CATALOG_SERVER__PORT          -> server.port
//	CATALOG_AUTH__SESSION_TTL     -> auth.session_ttl
const EnvPrefix = "CATALOG_"

// ServiceName tags logs and New Relic transactions.
const ServiceName = "catalog"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected by Load.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
	// PublicURL is the externally visible base URL, used in emails.
	PublicURL string `koanf:"public_url" validate:"omitempty,url"`
}

// RateLimitConfig throttles the login endpoints per client IP.
type RateLimitConfig struct {
	// Rate is the number of requests per second allowed per client.
	Rate float64 `koanf:"rate" validate:"gte=0"`
	// Burst is the token bucket size.
	Burst int `koanf:"burst" validate:"gte=0"`
	// ExpiresIn controls how long an idle client's bucket is kept.
	ExpiresIn time.Duration `koanf:"expires_in"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Redis backs both the session store and the job queue.
type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AuthConfig stores identity provider credentials and session settings.
type AuthConfig struct {
	GoogleClientID     string `koanf:"google_client_id" validate:"required"`
	GoogleClientSecret string `koanf:"google_client_secret" validate:"required"`
	// GoogleRedirectURI is "postmessage" for the one-time-code JS flow.
	GoogleRedirectURI string `koanf:"google_redirect_uri"`

	// ClerkSecretKey enables the Clerk provider when set.
	ClerkSecretKey string `koanf:"clerk_secret_key"`

	SessionCookie string        `koanf:"session_cookie"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
}

// IntegrationConfig holds third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// Providers lists the identity providers that are configured.
func (a AuthConfig) Providers() []string {
	providers := []string{"google"}
	if a.ClerkSecretKey != "" {
		providers = append(providers, "clerk")
	}
	return providers
}

// IsProduction reports whether the primary environment is production.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// DSN builds the postgres:// connection string for pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		escapePassword(d.Password),
		hostPort(d.Host, d.Port),
		d.Name,
		d.SSLMode,
	)
}

// Load reads the environment, unmarshals it into Config, validates it and
// applies defaults for optional blocks.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s, v string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		key = strings.ReplaceAll(key, "__", ".")
		if listKeys[key] {
			return key, splitList(v)
		}
		return key, v
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// listKeys are comma-separated in the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	// Service name and environment always follow the primary config.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.Auth.GoogleRedirectURI == "" {
		c.Auth.GoogleRedirectURI = "postmessage"
	}
	if c.Auth.SessionCookie == "" {
		c.Auth.SessionCookie = "catalog_session"
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 24 * time.Hour
	}

	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:" + c.Server.Port
	}
	c.Server.PublicURL = strings.TrimSuffix(c.Server.PublicURL, "/")

	if c.Server.RateLimit.Rate == 0 {
		c.Server.RateLimit.Rate = 5
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 10
	}
	if c.Server.RateLimit.ExpiresIn == 0 {
		c.Server.RateLimit.ExpiresIn = 3 * time.Minute
	}

	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Catalog <onboarding@resend.dev>"
	}
}
