package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ProviderCredentials holds the OAuth client settings for one provider.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Complete reports whether all fields required to run the
// authorization-code flow are present.
func (p ProviderCredentials) Complete() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURL != ""
}

type Config struct {
	AppPort string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	Google   ProviderCredentials
	GitHub   ProviderCredentials
	Facebook ProviderCredentials

	TokenSecret         string
	TokenIssuer         string
	TokenAudience       string
	TokenExpirationDays int

	FrontendBaseURL      string
	FrontendCallbackPath string

	// parse failures collected by Load, surfaced by Validate so a typo
	// fails startup instead of silently running with a default.
	loadErr error
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	expirationDays, expirationErr := getenvInt("TOKEN_EXPIRATION_DAYS", 90)

	cfg := Config{
		AppPort: getenv("APP_PORT", "8080"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		Google: ProviderCredentials{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		GitHub: ProviderCredentials{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GITHUB_REDIRECT_URL"),
		},
		Facebook: ProviderCredentials{
			ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("FACEBOOK_REDIRECT_URL"),
		},

		TokenSecret:         os.Getenv("TOKEN_SECRET"),
		TokenIssuer:         getenv("TOKEN_ISSUER", "jokehub"),
		TokenAudience:       getenv("TOKEN_AUDIENCE", "jokehub-web"),
		TokenExpirationDays: expirationDays,

		FrontendBaseURL:      os.Getenv("FRONTEND_BASE_URL"),
		FrontendCallbackPath: getenv("FRONTEND_CALLBACK_PATH", "/auth/callback"),

		loadErr: expirationErr,
	}

	return cfg
}

// Validate checks the settings the service cannot start without.
// Provider credentials are intentionally not required here: a provider
// with incomplete credentials is simply never registered.
func (c Config) Validate() error {
	if c.loadErr != nil {
		return fmt.Errorf("config: %w", c.loadErr)
	}
	if c.TokenSecret == "" {
		return errors.New("config: TOKEN_SECRET is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: DATABASE_DSN is required")
	}
	if c.RedisAddr == "" {
		return errors.New("config: REDIS_ADDR is required")
	}
	if c.FrontendBaseURL == "" {
		return errors.New("config: FRONTEND_BASE_URL is required")
	}
	if c.TokenExpirationDays <= 0 {
		return fmt.Errorf("config: TOKEN_EXPIRATION_DAYS must be positive, got %d", c.TokenExpirationDays)
	}
	return nil
}

// TokenTTL returns the session token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpirationDays) * 24 * time.Hour
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %q", key, v)
	}
	return n, nil
}
