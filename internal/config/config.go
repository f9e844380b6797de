package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"eventbot/pkg/tz"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Token          string
	GuildID        string
	DatabaseURL    string
	StoreDriver    string
	MigrationsPath string
	Timezone       string
	Locale         string
	EditPolicy     string
	MemberScopes   []string
	RedisURL       string
	LockTTL        time.Duration
	MetricsAddr    string
	Environment    string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	cfg := &Config{
		Token:          os.Getenv("TOKEN"),
		GuildID:        os.Getenv("GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StoreDriver:    getenv("STORE_DRIVER", DriverPostgres),
		MigrationsPath: getenv("MIGRATIONS_PATH", "migrations"),
		Timezone:       getenv("TIMEZONE", tz.DefaultZone),
		Locale:         getenv("LOCALE", "ja"),
		EditPolicy:     getenv("EDIT_POLICY", "author_only"),
		MemberScopes:   splitList(os.Getenv("MEMBER_EDIT_SCOPES")),
		RedisURL:       os.Getenv("REDIS_URL"),
		MetricsAddr:    lookupenv("METRICS_ADDR", ":9090"),
		Environment:    getenv("ENVIRONMENT", "development"),
	}

	ttl, err := time.ParseDuration(getenv("LOCK_TTL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid LOCK_TTL: %w", err)
	}
	cfg.LockTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applies the rules every loaded configuration must satisfy.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required")
	}

	for _, r := range c.GuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: GUILD_ID must be a Discord guild id (digits only)")
		}
	}

	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Local default when DATABASE_URL is not provided.
			c.DatabaseURL = "postgres://localhost:5432/eventbot?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StoreDriver)
	}

	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid TIMEZONE: %w", err)
	}

	if c.LockTTL <= 0 {
		return fmt.Errorf("config: LOCK_TTL must be positive")
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// lookupenv is getenv, except that a variable set to empty stays empty.
func lookupenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
