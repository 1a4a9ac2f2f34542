// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ShopCatalog/internal/catalog"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	minJWTSecretLen = 32
)

type Config struct {
	Port     string
	BasePath string

	Store      string
	DSN        string
	Seed       bool
	Categories []string

	CORSOrigins []string

	MetricsEnabled bool
	MetricsToken   string

	WriteLimitPerMin int
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	TrustProxy bool

	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	TokenTTL      time.Duration
}

// AuthEnabled reports whether mutating endpoints require an admin token.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

func (c Config) Addr() string { return ":" + c.Port }

// Load reads .env files (if any) and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("PORT", "4000")
	v.SetDefault("CATALOG_BASE_PATH", "/api")
	v.SetDefault("CATALOG_STORE", StoreMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("CATALOG_SEED", true)
	v.SetDefault("CATALOG_CATEGORIES", strings.Join(catalog.DefaultCategories, ","))
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_TOKEN", "")
	v.SetDefault("WRITE_LIMIT_PER_MIN", 60)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("TOKEN_TTL", "15m")

	v.AutomaticEnv()
	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Port:     strings.TrimPrefix(v.GetString("PORT"), ":"),
		BasePath: v.GetString("CATALOG_BASE_PATH"),

		Store:      strings.ToLower(v.GetString("CATALOG_STORE")),
		DSN:        v.GetString("DATABASE_URL"),
		Seed:       v.GetBool("CATALOG_SEED"),
		Categories: splitList(v.GetString("CATALOG_CATEGORIES")),

		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		MetricsToken:   v.GetString("METRICS_TOKEN"),

		WriteLimitPerMin: v.GetInt("WRITE_LIMIT_PER_MIN"),
		TrustProxy:       v.GetBool("TRUST_PROXY"),

		JWTSecret:     v.GetString("JWT_SECRET"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("CATALOG_BASE_PATH must start with /: %q", c.BasePath))
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres, StoreSQLite:
		if c.DSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for store %q", c.Store))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_STORE %q", c.Store))
	}

	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("CATALOG_CATEGORIES must list at least one category"))
	}
	if c.WriteLimitPerMin < 0 {
		errs = append(errs, errors.New("WRITE_LIMIT_PER_MIN must not be negative"))
	}

	if c.AuthEnabled() {
		if len(c.JWTSecret) < minJWTSecretLen {
			errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d chars", minJWTSecretLen))
		}
		if c.AdminEmail == "" || c.AdminPassword == "" {
			errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required when JWT_SECRET is set"))
		}
		if c.TokenTTL <= 0 {
			errs = append(errs, errors.New("TOKEN_TTL must be positive"))
		}
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
