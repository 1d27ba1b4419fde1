// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeocodeConfig provides settings for the geocoding provider.
type GeocodeConfig interface {
	GetMapsAPIKey() string
	GetMapsBaseURL() string
	GetMapsCountry() string
	GetMapsLanguage() string
	GetMapsTimeout() time.Duration
	GetMapsRequestsPerSecond() float64
}

// SearchConfig provides settings for debounced place search sessions.
type SearchConfig interface {
	GetSearchDebounce() time.Duration
	GetSearchTokenTTL() time.Duration
}

// GazetteerConfig provides the location of the estate gazetteer data set.
type GazetteerConfig interface {
	GetGazetteerPath() string
}

// RedisConfig provides settings for the Redis connection.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// AddressBookConfig provides settings for saved addresses.
type AddressBookConfig interface {
	GetPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTAccessSecret       string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	MapsAPIKey            string
	MapsBaseURL           string
	MapsCountry           string
	MapsLanguage          string
	MapsTimeout           time.Duration
	MapsRequestsPerSecond float64
	SearchDebounce        time.Duration
	SearchTokenTTL        time.Duration
	GazetteerPath         string
	RedisURL              string
	RedisTLSInsecure      bool
	PhoneRegion           string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GeocodeConfig implementation
func (c *Config) GetMapsAPIKey() string              { return c.MapsAPIKey }
func (c *Config) GetMapsBaseURL() string             { return c.MapsBaseURL }
func (c *Config) GetMapsCountry() string             { return c.MapsCountry }
func (c *Config) GetMapsLanguage() string            { return c.MapsLanguage }
func (c *Config) GetMapsTimeout() time.Duration      { return c.MapsTimeout }
func (c *Config) GetMapsRequestsPerSecond() float64 { return c.MapsRequestsPerSecond }

// SearchConfig implementation
func (c *Config) GetSearchDebounce() time.Duration { return c.SearchDebounce }
func (c *Config) GetSearchTokenTTL() time.Duration { return c.SearchTokenTTL }

// GazetteerConfig implementation
func (c *Config) GetGazetteerPath() string { return c.GazetteerPath }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// AddressBookConfig implementation
func (c *Config) GetPhoneRegion() string { return c.PhoneRegion }

// IsRedisEnabled reports whether a Redis URL was configured.
func (c *Config) IsRedisEnabled() bool { return c.RedisURL != "" }

// Load reads configuration from environment variables.
// A missing provider credential is reported here, once, instead of surfacing
// later as failed requests.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		MapsAPIKey:            strings.TrimSpace(getEnv("MAPS_API_KEY", "")),
		MapsBaseURL:           strings.TrimRight(getEnv("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"), "/"),
		MapsCountry:           strings.ToLower(getEnv("MAPS_COUNTRY", "ke")),
		MapsLanguage:          getEnv("MAPS_LANGUAGE", "en"),
		MapsTimeout:           mustDuration(getEnv("MAPS_TIMEOUT", "5s")),
		MapsRequestsPerSecond: mustFloat(getEnv("MAPS_REQUESTS_PER_SECOND", "20")),
		SearchDebounce:        mustDuration(getEnv("SEARCH_DEBOUNCE", "300ms")),
		SearchTokenTTL:        mustDuration(getEnv("SEARCH_TOKEN_TTL", "30m")),
		GazetteerPath:         getEnv("GAZETTEER_PATH", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		PhoneRegion:           strings.ToUpper(getEnv("PHONE_REGION", "KE")),
	}

	if cfg.MapsAPIKey == "" {
		return nil, fmt.Errorf("MAPS_API_KEY is required")
	}
	if cfg.MapsTimeout <= 0 {
		return nil, fmt.Errorf("MAPS_TIMEOUT must be a positive duration")
	}
	if cfg.SearchDebounce <= 0 {
		return nil, fmt.Errorf("SEARCH_DEBOUNCE must be a positive duration")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// RequireServer checks the settings only the HTTP API needs.
func (c *Config) RequireServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
