// Package config loads server configuration from flags, the environment
// and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DBPath       string
	SettingsFile string
	JWTSecret    string
	LogLevel     slog.Level
	CORSOrigins  []string
	Location     *time.Location
}

// Load parses args (without the program name). A missing .env file is not
// an error; a malformed one is.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	fs := flag.NewFlagSet("hours-estimator", flag.ContinueOnError)
	port := fs.Int("port", 0, "HTTP server port (env PORT, default 8080)")
	dbPath := fs.String("db", "", "SQLite path for company closures (env DB_PATH, default :memory:)")
	settings := fs.String("settings", "", "Reporting settings JSON file (env SETTINGS_FILE)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:         *port,
		DBPath:       *dbPath,
		SettingsFile: *settings,
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CORSOrigins:  getEnvSlice("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"),
	}

	if cfg.Port == 0 {
		p, err := strconv.Atoi(getEnv("PORT", "8080"))
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = p
	}
	if cfg.DBPath == "" {
		cfg.DBPath = getEnv("DB_PATH", ":memory:")
	}
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = os.Getenv("SETTINGS_FILE")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("TZ_NAME", "Asia/Tokyo"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME: %w", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	return nil
}

// AuthEnabled reports whether API requests need a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Now returns the current time in the configured location.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
