package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"campusbot/pkg/tz"
)

type Config struct {
	Token           string
	DatabaseURL     string
	GuildID         string
	AdminIDs        []string
	HelperChannelID string
	Locale          string
	Timezone        string
	MigrationsPath  string

	Location *time.Location
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment
		// itself (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:           os.Getenv("TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GuildID:         os.Getenv("GUILD_ID"),
		AdminIDs:        splitIDs(os.Getenv("ADMIN_IDS")),
		HelperChannelID: os.Getenv("HELPER_CHANNEL_ID"),
		Locale:          os.Getenv("LOCALE"),
		Timezone:        os.Getenv("TIMEZONE"),
		MigrationsPath:  os.Getenv("MIGRATIONS_PATH"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applies defaults and checks every required field.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required")
	}

	if len(c.AdminIDs) == 0 {
		return fmt.Errorf("config: ADMIN_IDS is required (comma-separated user IDs)")
	}
	for _, id := range c.AdminIDs {
		if !isSnowflake(id) {
			return fmt.Errorf("config: ADMIN_IDS entry %q is not a user ID (digits only)", id)
		}
	}

	if c.HelperChannelID != "" && !isSnowflake(c.HelperChannelID) {
		return fmt.Errorf("config: HELPER_CHANNEL_ID must be a channel ID (digits only)")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Useful local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/campusbot?sslmode=disable"
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
	}

	if c.Locale == "" {
		c.Locale = "ru"
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}

	if c.Timezone == "" {
		c.Location = tz.Moscow
		c.Timezone = c.Location.String()
	} else {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
		}
		c.Location = loc
	}

	return nil
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
