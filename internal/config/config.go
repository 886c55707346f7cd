package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	DataDir     string `env:"WEDDING_DATA_DIR" envDefault:"data"`
	DatabaseURL string `env:"DATABASE_URL"`

	Port         string   `env:"PORT" envDefault:"8080"`
	PublicOrigin string   `env:"PUBLIC_ORIGIN" envDefault:"http://localhost:8080"`
	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:","`

	CountryCode string `env:"COUNTRY_CODE" envDefault:"91"`
	Language    string `env:"WEDDING_LANGUAGE" envDefault:"en"`

	WeddingDate     string `env:"WEDDING_DATE" envDefault:"Saturday, January 1, 2025"`
	WeddingLocation string `env:"WEDDING_LOCATION"`
	BrideName       string `env:"BRIDE_NAME" envDefault:"Bride"`
	GroomName       string `env:"GROOM_NAME" envDefault:"Groom"`

	WhatsAppEnabled bool `env:"WHATSAPP_ENABLED"`

	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"gallery"`

	RSVPRateLimit float64 `env:"RSVP_RATE_LIMIT" envDefault:"5"`
	RSVPRateBurst int     `env:"RSVP_RATE_BURST" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

// LoadConfig reads dotenvPath, when it exists, and then parses the
// environment. Variables already set in the environment win over the file.
func LoadConfig(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// DatabasePath is the SQLite database used when DATABASE_URL is empty.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "wedding.db")
}

// PreferencesPath is the file holding the admin's saved preferences.
func (c *Config) PreferencesPath() string {
	return filepath.Join(c.DataDir, "preferences.json")
}

// WhatsAppDataDir holds the WhatsApp device session.
func (c *Config) WhatsAppDataDir() string {
	return filepath.Join(c.DataDir, "whatsapp")
}
