package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Settings holds process settings read from the environment.
// Command-line flags override them.
type Settings struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ConfigDir       string        `env:"CONFIG_DIR" envDefault:"configs"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	NgrokEnabled    bool          `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuthToken  string        `env:"NGROK_AUTHTOKEN"`
	NgrokDomain     string        `env:"NGROK_DOMAIN"`
}

// LoadSettings parses Settings from the environment
func LoadSettings() (*Settings, error) {
	s, err := env.ParseAs[Settings]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if s.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", s.SessionTTL)
	}
	if s.CleanupInterval <= 0 {
		return nil, fmt.Errorf("CLEANUP_INTERVAL must be positive, got %s", s.CleanupInterval)
	}
	return &s, nil
}

// Level parses LogLevel, falling back to info
func (s *Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
