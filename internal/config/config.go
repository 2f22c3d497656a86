package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/georgemunganga/fieldops-backend/internal/logger"
)

// Config is read once at process start from the environment, after an
// optional .env file has been loaded into it.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	Port            string        `env:"APP_PORT" envDefault:"8080"`
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTTTL          time.Duration `env:"JWT_TTL" envDefault:"24h"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"10m"`
	Log             logger.Config
}

// Load reads the first existing file of files (default ".env") into the
// environment and parses the result. Variables already set win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		break
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string { return ":" + c.Port }

// RequireAPI checks the settings only the HTTP server needs.
func (c *Config) RequireAPI() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("REFRESH_INTERVAL must be positive")
	}
	return nil
}
