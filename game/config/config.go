package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/wricardo/set-game/game/engine"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the server settings read from the environment
type Config struct {
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       int    `env:"PORT" envDefault:"8000"`
	Debug      bool   `env:"DEBUG"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	Rules      engine.Rules
	Ngrok      NgrokConfig `envPrefix:"NGROK_"`
}

// NgrokConfig controls the optional public tunnel
type NgrokConfig struct {
	Enabled   bool   `env:"ENABLED"`
	AuthToken string `env:"AUTHTOKEN"`
	Domain    string `env:"DOMAIN"`
}

// EnvPrefix is prepended to every server variable, e.g. SET_PORT
const EnvPrefix = "SET_"

// LoadDotEnv loads variables from .env files when present.
// A missing file is not an error.
func LoadDotEnv(filenames ...string) (bool, error) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return false, nil
		}
	}
	if err := godotenv.Load(filenames...); err != nil {
		return false, fmt.Errorf("failed to load %v: %w", filenames, err)
	}
	return true, nil
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// ngrok's own tooling reads the unprefixed names
	if cfg.Ngrok.AuthToken == "" {
		cfg.Ngrok.AuthToken = firstNonEmpty(os.Getenv("NGROK_AUTHTOKEN"), os.Getenv("NGROK_AUTH_TOKEN"))
	}
	if cfg.Ngrok.Domain == "" {
		cfg.Ngrok.Domain = os.Getenv("NGROK_DOMAIN")
	}
	if !cfg.Ngrok.Enabled {
		v := os.Getenv("NGROK_ENABLED")
		cfg.Ngrok.Enabled = v == "true" || v == "1"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a server cannot start without
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 0 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	if err := engine.ValidateRules(c.Rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Addr returns host:port for the HTTP listener
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
