// Package config loads runtime configuration from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all settings for the interactions server and the registration CLI.
type Config struct {
	// Discord application identity.
	AppID     string `env:"DISCORD_APP_ID"`
	PublicKey string `env:"DISCORD_PUBLIC_KEY"`
	Token     string `env:"DISCORD_TOKEN"`
	// GuildID scopes command registration to one guild. Empty registers global commands.
	GuildID string `env:"DISCORD_GUILD_ID"`

	Port           string        `env:"PORT" envDefault:"3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"3s"`

	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"10m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// Per-user command rate. Zero disables the cooldown.
	CommandRate  float64 `env:"COMMAND_RATE" envDefault:"1"`
	CommandBurst int     `env:"COMMAND_BURST" envDefault:"5"`

	CommandCacheDir string `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"auto"`
	LogFile   string `env:"LOG_FILE"`
}

var dotenvOnce sync.Once

// Load reads .env (if present) and parses the process environment.
func Load() (*Config, error) {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file found, falling back to system environment variables")
		}
	})
	return parse(env.Options{})
}

// FromMap parses configuration from an explicit variable set instead of the process environment.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validateCommon(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateCommon() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT cannot be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.CommandRate < 0 {
		errs = append(errs, errors.New("COMMAND_RATE cannot be negative"))
	}
	if c.CommandRate > 0 && c.CommandBurst < 1 {
		errs = append(errs, errors.New("COMMAND_BURST must be at least 1 when COMMAND_RATE is set"))
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be auto, console or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ValidateForServe checks what the interactions endpoint needs.
func (c *Config) ValidateForServe() error {
	if c.PublicKey == "" {
		return errors.New("DISCORD_PUBLIC_KEY is not set")
	}
	return nil
}

// ValidateForRegister checks what command registration needs.
func (c *Config) ValidateForRegister() error {
	var errs []error
	if c.AppID == "" {
		errs = append(errs, errors.New("DISCORD_APP_ID is not set"))
	}
	if c.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is not set"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
