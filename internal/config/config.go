package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/peterkuimelis/accessbattle/internal/game"
)

// Config holds the settings shared by all commands. Environment variables
// provide the defaults and command line flags override them.
type Config struct {
	Port    string        `env:"ACCESSBATTLE_PORT"     envDefault:"3221"`
	Addr    string        `env:"ACCESSBATTLE_ADDR"     envDefault:"localhost:3221"`
	WebPort int           `env:"ACCESSBATTLE_WEB_PORT" envDefault:"8080"`
	Layouts string        `env:"ACCESSBATTLE_LAYOUTS"  envDefault:"layouts.yaml"`
	Layout  int           `env:"ACCESSBATTLE_LAYOUT"` // preset number, 0 for none
	AIDelay time.Duration `env:"ACCESSBATTLE_AI_DELAY" envDefault:"0s"`
	Seed    int64         `env:"ACCESSBATTLE_SEED"`
	Name    string        `env:"ACCESSBATTLE_NAME"     envDefault:"Player"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Parse loads the environment and then applies the flags registered on fs.
// register binds the flags a command cares about to cfg.
func Parse(fs *flag.FlagSet, args []string, register func(cfg *Config)) (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if register != nil {
		register(&cfg)
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PresetLayout returns the deployment of preset number Layout from the
// Layouts file, or "" when no preset is selected.
func (c Config) PresetLayout() (string, error) {
	if c.Layout == 0 {
		return "", nil
	}
	entry, err := game.LayoutByNumber(c.Layouts, c.Layout)
	if err != nil {
		return "", fmt.Errorf("preset layout: %w", err)
	}
	return entry.Layout, nil
}
