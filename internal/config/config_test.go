package config

import (
	"flag"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3221" {
		t.Errorf("expected port 3221, got %s", cfg.Port)
	}
	if cfg.Addr != "localhost:3221" {
		t.Errorf("expected addr localhost:3221, got %s", cfg.Addr)
	}
	if cfg.WebPort != 8080 {
		t.Errorf("expected web port 8080, got %d", cfg.WebPort)
	}
	if cfg.Layouts != "layouts.yaml" || cfg.Name != "Player" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AIDelay != 0 || cfg.Seed != 0 {
		t.Errorf("expected zero delay and seed, got %v %d", cfg.AIDelay, cfg.Seed)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACCESSBATTLE_PORT", "4000")
	t.Setenv("ACCESSBATTLE_AI_DELAY", "750ms")
	t.Setenv("ACCESSBATTLE_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "4000" {
		t.Errorf("expected port 4000, got %s", cfg.Port)
	}
	if cfg.AIDelay != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %v", cfg.AIDelay)
	}
	if cfg.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Seed)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("ACCESSBATTLE_WEB_PORT", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ACCESSBATTLE_NAME", "Env")
	t.Setenv("ACCESSBATTLE_PORT", "4000")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"--name", "Flag"}, func(cfg *Config) {
		fs.StringVar(&cfg.Name, "name", cfg.Name, "player name")
		fs.StringVar(&cfg.Port, "port", cfg.Port, "port")
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Name != "Flag" {
		t.Errorf("flag should win, got %s", cfg.Name)
	}
	if cfg.Port != "4000" {
		t.Errorf("env should be the flag default, got %s", cfg.Port)
	}
}

func TestPresetLayout(t *testing.T) {
	cfg := Config{Layouts: "../../layouts.yaml"}
	layout, err := cfg.PresetLayout()
	if err != nil || layout != "" {
		t.Errorf("no preset selected: got %q, %v", layout, err)
	}

	cfg.Layout = 2
	layout, err = cfg.PresetLayout()
	if err != nil {
		t.Fatal(err)
	}
	if layout != "VVVVLLLL" {
		t.Errorf("expected the second preset, got %q", layout)
	}

	cfg.Layout = 99
	if _, err := cfg.PresetLayout(); err == nil || !strings.Contains(err.Error(), "preset layout") {
		t.Errorf("expected a preset error, got %v", err)
	}
}
