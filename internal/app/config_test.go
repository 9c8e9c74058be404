package app

import (
	"context"
	"testing"

	"reactants/internal/levels"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.UI.StyleVariant = "neon" },
		func(c *Config) { c.UI.MotionLevel = "wild" },
		func(c *Config) { c.LogLevel = "loud" },
		func(c *Config) { c.Gameplay.Visibility = "sideways" },
		func(c *Config) { c.Dev = true; c.DevHTTP = " " },
		func(c *Config) { c.DemoScenario = "nope" },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.UI.StyleVariant != "modern_arcade" || cfg.UI.MotionLevel != "full" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
}

func TestLoadEnvOverlaysDefaults(t *testing.T) {
	t.Setenv("REACTANTS_STYLE", "cozy_clean")
	t.Setenv("REACTANTS_TIMER", "true")
	t.Setenv("REACTANTS_VISIBILITY", "molecules")

	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.UI.StyleVariant != "cozy_clean" || !cfg.Gameplay.Timer || cfg.Gameplay.Visibility != "molecules" {
		t.Fatalf("env not applied: %#v", cfg)
	}
	if cfg.PacksDir != "packs" || cfg.UI.MotionLevel != "full" {
		t.Fatalf("unset variables should keep defaults: %#v", cfg)
	}
}

func TestLoadEnvRejectsBadBool(t *testing.T) {
	t.Setenv("REACTANTS_TIMER", "maybe")
	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadPackFallsBackToBuiltin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PacksDir = t.TempDir()
	pack, err := loadPack(context.Background(), levels.NewLoader(), cfg)
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	if pack.PackID != "builtin-core" {
		t.Fatalf("expected builtin pack, got %q", pack.PackID)
	}

	cfg.PackID = "missing-pack"
	if _, err := loadPack(context.Background(), levels.NewLoader(), cfg); err == nil {
		t.Fatalf("expected unknown pack error")
	}
}
