package app

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"reactants/internal/devtools"
	"reactants/internal/game"
)

// Config controls runtime behavior for the TUI app. Environment variables
// are applied over DefaultConfig by LoadEnv; command-line flags come last.
type Config struct {
	LogPath      string `env:"REACTANTS_LOG"`
	LogLevel     string `env:"REACTANTS_LOG_LEVEL"`
	PacksDir     string `env:"REACTANTS_PACKS"`
	PackID       string `env:"REACTANTS_PACK"`
	StateDB      string `env:"REACTANTS_STATE_DB"`
	DemoScenario string `env:"REACTANTS_DEMO"`
	Dev          bool   `env:"REACTANTS_DEV"`
	DevHTTP      string `env:"REACTANTS_DEV_HTTP"`
	ASCIIOnly    bool   `env:"REACTANTS_ASCII"`
	DebugLayout  bool   `env:"REACTANTS_DEBUG_LAYOUT"`
	Gameplay     GameplayConfig
	UI           UIConfig
}

type GameplayConfig struct {
	Timer bool `env:"REACTANTS_TIMER"`
	// Visibility forces one challenge visibility for every level when set.
	Visibility  string `env:"REACTANTS_VISIBILITY"`
	AutoPlayAll bool   `env:"REACTANTS_AUTOPLAY_ALL"`
	ForceReward bool   `env:"REACTANTS_FORCE_REWARD"`
}

type UIConfig struct {
	StyleVariant string `env:"REACTANTS_STYLE"`
	MotionLevel  string `env:"REACTANTS_MOTION"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		PacksDir: "packs",
		DevHTTP:  "127.0.0.1:17321",
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
		},
	}
}

// LoadEnv overlays REACTANTS_* variables onto cfg. Unset variables leave the
// current values alone.
func LoadEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Gameplay.Visibility != "" {
		if _, err := game.ParseVisibility(c.Gameplay.Visibility); err != nil {
			return fmt.Errorf("invalid gameplay visibility: %w", err)
		}
	}
	if c.DemoScenario != "" {
		if _, err := devtools.NewManager().Resolve(c.DemoScenario); err != nil {
			return err
		}
	}
	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	if c.Dev && strings.TrimSpace(c.DevHTTP) == "" {
		return fmt.Errorf("dev mode needs a dev http address")
	}
	return nil
}
