package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
)

// Config is the engine's tunable surface. Zero-valued fields fall back
// to the defaults, so a partial YAML file overrides only what it names.
type Config struct {
	MaxMessageLen int         `yaml:"max_message_len"`
	LexiconPath   string      `yaml:"lexicon_path"`
	Thresholds    Thresholds  `yaml:"thresholds"`
	Weights       Weights     `yaml:"weights"`
	Store         StoreConfig `yaml:"store"`
}

// Thresholds mirror compose.Thresholds.
type Thresholds struct {
	MinIntentScore      float64 `yaml:"min_intent_score"`
	AutoActionable      float64 `yaml:"auto_actionable"`
	ConfidenceSmoothing float64 `yaml:"confidence_smoothing"`
	MissingRequiredCap  float64 `yaml:"missing_required_cap"`
}

// Weights mirror intent.Weights.
type Weights struct {
	RequiredBonus      float64 `yaml:"required_bonus"`
	SpecificityPenalty float64 `yaml:"specificity_penalty"`
}

// StoreConfig selects the activity-log backend.
type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxMessageLen: 1000,
		Thresholds: Thresholds{
			MinIntentScore:      1,
			AutoActionable:      0.75,
			ConfidenceSmoothing: 2,
			MissingRequiredCap:  0.5,
		},
		Weights: Weights{
			RequiredBonus:      3,
			SpecificityPenalty: 1.5,
		},
		Store: StoreConfig{Driver: "memory"},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, internalerr.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.MaxMessageLen <= 0 {
		return fmt.Errorf("max_message_len must be positive: %w", internalerr.ErrInvalidConfig)
	}
	if c.Thresholds.AutoActionable < 0 || c.Thresholds.AutoActionable > 1 {
		return fmt.Errorf("auto_actionable must be within [0,1]: %w", internalerr.ErrInvalidConfig)
	}
	if c.Thresholds.ConfidenceSmoothing <= 0 {
		return fmt.Errorf("confidence_smoothing must be positive: %w", internalerr.ErrInvalidConfig)
	}
	if c.Thresholds.MissingRequiredCap < 0 || c.Thresholds.MissingRequiredCap > 1 {
		return fmt.Errorf("missing_required_cap must be within [0,1]: %w", internalerr.ErrInvalidConfig)
	}
	switch c.Store.Driver {
	case "", "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store needs a path: %w", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown store driver %q: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
	}
	return nil
}
