package config

import (
	"fmt"

	"github.com/alfredlabs/butler/pkg/butler/compose"
	"github.com/alfredlabs/butler/pkg/butler/intent"
	"github.com/alfredlabs/butler/pkg/butler/lexicon"
	"github.com/alfredlabs/butler/pkg/butler/message"
)

// Loader reads configuration and constructs the pipeline components.
type Loader struct {
	ConfigPath string
	// LexiconPath overrides the config file's lexicon_path when set.
	LexiconPath string
}

// Components holds the assembled pipeline.
type Components struct {
	Config     Config
	Normalizer *message.Normalizer
	Lexicon    *lexicon.Store
	Scorer     *intent.Scorer
	Composer   *compose.Composer
}

// Load reads the files and returns initialized components. A missing
// config path selects the defaults; a missing lexicon path selects the
// built-in seed lexicon.
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	lexPath := cfg.LexiconPath
	if l.LexiconPath != "" {
		lexPath = l.LexiconPath
	}
	snap := lexicon.Seed()
	if lexPath != "" {
		loaded, err := lexicon.LoadFromYAML(lexPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		snap = loaded
	}

	specs := intent.DefaultSpecs()
	return &Components{
		Config:     cfg,
		Normalizer: message.NewNormalizer(cfg.MaxMessageLen),
		Lexicon:    lexicon.NewStore(snap),
		Scorer:     intent.NewScorer(specs, intent.Weights(cfg.Weights)),
		Composer:   compose.New(specs, compose.Thresholds(cfg.Thresholds)),
	}, nil
}
