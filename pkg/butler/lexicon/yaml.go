package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
)

// fileSchema is the persisted, human-editable lexicon format.
//
//	foods:
//	  - canonical: quesadilla
//	    aliases: [quesadillas]
//	    calories: 520
//	    protein: 22
//	    carbs: 40
//	    fat: 28
//	    fiber: 3
//	    serving_size: 1 quesadilla
//	exercises:
//	  - canonical: chest
//	    aliases: [pecs, pectorals]
//	    muscle_group: chest
//	intents:
//	  - intent: water
//	    triggers:
//	      drank: 3
//	      bottle: 1.5
//
// Field names and types are a compatibility surface and must remain
// stable across reloads.
type fileSchema struct {
	Foods     []foodRecord     `yaml:"foods"`
	Exercises []exerciseRecord `yaml:"exercises"`
	Intents   []intentRecord   `yaml:"intents"`
}

type foodRecord struct {
	Canonical      string   `yaml:"canonical"`
	Aliases        []string `yaml:"aliases,omitempty"`
	FoodAttributes `yaml:",inline"`
}

type exerciseRecord struct {
	Canonical          string   `yaml:"canonical"`
	Aliases            []string `yaml:"aliases,omitempty"`
	ExerciseAttributes `yaml:",inline"`
}

type intentRecord struct {
	Intent   string             `yaml:"intent"`
	Triggers map[string]float64 `yaml:"triggers"`
}

// LoadFromYAML reads a lexicon file and builds a snapshot.
// A missing or unreadable file is a fatal configuration problem
// (internalerr.ErrLexiconUnavailable); malformed content maps to
// internalerr.ErrInvalidConfig.
func LoadFromYAML(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %v: %w", path, err, internalerr.ErrLexiconUnavailable)
	}

	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}

	b := NewBuilder()
	for _, rec := range file.Foods {
		if err := b.AddFood(FoodEntry{Canonical: rec.Canonical, Aliases: rec.Aliases, Attrs: rec.FoodAttributes}); err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", path, err)
		}
	}
	for _, rec := range file.Exercises {
		if err := b.AddExercise(ExerciseEntry{Canonical: rec.Canonical, Aliases: rec.Aliases, Attrs: rec.ExerciseAttributes}); err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", path, err)
		}
	}
	for _, rec := range file.Intents {
		for word, weight := range rec.Triggers {
			b.AddTrigger(rec.Intent, word, weight)
		}
	}
	return b.Snapshot(), nil
}
