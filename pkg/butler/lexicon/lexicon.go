// Package lexicon holds the vocabulary that drives entity lookup and
// intent scoring: food entries with macros, exercise entries with muscle
// groups, and per-intent trigger words with weights.
//
// Vocabulary is exposed as immutable Snapshots. A classification in
// flight reads one snapshot for its whole run; updates build a new
// snapshot and swap it in atomically, never mutating a structure a
// concurrent reader may be scanning.
package lexicon

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
)

// FoodAttributes holds the nutrition facts for one food entry.
// Field names mirror the persisted YAML schema and must stay stable
// across lexicon reloads.
type FoodAttributes struct {
	Calories       float64  `yaml:"calories"`
	Protein        float64  `yaml:"protein"`
	Carbs          float64  `yaml:"carbs"`
	Fat            float64  `yaml:"fat"`
	Fiber          float64  `yaml:"fiber"`
	ServingSize    string   `yaml:"serving_size"`
	CommonServings []string `yaml:"common_servings,omitempty"`
}

// ExerciseAttributes maps an exercise entry to its canonical muscle group.
type ExerciseAttributes struct {
	MuscleGroup string `yaml:"muscle_group"`
}

// FoodEntry is a canonical food concept with its aliases.
type FoodEntry struct {
	Canonical string
	Aliases   []string
	Attrs     FoodAttributes
}

// ExerciseEntry is a canonical exercise or muscle-group concept.
type ExerciseEntry struct {
	Canonical string
	Aliases   []string
	Attrs     ExerciseAttributes
}

// TriggerHit is one intent trigger matched by a surface word.
// A single word may trigger several intents with different weights.
type TriggerHit struct {
	Intent string
	Weight float64
}

// Snapshot is an immutable, point-in-time view of the lexicon.
// All lookups are case-insensitive; multi-word surfaces are supported.
type Snapshot struct {
	id string

	foods     map[string]FoodEntry     // canonical -> entry
	exercises map[string]ExerciseEntry // canonical -> entry

	foodSurface     map[string]string // surface form -> canonical
	exerciseSurface map[string]string // surface form -> canonical

	triggers map[string][]TriggerHit // surface word -> hits

	maxWords int // longest food/exercise surface, in words
}

// Builder accumulates entries and produces a Snapshot.
// Canonical names must be unique per concept type; aliases may map
// many-to-one but may not shadow another concept's surface form.
type Builder struct {
	foods           map[string]FoodEntry
	exercises       map[string]ExerciseEntry
	foodSurface     map[string]string
	exerciseSurface map[string]string
	triggers        map[string][]TriggerHit
}

// NewBuilder creates an empty lexicon builder.
func NewBuilder() *Builder {
	return &Builder{
		foods:           make(map[string]FoodEntry),
		exercises:       make(map[string]ExerciseEntry),
		foodSurface:     make(map[string]string),
		exerciseSurface: make(map[string]string),
		triggers:        make(map[string][]TriggerHit),
	}
}

// AddFood registers a food entry. Returns internalerr.ErrDuplicate when
// the canonical name or any alias is already claimed by another food.
func (b *Builder) AddFood(e FoodEntry) error {
	canonical := strings.ToLower(strings.TrimSpace(e.Canonical))
	if canonical == "" {
		return fmt.Errorf("food entry with empty canonical name: %w", internalerr.ErrInvalidInput)
	}
	if _, exists := b.foods[canonical]; exists {
		return fmt.Errorf("food %q: %w", canonical, internalerr.ErrDuplicate)
	}

	surfaces := []string{canonical}
	for _, a := range e.Aliases {
		surfaces = append(surfaces, strings.ToLower(strings.TrimSpace(a)))
	}
	for _, s := range surfaces {
		if owner, taken := b.foodSurface[s]; taken && owner != canonical {
			return fmt.Errorf("food surface %q already maps to %q: %w", s, owner, internalerr.ErrDuplicate)
		}
	}

	e.Canonical = canonical
	b.foods[canonical] = e
	for _, s := range surfaces {
		b.foodSurface[s] = canonical
	}
	return nil
}

// AddExercise registers an exercise or muscle-group entry.
func (b *Builder) AddExercise(e ExerciseEntry) error {
	canonical := strings.ToLower(strings.TrimSpace(e.Canonical))
	if canonical == "" {
		return fmt.Errorf("exercise entry with empty canonical name: %w", internalerr.ErrInvalidInput)
	}
	if _, exists := b.exercises[canonical]; exists {
		return fmt.Errorf("exercise %q: %w", canonical, internalerr.ErrDuplicate)
	}

	surfaces := []string{canonical}
	for _, a := range e.Aliases {
		surfaces = append(surfaces, strings.ToLower(strings.TrimSpace(a)))
	}
	for _, s := range surfaces {
		if owner, taken := b.exerciseSurface[s]; taken && owner != canonical {
			return fmt.Errorf("exercise surface %q already maps to %q: %w", s, owner, internalerr.ErrDuplicate)
		}
	}

	e.Canonical = canonical
	b.exercises[canonical] = e
	for _, s := range surfaces {
		b.exerciseSurface[s] = canonical
	}
	return nil
}

// AddTrigger registers word as a trigger for intent with the given weight.
// Re-adding the same word for the same intent keeps the higher weight.
func (b *Builder) AddTrigger(intent, word string, weight float64) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || intent == "" {
		return
	}
	hits := b.triggers[word]
	for i, h := range hits {
		if h.Intent == intent {
			if weight > h.Weight {
				hits[i].Weight = weight
			}
			return
		}
	}
	b.triggers[word] = append(hits, TriggerHit{Intent: intent, Weight: weight})
}

// Snapshot freezes the builder's contents into an immutable snapshot
// with a fresh opaque ID. The builder may keep being used afterwards;
// the snapshot will not observe later additions.
func (b *Builder) Snapshot() *Snapshot {
	snap := &Snapshot{
		id:              ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String(),
		foods:           make(map[string]FoodEntry, len(b.foods)),
		exercises:       make(map[string]ExerciseEntry, len(b.exercises)),
		foodSurface:     make(map[string]string, len(b.foodSurface)),
		exerciseSurface: make(map[string]string, len(b.exerciseSurface)),
		triggers:        make(map[string][]TriggerHit, len(b.triggers)),
		maxWords:        1,
	}
	for k, v := range b.foods {
		snap.foods[k] = v
	}
	for k, v := range b.exercises {
		snap.exercises[k] = v
	}
	for k, v := range b.foodSurface {
		snap.foodSurface[k] = v
		if n := phraseWords(k); n > snap.maxWords {
			snap.maxWords = n
		}
	}
	for k, v := range b.exerciseSurface {
		snap.exerciseSurface[k] = v
		if n := phraseWords(k); n > snap.maxWords {
			snap.maxWords = n
		}
	}
	for k, v := range b.triggers {
		hits := make([]TriggerHit, len(v))
		copy(hits, v)
		snap.triggers[k] = hits
	}
	return snap
}

// ID returns the snapshot's opaque handle.
func (s *Snapshot) ID() string { return s.id }

// MaxPhraseWords returns the word count of the longest surface form,
// bounding the window a longest-match scan needs to try.
func (s *Snapshot) MaxPhraseWords() int { return s.maxWords }

// FindFood resolves a surface phrase to its food entry.
func (s *Snapshot) FindFood(phrase string) (FoodEntry, bool) {
	canonical, ok := s.foodSurface[strings.ToLower(phrase)]
	if !ok {
		return FoodEntry{}, false
	}
	return s.foods[canonical], true
}

// FindExercise resolves a surface phrase to its exercise entry.
func (s *Snapshot) FindExercise(phrase string) (ExerciseEntry, bool) {
	canonical, ok := s.exerciseSurface[strings.ToLower(phrase)]
	if !ok {
		return ExerciseEntry{}, false
	}
	return s.exercises[canonical], true
}

// TriggerHits returns the intent triggers fired by a single word.
func (s *Snapshot) TriggerHits(word string) []TriggerHit {
	return s.triggers[strings.ToLower(word)]
}

// Stats summarizes snapshot contents.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Foods:        len(s.foods),
		Exercises:    len(s.exercises),
		TriggerWords: len(s.triggers),
	}
}

// Stats holds lexicon size counters.
type Stats struct {
	Foods        int
	Exercises    int
	TriggerWords int
}

// builderFrom seeds a Builder with an existing snapshot's contents,
// the copy-on-write half of Store updates.
func builderFrom(s *Snapshot) *Builder {
	b := NewBuilder()
	for k, v := range s.foods {
		b.foods[k] = v
	}
	for k, v := range s.exercises {
		b.exercises[k] = v
	}
	for k, v := range s.foodSurface {
		b.foodSurface[k] = v
	}
	for k, v := range s.exerciseSurface {
		b.exerciseSurface[k] = v
	}
	for k, v := range s.triggers {
		hits := make([]TriggerHit, len(v))
		copy(hits, v)
		b.triggers[k] = hits
	}
	return b
}

func phraseWords(s string) int {
	if s == "" {
		return 1
	}
	return len(strings.Fields(s))
}
