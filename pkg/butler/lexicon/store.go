package lexicon

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
)

// Store hands out the current lexicon snapshot and accepts out-of-band
// updates. Reads are lock-free; updates serialize behind a mutex, build
// a new snapshot from the old one plus the change, and publish it with
// a single atomic swap. In-flight classifications keep the snapshot
// they started with.
type Store struct {
	mu   sync.Mutex // serializes updates only
	snap atomic.Pointer[Snapshot]
}

// NewStore creates a store serving the given snapshot.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	if snap != nil {
		s.snap.Store(snap)
	}
	return s
}

// Current returns the live snapshot.
// Returns internalerr.ErrLexiconUnavailable when no snapshot has been
// loaded; callers must refuse to classify in that case.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, fmt.Errorf("no lexicon loaded: %w", internalerr.ErrLexiconUnavailable)
	}
	return snap, nil
}

// Swap replaces the live snapshot, e.g. after a file reload.
func (s *Store) Swap(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Store(snap)
}

// AddFood publishes a new snapshot containing the existing entries plus e.
func (s *Store) AddFood(e FoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	if cur == nil {
		return fmt.Errorf("add food: %w", internalerr.ErrLexiconUnavailable)
	}
	b := builderFrom(cur)
	if err := b.AddFood(e); err != nil {
		return err
	}
	s.snap.Store(b.Snapshot())
	return nil
}

// AddExercise publishes a new snapshot containing the existing entries plus e.
func (s *Store) AddExercise(e ExerciseEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	if cur == nil {
		return fmt.Errorf("add exercise: %w", internalerr.ErrLexiconUnavailable)
	}
	b := builderFrom(cur)
	if err := b.AddExercise(e); err != nil {
		return err
	}
	s.snap.Store(b.Snapshot())
	return nil
}
