package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
	"github.com/alfredlabs/butler/pkg/butler/store"
)

// Store is an in-memory implementation of store.Store for tests and
// single-session runs.
type Store struct {
	mu     sync.RWMutex
	water  []store.WaterLog
	food   []store.FoodLog
	gym    []store.GymLog
	tasks  []store.Task
	events []store.Event
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

func (s *Store) AddWater(ctx context.Context, w store.WaterLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.water = append(s.water, w)
	return nil
}

func (s *Store) WaterTotal(ctx context.Context, day time.Time) (float64, error) {
	from, to := store.DayWindow(day)
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, w := range s.water {
		if !w.LoggedAt.Before(from) && w.LoggedAt.Before(to) {
			total += w.Milliliters
		}
	}
	return total, nil
}

func (s *Store) AddFood(ctx context.Context, f store.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.food = append(s.food, f)
	return nil
}

func (s *Store) FoodByDay(ctx context.Context, day time.Time) ([]store.FoodLog, error) {
	from, to := store.DayWindow(day)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.FoodLog
	for _, f := range s.food {
		if !f.LoggedAt.Before(from) && f.LoggedAt.Before(to) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.Before(out[j].LoggedAt) })
	return out, nil
}

func (s *Store) AddGym(ctx context.Context, g store.GymLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gym = append(s.gym, g)
	return nil
}

func (s *Store) GymByDay(ctx context.Context, day time.Time) ([]store.GymLog, error) {
	from, to := store.DayWindow(day)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.GymLog
	for _, g := range s.gym {
		if !g.LoggedAt.Before(from) && g.LoggedAt.Before(to) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.Before(out[j].LoggedAt) })
	return out, nil
}

func (s *Store) AddTask(ctx context.Context, t store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	return nil
}

// CompleteTask marks the oldest open task whose body matches. Matching
// is case-insensitive; a task matches when either body contains the
// other.
func (s *Store) CompleteTask(ctx context.Context, body string, at time.Time) (store.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(body)
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Done || !bodyMatches(strings.ToLower(t.Body), needle) {
			continue
		}
		t.Done = true
		t.CompletedAt = at
		return *t, nil
	}
	return store.Task{}, fmt.Errorf("no open task matching %q: %w", body, internalerr.ErrNotFound)
}

func (s *Store) OpenTasks(ctx context.Context) ([]store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Task
	for _, t := range s.tasks {
		if !t.Done {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AddEvent(ctx context.Context, e store.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *Store) EventsBetween(ctx context.Context, from, to time.Time) ([]store.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Event
	for _, e := range s.events {
		if !e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func bodyMatches(task, needle string) bool {
	return strings.Contains(task, needle) || strings.Contains(needle, task)
}
