package store

import (
	"context"
	"time"
)

// Store persists the activity log an actioned message produces.
type Store interface {
	Close() error

	// Water
	AddWater(ctx context.Context, w WaterLog) error
	WaterTotal(ctx context.Context, day time.Time) (float64, error)

	// Food
	AddFood(ctx context.Context, f FoodLog) error
	FoodByDay(ctx context.Context, day time.Time) ([]FoodLog, error)

	// Gym
	AddGym(ctx context.Context, g GymLog) error
	GymByDay(ctx context.Context, day time.Time) ([]GymLog, error)

	// Tasks (todos and reminders)
	AddTask(ctx context.Context, t Task) error
	CompleteTask(ctx context.Context, body string, at time.Time) (Task, error)
	OpenTasks(ctx context.Context) ([]Task, error)

	// Calendar
	AddEvent(ctx context.Context, e Event) error
	EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error)
}

// WaterLog is one intake entry, always in milliliters.
type WaterLog struct {
	ID          string
	Milliliters float64
	LoggedAt    time.Time
}

// FoodLog is one consumed item with its scaled macros.
type FoodLog struct {
	ID          string
	Food        string
	Multiplier  float64
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Fiber       float64
	Description string
	LoggedAt    time.Time
}

// GymLog is one training entry. Exercise and Weight/Reps are zero for
// plain muscle-group sessions.
type GymLog struct {
	ID              string
	MuscleGroup     string
	Exercise        string
	Weight          int
	Reps            int
	DurationMinutes int
	LoggedAt        time.Time
}

// TaskKind distinguishes plain todos from scheduled reminders.
type TaskKind string

const (
	KindTodo     TaskKind = "todo"
	KindReminder TaskKind = "reminder"
)

// Task is a todo or reminder.
type Task struct {
	ID          string
	Body        string
	Kind        TaskKind
	DueAt       time.Time
	HasDue      bool
	Done        bool
	CreatedAt   time.Time
	CompletedAt time.Time
}

// Event is a calendar entry.
type Event struct {
	ID        string
	Title     string
	With      string
	Location  string
	StartsAt  time.Time
	Duration  time.Duration
	CreatedAt time.Time
}

// DayWindow returns the [start, end) bounds of day's calendar date in
// its own location.
func DayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
