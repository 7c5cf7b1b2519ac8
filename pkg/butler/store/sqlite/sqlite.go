package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
	"github.com/alfredlabs/butler/pkg/butler/store"
)

// sqliteStore implements store.Store on a single SQLite file.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (and initializes) a SQLite activity log with WAL mode
// enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	// WAL keeps readers unblocked while the dispatcher writes.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS water_logs (
	id TEXT PRIMARY KEY,
	milliliters REAL NOT NULL,
	logged_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS food_logs (
	id TEXT PRIMARY KEY,
	food TEXT NOT NULL,
	multiplier REAL NOT NULL DEFAULT 1,
	calories REAL,
	protein REAL,
	carbs REAL,
	fat REAL,
	fiber REAL,
	description TEXT,
	logged_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS gym_logs (
	id TEXT PRIMARY KEY,
	muscle_group TEXT,
	exercise TEXT,
	weight INTEGER DEFAULT 0,
	reps INTEGER DEFAULT 0,
	duration_minutes INTEGER DEFAULT 0,
	logged_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	kind TEXT NOT NULL,
	due_at TEXT,
	done INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	completed_at TEXT
);

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	with_whom TEXT,
	location TEXT,
	starts_at TEXT NOT NULL,
	duration_minutes INTEGER DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_water_logged_at ON water_logs(logged_at);
CREATE INDEX IF NOT EXISTS idx_food_logged_at ON food_logs(logged_at);
CREATE INDEX IF NOT EXISTS idx_gym_logged_at ON gym_logs(logged_at);
CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Times are stored as UTC RFC3339 text at second precision so a plain
// string comparison orders them correctly in SQL.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func (s *sqliteStore) AddWater(ctx context.Context, w store.WaterLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO water_logs (id, milliliters, logged_at) VALUES (?, ?, ?)`,
		w.ID, w.Milliliters, encodeTime(w.LoggedAt))
	return err
}

func (s *sqliteStore) WaterTotal(ctx context.Context, day time.Time) (float64, error) {
	from, to := store.DayWindow(day)
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(milliliters), 0) FROM water_logs WHERE logged_at >= ? AND logged_at < ?`,
		encodeTime(from), encodeTime(to))

	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *sqliteStore) AddFood(ctx context.Context, f store.FoodLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_logs (id, food, multiplier, calories, protein, carbs, fat, fiber, description, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Food, f.Multiplier, f.Calories, f.Protein, f.Carbs, f.Fat, f.Fiber, f.Description, encodeTime(f.LoggedAt))
	return err
}

func (s *sqliteStore) FoodByDay(ctx context.Context, day time.Time) ([]store.FoodLog, error) {
	from, to := store.DayWindow(day)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, food, multiplier, calories, protein, carbs, fat, fiber, description, logged_at
		 FROM food_logs WHERE logged_at >= ? AND logged_at < ? ORDER BY logged_at`,
		encodeTime(from), encodeTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.FoodLog
	for rows.Next() {
		var f store.FoodLog
		var loggedAt string
		if err := rows.Scan(&f.ID, &f.Food, &f.Multiplier, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.Fiber, &f.Description, &loggedAt); err != nil {
			return nil, err
		}
		f.LoggedAt = decodeTime(loggedAt)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *sqliteStore) AddGym(ctx context.Context, g store.GymLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gym_logs (id, muscle_group, exercise, weight, reps, duration_minutes, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.MuscleGroup, g.Exercise, g.Weight, g.Reps, g.DurationMinutes, encodeTime(g.LoggedAt))
	return err
}

func (s *sqliteStore) GymByDay(ctx context.Context, day time.Time) ([]store.GymLog, error) {
	from, to := store.DayWindow(day)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, muscle_group, exercise, weight, reps, duration_minutes, logged_at
		 FROM gym_logs WHERE logged_at >= ? AND logged_at < ? ORDER BY logged_at`,
		encodeTime(from), encodeTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.GymLog
	for rows.Next() {
		var g store.GymLog
		var loggedAt string
		if err := rows.Scan(&g.ID, &g.MuscleGroup, &g.Exercise, &g.Weight, &g.Reps, &g.DurationMinutes, &loggedAt); err != nil {
			return nil, err
		}
		g.LoggedAt = decodeTime(loggedAt)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *sqliteStore) AddTask(ctx context.Context, t store.Task) error {
	var dueAt any
	if t.HasDue {
		dueAt = encodeTime(t.DueAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, body, kind, due_at, done, created_at) VALUES (?, ?, ?, ?, 0, ?)`,
		t.ID, t.Body, string(t.Kind), dueAt, encodeTime(t.CreatedAt))
	return err
}

func (s *sqliteStore) CompleteTask(ctx context.Context, body string, at time.Time) (store.Task, error) {
	needle := strings.ToLower(body)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body, kind, due_at, created_at FROM tasks WHERE done = 0 ORDER BY created_at`)
	if err != nil {
		return store.Task{}, err
	}
	defer rows.Close()

	var match store.Task
	found := false
	for rows.Next() {
		var t store.Task
		var kind string
		var dueAt sql.NullString
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Body, &kind, &dueAt, &createdAt); err != nil {
			return store.Task{}, err
		}
		stored := strings.ToLower(t.Body)
		if !strings.Contains(stored, needle) && !strings.Contains(needle, stored) {
			continue
		}
		t.Kind = store.TaskKind(kind)
		if dueAt.Valid {
			t.DueAt = decodeTime(dueAt.String)
			t.HasDue = true
		}
		t.CreatedAt = decodeTime(createdAt)
		match = t
		found = true
		break
	}
	if err := rows.Err(); err != nil {
		return store.Task{}, err
	}
	if !found {
		return store.Task{}, fmt.Errorf("no open task matching %q: %w", body, internalerr.ErrNotFound)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET done = 1, completed_at = ? WHERE id = ?`,
		encodeTime(at), match.ID); err != nil {
		return store.Task{}, err
	}
	match.Done = true
	match.CompletedAt = at
	return match, nil
}

func (s *sqliteStore) OpenTasks(ctx context.Context) ([]store.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body, kind, due_at, created_at FROM tasks WHERE done = 0 ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Task
	for rows.Next() {
		var t store.Task
		var kind string
		var dueAt sql.NullString
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Body, &kind, &dueAt, &createdAt); err != nil {
			return nil, err
		}
		t.Kind = store.TaskKind(kind)
		if dueAt.Valid {
			t.DueAt = decodeTime(dueAt.String)
			t.HasDue = true
		}
		t.CreatedAt = decodeTime(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *sqliteStore) AddEvent(ctx context.Context, e store.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, with_whom, location, starts_at, duration_minutes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.With, e.Location, encodeTime(e.StartsAt), int(e.Duration.Minutes()), encodeTime(e.CreatedAt))
	return err
}

func (s *sqliteStore) EventsBetween(ctx context.Context, from, to time.Time) ([]store.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, with_whom, location, starts_at, duration_minutes, created_at
		 FROM events WHERE starts_at >= ? AND starts_at < ? ORDER BY starts_at`,
		encodeTime(from), encodeTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Event
	for rows.Next() {
		var e store.Event
		var startsAt, createdAt string
		var minutes int
		if err := rows.Scan(&e.ID, &e.Title, &e.With, &e.Location, &startsAt, &minutes, &createdAt); err != nil {
			return nil, err
		}
		e.StartsAt = decodeTime(startsAt)
		e.Duration = time.Duration(minutes) * time.Minute
		e.CreatedAt = decodeTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
