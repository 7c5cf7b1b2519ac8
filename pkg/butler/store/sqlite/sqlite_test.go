package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
	"github.com/alfredlabs/butler/pkg/butler/store"
)

var day = time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)

func openStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	st, err := Open(ctx, filepath.Join(t.TempDir(), "butler.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestWaterRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.AddWater(ctx, store.WaterLog{ID: "w1", Milliliters: 710, LoggedAt: day.Add(9 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddWater(ctx, store.WaterLog{ID: "w2", Milliliters: 355, LoggedAt: day.Add(16 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddWater(ctx, store.WaterLog{ID: "w3", Milliliters: 999, LoggedAt: day.AddDate(0, 0, -1)}); err != nil {
		t.Fatal(err)
	}

	total, err := st.WaterTotal(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1065 {
		t.Errorf("total = %v, want 1065", total)
	}
}

func TestFoodRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	f := store.FoodLog{
		ID:         "f1",
		Food:       "quesadilla",
		Multiplier: 2,
		Calories:   1040,
		Protein:    44,
		LoggedAt:   day.Add(12 * time.Hour),
	}
	if err := st.AddFood(ctx, f); err != nil {
		t.Fatal(err)
	}

	got, err := st.FoodByDay(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows", len(got))
	}
	if got[0].Food != "quesadilla" || got[0].Multiplier != 2 || got[0].Calories != 1040 {
		t.Errorf("got %+v", got[0])
	}
	if !got[0].LoggedAt.Equal(f.LoggedAt) {
		t.Errorf("LoggedAt = %v", got[0].LoggedAt)
	}
}

func TestGymRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	g := store.GymLog{
		ID:          "g1",
		MuscleGroup: "chest",
		Exercise:    "bench press",
		Weight:      225,
		Reps:        5,
		LoggedAt:    day.Add(18 * time.Hour),
	}
	if err := st.AddGym(ctx, g); err != nil {
		t.Fatal(err)
	}

	got, err := st.GymByDay(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Exercise != "bench press" || got[0].Weight != 225 || got[0].Reps != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestTaskLifecycle(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	due := day.Add(18 * time.Hour)
	tasks := []store.Task{
		{ID: "t1", Body: "buy groceries", Kind: store.KindTodo, CreatedAt: day},
		{ID: "t2", Body: "call the dentist", Kind: store.KindReminder, DueAt: due, HasDue: true, CreatedAt: day.Add(time.Minute)},
	}
	for _, task := range tasks {
		if err := st.AddTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	open, err := st.OpenTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 2 {
		t.Fatalf("open = %+v", open)
	}
	if !open[1].HasDue || !open[1].DueAt.Equal(due) {
		t.Errorf("reminder = %+v", open[1])
	}
	if open[0].HasDue {
		t.Errorf("todo carries due date: %+v", open[0])
	}

	at := day.Add(20 * time.Hour)
	done, err := st.CompleteTask(ctx, "dentist", at)
	if err != nil {
		t.Fatal(err)
	}
	if done.ID != "t2" || !done.Done {
		t.Errorf("done = %+v", done)
	}

	open, err = st.OpenTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].ID != "t1" {
		t.Errorf("open after complete = %+v", open)
	}

	if _, err := st.CompleteTask(ctx, "dentist", at); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestEventsBetween(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	e := store.Event{
		ID:        "e1",
		Title:     "meeting",
		With:      "John",
		Location:  "starbucks",
		StartsAt:  day.Add(14 * time.Hour),
		Duration:  time.Hour,
		CreatedAt: day,
	}
	if err := st.AddEvent(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := st.AddEvent(ctx, store.Event{ID: "e2", Title: "far away", StartsAt: day.AddDate(0, 1, 0), CreatedAt: day}); err != nil {
		t.Fatal(err)
	}

	got, err := st.EventsBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	if got[0].With != "John" || got[0].Location != "starbucks" || got[0].Duration != time.Hour || !got[0].StartsAt.Equal(e.StartsAt) {
		t.Errorf("got %+v", got[0])
	}
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "butler.db")

	st, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.AddWater(ctx, store.WaterLog{ID: "w1", Milliliters: 500, LoggedAt: day.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	total, err := st.WaterTotal(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if total != 500 {
		t.Errorf("total = %v, want 500", total)
	}
}
