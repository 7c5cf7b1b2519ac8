package dispatch

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alfredlabs/butler/pkg/butler/compose"
	"github.com/alfredlabs/butler/pkg/butler/extract"
	"github.com/alfredlabs/butler/pkg/butler/intent"
	"github.com/alfredlabs/butler/pkg/butler/internalerr"
	"github.com/alfredlabs/butler/pkg/butler/message"
	"github.com/alfredlabs/butler/pkg/butler/store"
)

// Action names what the dispatcher did with a result.
type Action string

const (
	ActionNone         Action = "none"
	ActionLogWater     Action = "log_water"
	ActionLogFood      Action = "log_food"
	ActionLogGym       Action = "log_gym"
	ActionCreateTask   Action = "create_task"
	ActionCompleteTask Action = "complete_task"
	ActionCreateEvent  Action = "create_event"
	ActionQuery        Action = "query"
	ActionOrganize     Action = "organize"
)

// Outcome reports the applied action. Events carries the answer for
// query actions.
type Outcome struct {
	Action Action
	Detail string
	Events []store.Event
}

// Dispatcher applies auto-actionable results to the activity log.
type Dispatcher struct {
	store   store.Store
	entropy *ulid.MonotonicEntropy
}

func New(st store.Store) *Dispatcher {
	return &Dispatcher{
		store:   st,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (d *Dispatcher) newID() string {
	return ulid.MustNew(ulid.Now(), d.entropy).String()
}

// Dispatch routes a result to its store operation. Results that are
// not auto-actionable come back as ActionNone so callers can hold them
// for confirmation. ref anchors "today" for logs and queries.
func (d *Dispatcher) Dispatch(ctx context.Context, msg message.Message, result compose.Result, ref time.Time) (Outcome, error) {
	if !result.AutoActionable {
		return Outcome{Action: ActionNone, Detail: "needs confirmation"}, nil
	}

	switch result.Intent {
	case intent.Water:
		return d.logWater(ctx, result, ref)
	case intent.Food:
		return d.logFood(ctx, msg, result, ref)
	case intent.Gym:
		return d.logGym(ctx, result, ref)
	case intent.TodoCreate:
		return d.createTask(ctx, result, store.KindTodo, ref)
	case intent.Reminder:
		return d.createTask(ctx, result, store.KindReminder, ref)
	case intent.TodoComplete:
		return d.completeTask(ctx, result, ref)
	case intent.CalendarCreate:
		return d.createEvent(ctx, msg, result, ref)
	case intent.CalendarQuery:
		return d.queryEvents(ctx, result, ref)
	case intent.OrganizeUpload:
		// Uploads reach no store; the caller files the attachment
		// under the detected category.
		return Outcome{Action: ActionOrganize, Detail: UploadCategory(msg.Normalized)}, nil
	default:
		return Outcome{Action: ActionNone, Detail: string(result.Intent)}, nil
	}
}

// uploadCategories is checked in order; the first category with a
// keyword hit wins.
var uploadCategories = []struct {
	name     string
	keywords []string
}{
	{"receipts", []string{"receipt", "bill", "invoice", "purchase"}},
	{"documents", []string{"document", "paper", "form", "contract"}},
	{"work", []string{"work", "office", "business", "meeting"}},
	{"personal", []string{"personal", "family", "friends", "home"}},
	{"photos", []string{"photo", "picture", "image", "selfie"}},
}

// UploadCategory picks the folder an uploaded attachment belongs in,
// from keywords in the normalized message. Unrecognized messages file
// under "photos".
func UploadCategory(norm string) string {
	for _, c := range uploadCategories {
		for _, kw := range c.keywords {
			if strings.Contains(norm, kw) {
				return c.name
			}
		}
	}
	return "photos"
}

func (d *Dispatcher) logWater(ctx context.Context, result compose.Result, ref time.Time) (Outcome, error) {
	total := 0.0
	for _, e := range result.Entities {
		if e.Kind == extract.KindQuantity && e.Quantity.Unit == "ml" {
			total += e.Quantity.Amount
		}
	}
	if total <= 0 {
		return Outcome{}, fmt.Errorf("water log without a volume: %w", internalerr.ErrInvalidInput)
	}

	if err := d.store.AddWater(ctx, store.WaterLog{
		ID:          d.newID(),
		Milliliters: total,
		LoggedAt:    ref,
	}); err != nil {
		return Outcome{}, fmt.Errorf("log water: %w", err)
	}
	return Outcome{Action: ActionLogWater, Detail: fmt.Sprintf("%.0f ml", total)}, nil
}

func (d *Dispatcher) logFood(ctx context.Context, msg message.Message, result compose.Result, ref time.Time) (Outcome, error) {
	logged := 0
	for _, e := range result.Entities {
		if e.Kind != extract.KindFood {
			continue
		}
		f := e.Food
		if err := d.store.AddFood(ctx, store.FoodLog{
			ID:         d.newID(),
			Food:       f.Canonical,
			Multiplier: f.Multiplier,
			Calories:   f.Calories * f.Multiplier,
			Protein:    f.Protein * f.Multiplier,
			Carbs:      f.Carbs * f.Multiplier,
			Fat:        f.Fat * f.Multiplier,
			Fiber:      f.Fiber * f.Multiplier,
			LoggedAt:   ref,
		}); err != nil {
			return Outcome{}, fmt.Errorf("log food: %w", err)
		}
		logged++
	}

	// A food message with no lexicon hit still gets recorded, as a
	// free-text description.
	if logged == 0 {
		body := msg.Normalized
		if free := firstFreeText(result.Entities); free != "" {
			body = free
		}
		if err := d.store.AddFood(ctx, store.FoodLog{
			ID:          d.newID(),
			Multiplier:  1,
			Description: body,
			LoggedAt:    ref,
		}); err != nil {
			return Outcome{}, fmt.Errorf("log food: %w", err)
		}
		logged = 1
	}
	return Outcome{Action: ActionLogFood, Detail: fmt.Sprintf("%d item(s)", logged)}, nil
}

func (d *Dispatcher) logGym(ctx context.Context, result compose.Result, ref time.Time) (Outcome, error) {
	minutes := 0
	for _, e := range result.Entities {
		if e.Kind == extract.KindTemporal && e.Temporal.HasDuration {
			minutes = int(e.Temporal.Duration.Minutes())
			break
		}
	}

	logged := 0
	for _, e := range result.Entities {
		if e.Kind != extract.KindExercise {
			continue
		}
		x := e.Exercise
		if err := d.store.AddGym(ctx, store.GymLog{
			ID:              d.newID(),
			MuscleGroup:     x.MuscleGroup,
			Exercise:        x.Exercise,
			Weight:          x.Weight,
			Reps:            x.Reps,
			DurationMinutes: minutes,
			LoggedAt:        ref,
		}); err != nil {
			return Outcome{}, fmt.Errorf("log gym: %w", err)
		}
		logged++
	}
	if logged == 0 {
		return Outcome{}, fmt.Errorf("gym log without an exercise: %w", internalerr.ErrInvalidInput)
	}
	return Outcome{Action: ActionLogGym, Detail: fmt.Sprintf("%d entry(ies)", logged)}, nil
}

func (d *Dispatcher) createTask(ctx context.Context, result compose.Result, kind store.TaskKind, ref time.Time) (Outcome, error) {
	body := firstFreeText(result.Entities)
	if body == "" {
		return Outcome{}, fmt.Errorf("task without a body: %w", internalerr.ErrInvalidInput)
	}

	task := store.Task{
		ID:        d.newID(),
		Body:      body,
		Kind:      kind,
		CreatedAt: ref,
	}
	if at, ok := firstPointInTime(result.Entities); ok {
		task.DueAt = at
		task.HasDue = true
	}
	if err := d.store.AddTask(ctx, task); err != nil {
		return Outcome{}, fmt.Errorf("create task: %w", err)
	}
	return Outcome{Action: ActionCreateTask, Detail: body}, nil
}

func (d *Dispatcher) completeTask(ctx context.Context, result compose.Result, ref time.Time) (Outcome, error) {
	body := firstFreeText(result.Entities)
	if body == "" {
		return Outcome{}, fmt.Errorf("completion without a body: %w", internalerr.ErrInvalidInput)
	}

	task, err := d.store.CompleteTask(ctx, body, ref)
	if err != nil {
		return Outcome{}, fmt.Errorf("complete task: %w", err)
	}
	return Outcome{Action: ActionCompleteTask, Detail: task.Body}, nil
}

func (d *Dispatcher) createEvent(ctx context.Context, msg message.Message, result compose.Result, ref time.Time) (Outcome, error) {
	at, ok := firstPointInTime(result.Entities)
	if !ok {
		return Outcome{}, fmt.Errorf("event without a time: %w", internalerr.ErrInvalidInput)
	}

	title, location := eventTitleLocation(msg.Normalized, result.Entities)
	event := store.Event{
		ID:        d.newID(),
		Title:     title,
		Location:  location,
		StartsAt:  at,
		CreatedAt: ref,
	}
	for _, e := range result.Entities {
		if e.Kind == extract.KindPerson {
			event.With = e.Person.Name
			break
		}
	}
	for _, e := range result.Entities {
		if e.Kind == extract.KindTemporal && e.Temporal.HasDuration {
			event.Duration = e.Temporal.Duration
			break
		}
	}

	if err := d.store.AddEvent(ctx, event); err != nil {
		return Outcome{}, fmt.Errorf("create event: %w", err)
	}
	return Outcome{Action: ActionCreateEvent, Detail: event.Title}, nil
}

func (d *Dispatcher) queryEvents(ctx context.Context, result compose.Result, ref time.Time) (Outcome, error) {
	day := ref
	if at, ok := firstPointInTime(result.Entities); ok {
		day = at
	}
	from, to := store.DayWindow(day)

	events, err := d.store.EventsBetween(ctx, from, to)
	if err != nil {
		return Outcome{}, fmt.Errorf("query events: %w", err)
	}
	return Outcome{
		Action: ActionQuery,
		Detail: fmt.Sprintf("%d event(s) on %s", len(events), from.Format("2006-01-02")),
		Events: events,
	}, nil
}

func firstFreeText(entities []extract.Entity) string {
	for _, e := range entities {
		if e.Kind == extract.KindFreeText {
			return e.Free.Body
		}
	}
	return ""
}

func firstPointInTime(entities []extract.Entity) (time.Time, bool) {
	for _, e := range entities {
		if e.Kind == extract.KindTemporal && e.Temporal.HasAt {
			return e.Temporal.At, true
		}
	}
	return time.Time{}, false
}

// eventTitleLocation is the message text minus its temporal spans,
// split on a remaining "at" into title and place: "meeting with john
// at starbucks tomorrow 2pm" titles as "meeting with john" at
// "starbucks". Schedule "at"s are already gone with their spans.
func eventTitleLocation(norm string, entities []extract.Entity) (string, string) {
	cut := make([]byte, len(norm))
	copy(cut, norm)
	for _, e := range entities {
		if e.Kind != extract.KindTemporal {
			continue
		}
		start := e.Span.Start
		// A connector introducing the schedule goes with it.
		prefix := norm[:start]
		for _, c := range []string{"at ", "on ", "for ", "from "} {
			if prefix == c || strings.HasSuffix(prefix, " "+c) {
				start -= len(c)
				break
			}
		}
		for i := start; i < e.Span.End && i < len(cut); i++ {
			cut[i] = ' '
		}
	}
	cleaned := strings.Join(strings.Fields(string(cut)), " ")

	title, location := cleaned, ""
	if idx := strings.Index(cleaned, " at "); idx >= 0 {
		title = cleaned[:idx]
		location = message.TrimFillers(cleaned[idx+len(" at "):])
	}
	title = message.TrimFillers(title)
	if title == "" {
		return norm, location
	}
	return title, location
}
