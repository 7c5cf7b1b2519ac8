package butler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alfredlabs/butler/pkg/butler/dispatch"
	"github.com/alfredlabs/butler/pkg/butler/extract"
	"github.com/alfredlabs/butler/pkg/butler/intent"
	"github.com/alfredlabs/butler/pkg/butler/internalerr"
	"github.com/alfredlabs/butler/pkg/butler/lexicon"
	"github.com/alfredlabs/butler/pkg/butler/store/memstore"
)

// Wednesday morning, fixed anchor for every scenario.
var ref = time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

func classify(t *testing.T, b *Butler, text string) Response {
	t.Helper()
	resp, err := b.Classify(context.Background(), Request{Text: text, ReferenceTime: ref})
	if err != nil {
		t.Fatalf("Classify(%q): %v", text, err)
	}
	return resp
}

func entityOfKind(resp Response, kind extract.Kind) (extract.Entity, bool) {
	for _, e := range resp.Result.Entities {
		if e.Kind == kind {
			return e, true
		}
	}
	return extract.Entity{}, false
}

func TestClassifyWater(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "Drank a bottle of water")

	r := resp.Result
	if r.Intent != intent.Water || !r.Matched {
		t.Fatalf("result = %+v", r)
	}
	if !r.AutoActionable || r.Confidence < 0.75 {
		t.Errorf("confidence = %v, actionable = %v", r.Confidence, r.AutoActionable)
	}
	q, ok := entityOfKind(resp, extract.KindQuantity)
	if !ok || q.Quantity.Amount != 710 || q.Quantity.Unit != "ml" {
		t.Errorf("quantity = %+v", q)
	}
}

func TestClassifyCalendarCreate(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "Meeting with John tomorrow at 2pm for 1 hour")

	r := resp.Result
	if r.Intent != intent.CalendarCreate || !r.AutoActionable {
		t.Fatalf("result = %+v", r)
	}

	at, ok := entityOfKind(resp, extract.KindTemporal)
	if !ok || !at.Temporal.HasAt {
		t.Fatalf("temporal = %+v", at)
	}
	want := time.Date(2026, time.March, 5, 14, 0, 0, 0, time.UTC)
	if !at.Temporal.At.Equal(want) {
		t.Errorf("At = %v, want %v", at.Temporal.At, want)
	}

	p, ok := entityOfKind(resp, extract.KindPerson)
	if !ok || p.Person.Name != "John" {
		t.Errorf("person = %+v", p)
	}

	hasDuration := false
	for _, e := range resp.Result.Entities {
		if e.Kind == extract.KindTemporal && e.Temporal.HasDuration && e.Temporal.Duration == time.Hour {
			hasDuration = true
		}
	}
	if !hasDuration {
		t.Error("missing 1 hour duration entity")
	}
}

func TestClassifyFood(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "ate a quesadilla for lunch")

	r := resp.Result
	if r.Intent != intent.Food || !r.AutoActionable {
		t.Fatalf("result = %+v", r)
	}
	f, ok := entityOfKind(resp, extract.KindFood)
	if !ok || f.Food.Canonical != "quesadilla" || f.Food.Calories != 520 {
		t.Errorf("food = %+v", f)
	}
}

func TestClassifyReminder(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "remind me at 6 to take out the trash")

	r := resp.Result
	if r.Intent != intent.Reminder || !r.AutoActionable {
		t.Fatalf("result = %+v", r)
	}
	at, ok := entityOfKind(resp, extract.KindTemporal)
	if !ok || at.Temporal.At.Hour() != 18 {
		t.Errorf("temporal = %+v", at)
	}
	free, ok := entityOfKind(resp, extract.KindFreeText)
	if !ok || free.Free.Body != "take out the trash" {
		t.Errorf("free text = %+v", free)
	}
}

func TestClassifyGymSetNotation(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "bench 225x5")

	r := resp.Result
	if r.Intent != intent.Gym || !r.Matched {
		t.Fatalf("result = %+v", r)
	}
	e, ok := entityOfKind(resp, extract.KindExercise)
	if !ok || e.Exercise.Exercise != "bench press" || e.Exercise.Weight != 225 || e.Exercise.Reps != 5 {
		t.Errorf("exercise = %+v", e)
	}
}

func TestClassifyTodoComplete(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "Finished the laundry")

	r := resp.Result
	if r.Intent != intent.TodoComplete || !r.Matched {
		t.Fatalf("result = %+v", r)
	}
	free, ok := entityOfKind(resp, extract.KindFreeText)
	if !ok || free.Free.Body != "laundry" {
		t.Errorf("free text = %+v", free)
	}
}

func TestClassifyMissingRequiredCapped(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "drank so much today")

	r := resp.Result
	if r.Intent != intent.Water || !r.Matched {
		t.Fatalf("result = %+v", r)
	}
	if r.Confidence > 0.5 {
		t.Errorf("confidence = %v, want cap at 0.5", r.Confidence)
	}
	if r.AutoActionable {
		t.Error("missing quantity must block auto action")
	}
	if len(r.MissingRequired) == 0 {
		t.Error("missing requirements not reported")
	}
}

func TestClassifyUnknown(t *testing.T) {
	b := New(Options{})
	resp := classify(t, b, "xylophone zeppelin")

	if resp.Result.Matched || resp.Result.AutoActionable {
		t.Errorf("result = %+v", resp.Result)
	}
	if resp.Result.Intent != intent.Unknown {
		t.Errorf("Intent = %q, want %q", resp.Result.Intent, intent.Unknown)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	b := New(Options{})
	first := classify(t, b, "remind me at 6 to call mom")
	for i := 0; i < 3; i++ {
		again := classify(t, b, "remind me at 6 to call mom")
		if again.Result.Intent != first.Result.Intent || again.Result.Confidence != first.Result.Confidence {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again.Result, first.Result)
		}
	}
}

func TestClassifyInvalidInput(t *testing.T) {
	b := New(Options{})
	if _, err := b.Classify(context.Background(), Request{Text: "   "}); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestClassifyUsesLiveLexicon(t *testing.T) {
	b := New(Options{})

	resp := classify(t, b, "ate some poutine")
	if f, ok := entityOfKind(resp, extract.KindFood); ok {
		t.Fatalf("unexpected food entity %+v", f)
	}

	err := b.Lexicon().AddFood(lexicon.FoodEntry{
		Canonical: "poutine",
		Attrs:     lexicon.FoodAttributes{Calories: 740},
	})
	if err != nil {
		t.Fatal(err)
	}

	resp = classify(t, b, "ate some poutine")
	f, ok := entityOfKind(resp, extract.KindFood)
	if !ok || f.Food.Canonical != "poutine" {
		t.Fatalf("food = %+v", f)
	}
	if resp.Result.Intent != intent.Food || !resp.Result.AutoActionable {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestClassifyPinnedSnapshot(t *testing.T) {
	b := New(Options{})
	snap, err := b.Lexicon().Current()
	if err != nil {
		t.Fatal(err)
	}

	req := Request{Text: "drank a bottle of water", ReferenceTime: ref, LexiconSnapshotID: snap.ID()}
	resp, err := b.Classify(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Result.Explain.LexiconID != snap.ID() {
		t.Errorf("LexiconID = %q, want %q", resp.Result.Explain.LexiconID, snap.ID())
	}

	// A lexicon update retires the pinned snapshot.
	if err := b.Lexicon().AddFood(lexicon.FoodEntry{Canonical: "poutine"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Classify(context.Background(), req); !errors.Is(err, internalerr.ErrLexiconUnavailable) {
		t.Fatalf("err = %v, want ErrLexiconUnavailable", err)
	}
}

func TestHandleEndToEnd(t *testing.T) {
	st := memstore.New()
	b := New(Options{Store: st})
	defer b.Close()
	ctx := context.Background()

	// Log a drink, schedule a meeting, then ask about tomorrow.
	resp, err := b.Handle(ctx, Request{Text: "drank 24oz of water", ReferenceTime: ref})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome.Action != dispatch.ActionLogWater {
		t.Fatalf("outcome = %+v", resp.Outcome)
	}
	total, err := st.WaterTotal(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if total < 709 || total > 710 {
		t.Errorf("water total = %v", total)
	}

	resp, err = b.Handle(ctx, Request{Text: "Meeting with John tomorrow at 2pm for 1 hour", ReferenceTime: ref})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome.Action != dispatch.ActionCreateEvent {
		t.Fatalf("outcome = %+v", resp.Outcome)
	}

	resp, err = b.Handle(ctx, Request{Text: "What's on my calendar tomorrow?", ReferenceTime: ref})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome.Action != dispatch.ActionQuery {
		t.Fatalf("outcome = %+v", resp.Outcome)
	}
	if len(resp.Outcome.Events) != 1 || resp.Outcome.Events[0].With != "John" {
		t.Errorf("events = %+v", resp.Outcome.Events)
	}
	if resp.Outcome.Events[0].Duration != time.Hour {
		t.Errorf("duration = %v", resp.Outcome.Events[0].Duration)
	}
}

func TestHandleWithoutStore(t *testing.T) {
	b := New(Options{})
	resp, err := b.Handle(context.Background(), Request{Text: "drank a bottle of water", ReferenceTime: ref})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome.Action != "" {
		t.Errorf("outcome = %+v", resp.Outcome)
	}
	if !resp.Result.AutoActionable {
		t.Errorf("result = %+v", resp.Result)
	}
}
