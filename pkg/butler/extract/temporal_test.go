package extract

import (
	"testing"
	"time"
)

// Wednesday morning, fixed reference for every temporal scenario.
var ref = time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

func findTemporal(t *testing.T, entities []Entity, want func(*TemporalValue) bool) *TemporalValue {
	t.Helper()
	for _, e := range entities {
		if e.Kind == KindTemporal && want(e.Temporal) {
			return e.Temporal
		}
	}
	t.Fatalf("no matching temporal entity in %+v", entities)
	return nil
}

func TestTemporalTomorrowWithClock(t *testing.T) {
	entities := Temporal("meeting with john tomorrow 2pm for 1 hour", ref)

	at := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
	want := time.Date(2026, time.March, 5, 14, 0, 0, 0, time.UTC)
	if !at.At.Equal(want) {
		t.Errorf("At = %v, want %v", at.At, want)
	}
	if at.Relative != "tomorrow" {
		t.Errorf("Relative = %q", at.Relative)
	}

	dur := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasDuration && !v.HasAt })
	if dur.Duration != time.Hour {
		t.Errorf("Duration = %v, want 1h", dur.Duration)
	}
}

func TestTemporalAmbiguousBareHour(t *testing.T) {
	// "at 6" with no am/pm: afternoon preferred, nearest occurrence at
	// or after the reference time.
	entities := Temporal("remind me at 6", ref)
	at := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
	want := time.Date(2026, time.March, 4, 18, 0, 0, 0, time.UTC)
	if !at.At.Equal(want) {
		t.Errorf("At = %v, want %v", at.At, want)
	}

	// Same message later in the evening rolls to the next day.
	evening := time.Date(2026, time.March, 4, 19, 0, 0, 0, time.UTC)
	entities = Temporal("remind me at 6", evening)
	at = findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
	want = time.Date(2026, time.March, 5, 18, 0, 0, 0, time.UTC)
	if !at.At.Equal(want) {
		t.Errorf("evening ref: At = %v, want %v", at.At, want)
	}
}

func TestTemporalDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		entities := Temporal("remind me at 6", ref)
		at := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
		if at.At.Hour() != 18 {
			t.Fatalf("run %d resolved to %v", i, at.At)
		}
	}
}

func TestTemporalRelativeMarkers(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
	}{
		{"tonight", time.Date(2026, time.March, 4, 19, 0, 0, 0, time.UTC)},
		{"today", time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)},
		{"friday", time.Date(2026, time.March, 6, 9, 0, 0, 0, time.UTC)},
		{"next wednesday", time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)},
		{"this weekend", time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC)},
		{"next week", time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)},
		{"tomorrow morning", time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)},
		{"tomorrow evening", time.Date(2026, time.March, 5, 19, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		entities := Temporal(c.text, ref)
		at := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
		if !at.At.Equal(c.want) {
			t.Errorf("%q: At = %v, want %v", c.text, at.At, c.want)
		}
	}
}

func TestTemporalMonthName(t *testing.T) {
	entities := Temporal("dentist june 15", ref)
	at := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
	want := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)
	if !at.At.Equal(want) {
		t.Errorf("At = %v, want %v", at.At, want)
	}

	// A month/day already past moves to next year.
	entities = Temporal("on january 2", ref)
	at = findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt })
	if at.At.Year() != 2027 {
		t.Errorf("past date resolved to %v", at.At)
	}
}

func TestTemporalClockRange(t *testing.T) {
	entities := Temporal("block 3-5pm", ref)
	v := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasAt && v.HasDuration })
	if v.At.Hour() != 15 {
		t.Errorf("start = %v", v.At)
	}
	if v.Duration != 2*time.Hour {
		t.Errorf("duration = %v", v.Duration)
	}
}

func TestTemporalDurationOnly(t *testing.T) {
	entities := Temporal("walked for 30 minutes", ref)
	v := findTemporal(t, entities, func(v *TemporalValue) bool { return v.HasDuration })
	if v.Duration != 30*time.Minute {
		t.Errorf("duration = %v", v.Duration)
	}
	if v.HasAt {
		t.Error("bare duration must not carry a point in time")
	}
}

func TestTemporalNone(t *testing.T) {
	if entities := Temporal("ate a quesadilla", ref); len(entities) != 0 {
		t.Errorf("unexpected entities: %+v", entities)
	}
}

func TestTemporalSpansAreValid(t *testing.T) {
	norm := "meeting tomorrow 2pm for 1 hour"
	for _, e := range Temporal(norm, ref) {
		if e.Span.Start < 0 || e.Span.End > len(norm) || e.Span.Start >= e.Span.End {
			t.Errorf("bad span %+v for %q", e.Span, e.Text)
		}
		if norm[e.Span.Start:e.Span.End] != e.Text {
			t.Errorf("span text mismatch: %q vs %q", norm[e.Span.Start:e.Span.End], e.Text)
		}
	}
}
