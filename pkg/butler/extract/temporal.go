package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Time-of-day anchors, hours on a 24h clock.
var timeOfDayHours = map[string]int{
	"morning":   9,
	"noon":      12,
	"afternoon": 14,
	"evening":   19,
	"tonight":   19,
	"night":     20,
	"lunch":     12,
	"dinner":    18,
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var (
	// Longest alternatives first; Go regexp alternation is ordered.
	dayPattern = regexp.MustCompile(`\b(this weekend|next week|next (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)|today|tomorrow|tonight|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	timeOfDayPattern = regexp.MustCompile(`\b(morning|noon|afternoon|evening|night|lunch|dinner)\b`)

	monthNamePattern = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december) (\d{1,2})\b`)

	// Bare numeric m/d is left to the quantity extractor (fractions);
	// a date claim needs either an "on " cue or an explicit year.
	numericDatePattern = regexp.MustCompile(`\b(?:on (\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?|(\d{1,2})/(\d{1,2})/(\d{2,4}))\b`)

	clockPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?(am|pm)?\b`)

	durationPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?) ?(hours?|hrs?|minutes?|mins?)\b`)

	clockRangePattern = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})(am|pm)\b`)
)

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

type dayRef struct {
	span     Span
	text     string
	date     time.Time // midnight of the referenced day
	hourHint int       // -1 when the marker carries no time cue
}

type clockRef struct {
	span   Span
	hour   int
	minute int
}

// Temporal scans normalized text for dates, relative day markers, clock
// times, and durations, resolving everything against ref. The system
// clock is never consulted.
//
// Ambiguous bare hours ("at 6", no am/pm) follow a fixed policy: hours
// 1-7 are read as afternoon/evening (+12h), 8-11 as morning, 12 as
// noon; the result is then moved to its nearest occurrence at or after
// ref. The same message and reference time always resolve identically.
func Temporal(norm string, ref time.Time) []Entity {
	var entities []Entity
	var consumed []Span

	claim := func(s Span) { consumed = append(consumed, s) }
	isConsumed := func(s Span) bool {
		for _, c := range consumed {
			if s.Overlaps(c) {
				return true
			}
		}
		return false
	}

	// Durations and explicit clock ranges first: their digits must not
	// be re-read as clock times.
	for _, m := range clockRangePattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		startH, _ := strconv.Atoi(norm[m[2]:m[3]])
		endH, _ := strconv.Atoi(norm[m[4]:m[5]])
		ampm := norm[m[6]:m[7]]

		h, _ := applyMeridiem(startH, 0, ampm)
		eh, _ := applyMeridiem(endH, 0, ampm)
		if eh <= h {
			eh += 12
		}
		at := nearestOccurrence(ref, h, 0)
		entities = append(entities, Entity{
			Kind: KindTemporal,
			Span: span,
			Text: norm[span.Start:span.End],
			Temporal: &TemporalValue{
				At:          at,
				HasAt:       true,
				Duration:    time.Duration(eh-h) * time.Hour,
				HasDuration: true,
			},
		})
		claim(span)
	}

	for _, m := range durationPattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		if isConsumed(span) {
			continue
		}
		amount, _ := strconv.ParseFloat(norm[m[2]:m[3]], 64)
		unit := norm[m[4]:m[5]]

		var d time.Duration
		if strings.HasPrefix(unit, "h") {
			d = time.Duration(amount * float64(time.Hour))
		} else {
			d = time.Duration(amount * float64(time.Minute))
		}
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     span,
			Text:     norm[span.Start:span.End],
			Temporal: &TemporalValue{Duration: d, HasDuration: true},
		})
		claim(span)
	}

	dayRefs := collectDayRefs(norm, ref)
	clockRefs := collectClockRefs(norm, isConsumed)

	// Time-of-day words act as an hour cue for a day marker before they
	// stand alone.
	var todSpan Span
	todHour := -1
	var todText string
	if m := timeOfDayPattern.FindStringSubmatchIndex(norm); m != nil {
		todSpan = Span{Start: m[0], End: m[1]}
		todText = norm[m[0]:m[1]]
		todHour = timeOfDayHours[todText]
	}

	switch {
	case len(dayRefs) > 0 && len(clockRefs) > 0:
		day, clock := dayRefs[0], clockRefs[0]
		at := day.date.Add(time.Duration(clock.hour)*time.Hour + time.Duration(clock.minute)*time.Minute)
		span := unionSpan(day.span, clock.span)
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     span,
			Text:     norm[span.Start:span.End],
			Temporal: &TemporalValue{At: at, HasAt: true, Relative: day.text},
		})
		dayRefs, clockRefs = dayRefs[1:], clockRefs[1:]

	case len(dayRefs) > 0:
		day := dayRefs[0]
		hour := day.hourHint
		span := day.span
		if hour < 0 && todHour >= 0 {
			hour = todHour
			span = unionSpan(span, todSpan)
			todHour = -1
		}
		if hour < 0 {
			hour = 9 // default start-of-day for bare date references
		}
		at := day.date.Add(time.Duration(hour) * time.Hour)
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     span,
			Text:     norm[span.Start:span.End],
			Temporal: &TemporalValue{At: at, HasAt: true, Relative: day.text},
		})
		dayRefs = dayRefs[1:]

	case len(clockRefs) > 0:
		clock := clockRefs[0]
		at := nearestOccurrence(ref, clock.hour, clock.minute)
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     clock.span,
			Text:     norm[clock.span.Start:clock.span.End],
			Temporal: &TemporalValue{At: at, HasAt: true},
		})
		clockRefs = clockRefs[1:]

	case todHour >= 0:
		at := nearestOccurrence(ref, todHour, 0)
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     todSpan,
			Text:     todText,
			Temporal: &TemporalValue{At: at, HasAt: true, Relative: todText},
		})
		todHour = -1
	}

	// Leftover markers resolve independently.
	for _, day := range dayRefs {
		hour := day.hourHint
		if hour < 0 {
			hour = 9
		}
		at := day.date.Add(time.Duration(hour) * time.Hour)
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     day.span,
			Text:     day.text,
			Temporal: &TemporalValue{At: at, HasAt: true, Relative: day.text},
		})
	}
	for _, clock := range clockRefs {
		at := nearestOccurrence(ref, clock.hour, clock.minute)
		entities = append(entities, Entity{
			Kind:     KindTemporal,
			Span:     clock.span,
			Text:     norm[clock.span.Start:clock.span.End],
			Temporal: &TemporalValue{At: at, HasAt: true},
		})
	}

	sortBySpan(entities)
	return entities
}

func collectDayRefs(norm string, ref time.Time) []dayRef {
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	var refs []dayRef

	for _, m := range dayPattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		text := norm[m[0]:m[1]]
		r := dayRef{span: span, text: text, hourHint: -1}

		switch {
		case text == "today":
			r.date = midnight
		case text == "tonight":
			r.date = midnight
			r.hourHint = 19
		case text == "tomorrow":
			r.date = midnight.AddDate(0, 0, 1)
		case text == "next week":
			r.date = midnight.AddDate(0, 0, daysUntil(ref.Weekday(), time.Monday))
		case text == "this weekend":
			days := int(time.Saturday-ref.Weekday()+7) % 7
			r.date = midnight.AddDate(0, 0, days)
		default:
			name := strings.TrimPrefix(text, "next ")
			r.date = midnight.AddDate(0, 0, daysUntil(ref.Weekday(), weekdayNames[name]))
		}
		refs = append(refs, r)
	}

	for _, m := range monthNamePattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		month := monthNumbers[norm[m[2]:m[3]]]
		day, _ := strconv.Atoi(norm[m[4]:m[5]])

		date := time.Date(ref.Year(), month, day, 0, 0, 0, 0, ref.Location())
		if date.Before(midnight) {
			date = date.AddDate(1, 0, 0)
		}
		refs = append(refs, dayRef{span: span, text: norm[m[0]:m[1]], date: date, hourHint: -1})
	}

	for _, m := range numericDatePattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		groups := [][2]int{{m[2], m[3]}, {m[4], m[5]}, {m[6], m[7]}, {m[8], m[9]}, {m[10], m[11]}, {m[12], m[13]}}
		var parts []int
		for _, g := range groups {
			if g[0] < 0 {
				continue
			}
			n, _ := strconv.Atoi(norm[g[0]:g[1]])
			parts = append(parts, n)
		}
		if len(parts) < 2 {
			continue
		}
		month, day := parts[0], parts[1]
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		year := ref.Year()
		if len(parts) == 3 {
			year = parts[2]
			if year < 100 {
				year += 2000
			}
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location())
		if len(parts) == 2 && date.Before(midnight) {
			date = date.AddDate(1, 0, 0)
		}
		refs = append(refs, dayRef{span: span, text: norm[m[0]:m[1]], date: date, hourHint: -1})
	}

	sortDayRefs(refs)
	return refs
}

func collectClockRefs(norm string, isConsumed func(Span) bool) []clockRef {
	var refs []clockRef
	for _, m := range clockPattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		if isConsumed(span) {
			continue
		}

		hasMinutes := m[4] >= 0
		ampm := ""
		if m[6] >= 0 {
			ampm = norm[m[6]:m[7]]
		}
		// A bare number is only a clock time when introduced by "at".
		if !hasMinutes && ampm == "" && !strings.HasSuffix(norm[:span.Start], "at ") {
			continue
		}

		hour, _ := strconv.Atoi(norm[m[2]:m[3]])
		minute := 0
		if hasMinutes {
			minute, _ = strconv.Atoi(norm[m[4]:m[5]])
		}
		if hour > 23 || minute > 59 {
			continue
		}
		h, mm := applyMeridiem(hour, minute, ampm)
		refs = append(refs, clockRef{span: span, hour: h, minute: mm})
	}
	return refs
}

// applyMeridiem converts a 12h reading to 24h. With no am/pm cue the
// documented default applies: 1-7 become afternoon/evening, 8-11 stay
// morning, 12 is noon, 13+ is already 24h.
func applyMeridiem(hour, minute int, ampm string) (int, int) {
	switch ampm {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		if hour >= 1 && hour < 8 {
			hour += 12
		}
	}
	return hour, minute
}

// nearestOccurrence places hour:minute on ref's day, moving to the next
// day when that moment is already past.
func nearestOccurrence(ref time.Time, hour, minute int) time.Time {
	at := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
	if at.Before(ref) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// daysUntil returns days from one weekday to the next occurrence of
// another, never zero (same day means next week).
func daysUntil(from, to time.Weekday) int {
	d := int(to-from+7) % 7
	if d == 0 {
		d = 7
	}
	return d
}

func unionSpan(a, b Span) Span {
	s := a
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

func sortBySpan(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Span.Start < entities[j].Span.Start
	})
}

func sortDayRefs(refs []dayRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].span.Start < refs[j].span.Start
	})
}
