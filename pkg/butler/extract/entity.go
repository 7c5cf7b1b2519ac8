// Package extract contains the entity extractors: pure functions that
// scan normalized message text for one entity type each. Extractors run
// independently, may produce overlapping spans, and never fail on
// well-formed text; resolving overlaps is the composer's job.
package extract

import "time"

// Kind tags the variant held by an Entity.
type Kind string

const (
	KindQuantity Kind = "quantity"
	KindTemporal Kind = "temporal"
	KindPerson   Kind = "person"
	KindFood     Kind = "food"
	KindExercise Kind = "exercise"
	KindFreeText Kind = "free_text"
)

// Span is a byte range in the normalized message text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share any bytes.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Entity is one extracted piece of structured information. Exactly one
// of the value pointers matching Kind is set.
type Entity struct {
	Kind Kind   `json:"kind"`
	Span Span   `json:"span"`
	Text string `json:"text"`

	Quantity *QuantityValue `json:"quantity,omitempty"`
	Temporal *TemporalValue `json:"temporal,omitempty"`
	Person   *PersonValue   `json:"person,omitempty"`
	Food     *FoodValue     `json:"food,omitempty"`
	Exercise *ExerciseValue `json:"exercise,omitempty"`
	Free     *FreeTextValue `json:"free_text,omitempty"`
}

// QuantityValue is an amount with a canonical unit. Volume quantities
// are always resolved to milliliters; count-like quantities keep their
// canonical unit name ("serving", "slice", ...).
type QuantityValue struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// TemporalValue is a resolved point in time, a duration, or both.
// Resolution is always relative to the caller-supplied reference time.
type TemporalValue struct {
	At          time.Time     `json:"at,omitempty"`
	HasAt       bool          `json:"has_at"`
	Duration    time.Duration `json:"duration,omitempty"`
	HasDuration bool          `json:"has_duration"`
	Relative    string        `json:"relative,omitempty"`
}

// PersonValue is a recognized person reference. Role is set when the
// match came from the closed role-noun set ("mom", "team", ...).
type PersonValue struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// FoodValue carries the lexicon entry a food mention resolved to, the
// surface alias that matched, and a portion multiplier.
type FoodValue struct {
	Canonical   string  `json:"canonical"`
	Alias       string  `json:"alias"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	ServingSize string  `json:"serving_size"`
	Multiplier  float64 `json:"multiplier"`
}

// ExerciseValue is a muscle group, optionally with the specific
// exercise and set details when the message used set notation.
type ExerciseValue struct {
	MuscleGroup string `json:"muscle_group"`
	Exercise    string `json:"exercise,omitempty"`
	Weight      int    `json:"weight,omitempty"`
	Reps        int    `json:"reps,omitempty"`
}

// FreeTextValue is the unmatched remainder captured after a trigger
// phrase, used as a todo or reminder body.
type FreeTextValue struct {
	Body string `json:"body"`
}
