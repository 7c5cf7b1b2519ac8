package intent

import (
	"sort"

	"github.com/alfredlabs/butler/pkg/butler/extract"
	"github.com/alfredlabs/butler/pkg/butler/lexicon"
)

// Intent names one recognized message purpose. The set is closed:
// classification picks from these or reports nothing.
type Intent string

const (
	Water          Intent = "water"
	Food           Intent = "food"
	Gym            Intent = "gym"
	CalendarCreate Intent = "calendar_create"
	CalendarQuery  Intent = "calendar_query"
	TodoCreate     Intent = "todo_create"
	TodoComplete   Intent = "todo_complete"
	Reminder       Intent = "reminder"
	OrganizeUpload Intent = "organize_upload"

	// Unknown is the sentinel carried by results where no candidate
	// cleared the score threshold. It has no spec and never ranks.
	Unknown Intent = "unknown"
)

// All returns every known intent.
func All() []Intent {
	return []Intent{
		Water, Food, Gym,
		CalendarCreate, CalendarQuery,
		TodoCreate, TodoComplete,
		Reminder, OrganizeUpload,
	}
}

// Spec describes how one intent is recognized. Requirements is a
// conjunction of any-of groups: every group must be satisfied by at
// least one extracted entity kind. Priority breaks exact score ties,
// lower wins.
type Spec struct {
	Name         Intent
	Requirements [][]extract.Kind
	Priority     int
}

// DefaultSpecs returns the built-in intent set. More specific intents
// carry lower priorities so ties resolve toward them.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: CalendarQuery, Priority: 1},
		{Name: CalendarCreate, Priority: 2, Requirements: [][]extract.Kind{{extract.KindTemporal}}},
		{Name: Reminder, Priority: 3, Requirements: [][]extract.Kind{{extract.KindFreeText}, {extract.KindTemporal}}},
		{Name: TodoComplete, Priority: 4, Requirements: [][]extract.Kind{{extract.KindFreeText}}},
		{Name: TodoCreate, Priority: 5, Requirements: [][]extract.Kind{{extract.KindFreeText}}},
		{Name: Gym, Priority: 6, Requirements: [][]extract.Kind{{extract.KindExercise}}},
		{Name: Water, Priority: 7, Requirements: [][]extract.Kind{{extract.KindQuantity}}},
		{Name: Food, Priority: 8, Requirements: [][]extract.Kind{{extract.KindFood, extract.KindFreeText}}},
		{Name: OrganizeUpload, Priority: 9},
	}
}

// Weights defines the scoring constants.
type Weights struct {
	RequiredBonus      float64 // added when a triggered intent's requirements are met
	SpecificityPenalty float64 // subtracted when a more specific rival's requirements are met
}

func DefaultWeights() Weights {
	return Weights{RequiredBonus: 3, SpecificityPenalty: 1.5}
}

// Scorer ranks intents for a message.
//
// total = Σ trigger weights + required_bonus - specificity_penalty
//
// Trigger weights come from the lexicon snapshot, one contribution per
// distinct word. The bonus applies only when the intent was triggered
// by at least one word and every requirement group is satisfied; the
// penalty applies when the intent's requirements are unmet while a
// rival with strictly more requirement groups has all of its own met.
type Scorer struct {
	specs   []Spec
	weights Weights
}

func NewScorer(specs []Spec, w Weights) *Scorer {
	return &Scorer{specs: specs, weights: w}
}

// ScoreBreakdown records where a candidate's total came from.
type ScoreBreakdown struct {
	TriggerWeights     map[string]float64 // word -> weight applied
	Triggers           float64
	RequiredBonus      float64
	SpecificityPenalty float64
	RequirementsMet    bool
	Total              float64
}

// Candidate is one scored intent.
type Candidate struct {
	Intent    Intent
	Priority  int
	Breakdown ScoreBreakdown
}

// Rank scores every spec against the message's words and extracted
// entities, highest total first. Candidates with a non-positive total
// are dropped. Equal totals resolve by spec priority, so the same
// input always ranks identically.
func (s *Scorer) Rank(words []string, entities []extract.Entity, snap *lexicon.Snapshot) []Candidate {
	kinds := make(map[extract.Kind]bool)
	for _, e := range entities {
		kinds[e.Kind] = true
	}

	// Per-intent trigger contributions, one per distinct word.
	triggered := make(map[Intent]map[string]float64)
	for _, word := range words {
		for _, hit := range snap.TriggerHits(word) {
			m := triggered[Intent(hit.Intent)]
			if m == nil {
				m = make(map[string]float64)
				triggered[Intent(hit.Intent)] = m
			}
			if hit.Weight > m[word] {
				m[word] = hit.Weight
			}
		}
	}

	// The most demanding spec that was triggered and fully satisfied
	// sets the bar for the specificity penalty.
	bestMet := -1
	for _, spec := range s.specs {
		if len(triggered[spec.Name]) == 0 {
			continue
		}
		if requirementsMet(spec, kinds) && len(spec.Requirements) > bestMet {
			bestMet = len(spec.Requirements)
		}
	}

	var candidates []Candidate
	for _, spec := range s.specs {
		b := ScoreBreakdown{TriggerWeights: triggered[spec.Name]}
		for _, w := range b.TriggerWeights {
			b.Triggers += w
		}
		b.RequirementsMet = requirementsMet(spec, kinds)

		if b.Triggers > 0 && b.RequirementsMet {
			b.RequiredBonus = s.weights.RequiredBonus
		}
		if !b.RequirementsMet && bestMet > len(spec.Requirements) {
			b.SpecificityPenalty = s.weights.SpecificityPenalty
		}
		b.Total = b.Triggers + b.RequiredBonus - b.SpecificityPenalty

		if b.Total <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			Intent:    spec.Name,
			Priority:  spec.Priority,
			Breakdown: b,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Breakdown.Total != candidates[j].Breakdown.Total {
			return candidates[i].Breakdown.Total > candidates[j].Breakdown.Total
		}
		return candidates[i].Priority < candidates[j].Priority
	})
	return candidates
}

func requirementsMet(spec Spec, kinds map[extract.Kind]bool) bool {
	for _, group := range spec.Requirements {
		ok := false
		for _, k := range group {
			if kinds[k] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
