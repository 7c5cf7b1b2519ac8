package compose

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/alfredlabs/butler/pkg/butler/extract"
	"github.com/alfredlabs/butler/pkg/butler/intent"
	"github.com/alfredlabs/butler/pkg/butler/lexicon"
)

// Thresholds defines the decision constants applied to a ranked
// candidate list.
type Thresholds struct {
	MinIntentScore      float64 // below this the message stays unclassified
	AutoActionable      float64 // minimum confidence to act without review
	ConfidenceSmoothing float64 // confidence = score / (score + smoothing)
	MissingRequiredCap  float64 // confidence ceiling when requirements are unmet
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinIntentScore:      1,
		AutoActionable:      0.75,
		ConfidenceSmoothing: 2,
		MissingRequiredCap:  0.5,
	}
}

// Result is the composed outcome for one message. Matched is false
// and Intent is intent.Unknown when no candidate cleared the minimum
// score; the explain block is populated either way.
type Result struct {
	ID             string
	Intent         intent.Intent
	Matched        bool
	Score          float64
	Confidence     float64
	AutoActionable bool
	Entities       []extract.Entity
	// MissingRequired lists unmet requirement groups of the winning
	// intent, each as an any-of set like "quantity".
	MissingRequired []string
	Explain         Explain
}

// Explain records how the result was reached.
type Explain struct {
	LexiconID  string
	Breakdown  intent.ScoreBreakdown
	Candidates []CandidateScore
}

// CandidateScore is one ranked intent's total, in rank order.
type CandidateScore struct {
	Intent intent.Intent
	Total  float64
}

// Composer turns ranked candidates and extracted entities into a
// Result with a stable, sortable ID.
type Composer struct {
	entropy    *ulid.MonotonicEntropy
	thresholds Thresholds
	specs      map[intent.Intent]intent.Spec
}

func New(specs []intent.Spec, t Thresholds) *Composer {
	byName := make(map[intent.Intent]intent.Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	return &Composer{
		entropy:    ulid.Monotonic(rand.Reader, 0),
		thresholds: t,
		specs:      byName,
	}
}

// Precedence when two extractors claim overlapping text. Lower claims
// first.
var kindPrecedence = map[extract.Kind]int{
	extract.KindTemporal: 0,
	extract.KindQuantity: 1,
	extract.KindPerson:   2,
	extract.KindFood:     3,
	extract.KindExercise: 3,
	extract.KindFreeText: 4,
}

// ResolveSpans drops entities whose span was already claimed by a
// higher-precedence kind, so one stretch of text contributes a single
// value ("on 3/15" is a date, never also a fraction). Free-text bodies
// are a remainder capture, not a literal claim: they survive overlap
// with the schedule words stripped from their Body.
func ResolveSpans(entities []extract.Entity) []extract.Entity {
	var kept []extract.Entity
	var claimed []extract.Span

	for _, prec := range []int{0, 1, 2, 3} {
		for _, e := range entities {
			if kindPrecedence[e.Kind] != prec {
				continue
			}
			overlap := false
			for _, c := range claimed {
				if e.Span.Overlaps(c) {
					overlap = true
					break
				}
			}
			if overlap {
				continue
			}
			kept = append(kept, e)
			claimed = append(claimed, e.Span)
		}
	}
	for _, e := range entities {
		if e.Kind == extract.KindFreeText {
			kept = append(kept, e)
		}
	}
	return kept
}

// Compose builds the final result from the ranked candidates. The
// entity slice must already be span-resolved.
func (c *Composer) Compose(snap *lexicon.Snapshot, candidates []intent.Candidate, entities []extract.Entity) Result {
	result := Result{
		ID:       ulid.MustNew(ulid.Now(), c.entropy).String(),
		Intent:   intent.Unknown,
		Entities: entities,
		Explain: Explain{
			LexiconID:  snap.ID(),
			Candidates: make([]CandidateScore, 0, len(candidates)),
		},
	}
	for _, cand := range candidates {
		result.Explain.Candidates = append(result.Explain.Candidates, CandidateScore{
			Intent: cand.Intent,
			Total:  cand.Breakdown.Total,
		})
	}

	if len(candidates) == 0 || candidates[0].Breakdown.Total < c.thresholds.MinIntentScore {
		return result
	}

	top := candidates[0]
	result.Matched = true
	result.Intent = top.Intent
	result.Score = top.Breakdown.Total
	result.Explain.Breakdown = top.Breakdown

	confidence := top.Breakdown.Total / (top.Breakdown.Total + c.thresholds.ConfidenceSmoothing)
	if !top.Breakdown.RequirementsMet {
		result.MissingRequired = c.missingRequired(top.Intent, entities)
		if confidence > c.thresholds.MissingRequiredCap {
			confidence = c.thresholds.MissingRequiredCap
		}
	}
	result.Confidence = confidence
	result.AutoActionable = top.Breakdown.RequirementsMet && confidence >= c.thresholds.AutoActionable

	return result
}

func (c *Composer) missingRequired(name intent.Intent, entities []extract.Entity) []string {
	spec, ok := c.specs[name]
	if !ok {
		return nil
	}
	kinds := make(map[extract.Kind]bool)
	for _, e := range entities {
		kinds[e.Kind] = true
	}

	var missing []string
	for _, group := range spec.Requirements {
		met := false
		names := make([]string, 0, len(group))
		for _, k := range group {
			if kinds[k] {
				met = true
				break
			}
			names = append(names, string(k))
		}
		if !met {
			missing = append(missing, strings.Join(names, "|"))
		}
	}
	return missing
}
