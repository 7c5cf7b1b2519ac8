package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alfredlabs/butler/pkg/butler/lexicon"
	"github.com/alfredlabs/butler/pkg/butler/message"
)

// Set notation from gym logs: "bench 225x5".
var setNotationPattern = regexp.MustCompile(`\b([a-z]+) (\d+)x(\d+)\b`)

// Lookup scans normalized text for food and exercise mentions against
// the lexicon snapshot. Matching is greedy longest-first so a short
// alias never shadows a longer entry starting at the same position
// ("chicken breast" beats "chicken").
func Lookup(norm string, snap *lexicon.Snapshot) []Entity {
	var entities []Entity
	var claimed []Span

	// Set notation first: it pins the specific exercise plus weight/reps
	// and must not be re-read as a plain exercise mention.
	for _, m := range setNotationPattern.FindAllStringSubmatchIndex(norm, -1) {
		word := norm[m[2]:m[3]]
		entry, ok := snap.FindExercise(word)
		if !ok {
			continue
		}
		weight, _ := strconv.Atoi(norm[m[4]:m[5]])
		reps, _ := strconv.Atoi(norm[m[6]:m[7]])
		span := Span{Start: m[0], End: m[1]}
		entities = append(entities, Entity{
			Kind: KindExercise,
			Span: span,
			Text: norm[span.Start:span.End],
			Exercise: &ExerciseValue{
				MuscleGroup: entry.Attrs.MuscleGroup,
				Exercise:    entry.Canonical,
				Weight:      weight,
				Reps:        reps,
			},
		})
		claimed = append(claimed, span)
	}

	tokens := message.Tokens(norm)
	maxWords := snap.MaxPhraseWords()

	overlapsClaimed := func(s Span) bool {
		for _, c := range claimed {
			if s.Overlaps(c) {
				return true
			}
		}
		return false
	}

	i := 0
	for i < len(tokens) {
		if overlapsClaimed(Span{Start: tokens[i].Start, End: tokens[i].End}) {
			i++
			continue
		}

		matched := false
		limit := maxWords
		if remaining := len(tokens) - i; limit > remaining {
			limit = remaining
		}
		for n := limit; n >= 1 && !matched; n-- {
			span := Span{Start: tokens[i].Start, End: tokens[i+n-1].End}
			if overlapsClaimed(span) {
				continue
			}
			phrase := norm[span.Start:span.End]

			if food, ok := snap.FindFood(phrase); ok {
				entities = append(entities, Entity{
					Kind: KindFood,
					Span: span,
					Text: phrase,
					Food: &FoodValue{
						Canonical:   food.Canonical,
						Alias:       phrase,
						Calories:    food.Attrs.Calories,
						Protein:     food.Attrs.Protein,
						Carbs:       food.Attrs.Carbs,
						Fat:         food.Attrs.Fat,
						Fiber:       food.Attrs.Fiber,
						ServingSize: food.Attrs.ServingSize,
						Multiplier:  portionMultiplier(tokens, i),
					},
				})
				i += n
				matched = true
				break
			}
			if exercise, ok := snap.FindExercise(phrase); ok {
				entities = append(entities, Entity{
					Kind: KindExercise,
					Span: span,
					Text: phrase,
					Exercise: &ExerciseValue{
						MuscleGroup: muscleGroup(exercise),
						Exercise:    specificExercise(exercise),
					},
				})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}

	sortBySpan(entities)
	return entities
}

func muscleGroup(e lexicon.ExerciseEntry) string {
	if e.Attrs.MuscleGroup != "" {
		return e.Attrs.MuscleGroup
	}
	return e.Canonical
}

// specificExercise is set only when the entry names an exercise rather
// than a bare muscle group.
func specificExercise(e lexicon.ExerciseEntry) string {
	if e.Canonical == e.Attrs.MuscleGroup {
		return ""
	}
	return e.Canonical
}

// portionMultiplier reads a portion amount from the tokens just before
// a food mention: "2 quesadillas" -> 2, "half a quesadilla" -> 0.5.
// Defaults to 1 when no amount precedes the food.
func portionMultiplier(tokens []message.Token, food int) float64 {
	for j := food - 1; j >= 0 && j >= food-3; j-- {
		t := tokens[j].Text
		if t == "a" || t == "an" || t == "of" || t == "the" {
			continue
		}
		if v, ok := wordAmounts[t]; ok {
			return v
		}
		if isNumeric(t) {
			return parseAmount(t)
		}
		break
	}
	return 1
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '/' {
			return false
		}
	}
	return !strings.HasSuffix(s, "/") && !strings.HasPrefix(s, "/")
}
