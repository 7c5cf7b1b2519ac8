package extract

import (
	"strings"
	"unicode"

	"github.com/alfredlabs/butler/pkg/butler/message"
)

// Closed role-noun set. These match anywhere in the message.
var roleNouns = map[string]struct{}{
	"mom": {}, "dad": {}, "mum": {}, "mother": {}, "father": {},
	"brother": {}, "sister": {}, "wife": {}, "husband": {},
	"boss": {}, "team": {}, "coach": {},
	"doctor": {}, "dentist": {},
	"grandma": {}, "grandpa": {},
}

// Cue words that introduce a person name.
var personCues = map[string]struct{}{
	"with": {}, "call": {}, "text": {}, "email": {}, "meet": {}, "meeting": {},
}

// Words that end a name capture.
var nameStops = map[string]struct{}{
	"today": {}, "tomorrow": {}, "tonight": {}, "at": {}, "on": {}, "for": {},
	"next": {}, "this": {}, "in": {}, "to": {}, "and": {},
	"the": {}, "a": {}, "an": {}, "my": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
	"morning": {}, "afternoon": {}, "evening": {}, "night": {},
}

// People finds person references: role nouns from a small closed set,
// and name tokens after a cue word ("with", "call", ...) that appear
// capitalized in the raw text. Ambiguous tokens are left unextracted
// rather than guessed.
func People(msg message.Message) []Entity {
	tokens := message.Tokens(msg.Normalized)
	var entities []Entity
	claimed := make(map[int]bool) // token index -> already part of an entity

	for i, tok := range tokens {
		if _, ok := roleNouns[tok.Text]; !ok {
			continue
		}
		entities = append(entities, Entity{
			Kind:   KindPerson,
			Span:   Span{Start: tok.Start, End: tok.End},
			Text:   tok.Text,
			Person: &PersonValue{Name: tok.Text, Role: tok.Text},
		})
		claimed[i] = true
	}

	for i, tok := range tokens {
		if _, ok := personCues[tok.Text]; !ok {
			continue
		}

		first, last := -1, -1
		var parts []string
		for j := i + 1; j < len(tokens) && j <= i+2; j++ {
			if claimed[j] || !isNameToken(tokens[j].Text, msg.Raw) {
				break
			}
			if first < 0 {
				first = j
			}
			last = j
			parts = append(parts, capitalize(tokens[j].Text))
		}
		if first < 0 {
			continue
		}
		for j := first; j <= last; j++ {
			claimed[j] = true
		}
		entities = append(entities, Entity{
			Kind:   KindPerson,
			Span:   Span{Start: tokens[first].Start, End: tokens[last].End},
			Text:   msg.Normalized[tokens[first].Start:tokens[last].End],
			Person: &PersonValue{Name: strings.Join(parts, " ")},
		})
	}

	sortBySpan(entities)
	return entities
}

func isNameToken(word, raw string) bool {
	if _, stop := nameStops[word]; stop {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return appearsCapitalized(raw, word)
}

// appearsCapitalized reports whether word occurs in the raw text with
// an uppercase first letter. Normalization lowercases everything, so
// the raw text is the only place capitalization survives.
func appearsCapitalized(raw, word string) bool {
	for _, field := range strings.Fields(raw) {
		field = strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if strings.EqualFold(field, word) {
			r := []rune(field)
			return len(r) > 0 && unicode.IsUpper(r[0])
		}
	}
	return false
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
