package extract

import (
	"regexp"

	"github.com/alfredlabs/butler/pkg/butler/message"
)

// Trigger phrases introducing a task or reminder body, most specific
// first. Only the first matching pattern produces an entity.
var freeTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bremind me(?: at \d{1,2}(?::\d{2})?(?:am|pm)?)? to (.+)$`),
	regexp.MustCompile(`\bremind me about (.+)$`),
	regexp.MustCompile(`\bremember to (.+)$`),
	regexp.MustCompile(`\bdo not forget to (.+)$`),
	regexp.MustCompile(`\bdo not forget (.+)$`),
	regexp.MustCompile(`\bneed to (.+)$`),
	regexp.MustCompile(`\btodo:? (.+)$`),
	regexp.MustCompile(`\badd (.+?) to (?:my )?(?:todo|task|shopping)? ?list$`),
	regexp.MustCompile(`\badd (?:task|todo) (.+)$`),
	regexp.MustCompile(`\b(?:finished|completed|done with|checked off) (.+)$`),
}

// Trailing temporal phrases are part of the schedule, not the body.
var temporalTailPattern = regexp.MustCompile(`( (?:at|on|this|next|today|tomorrow|tonight|morning|afternoon|evening|night|monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{1,2}(?::\d{2})?(?:am|pm)?))+$`)

// FreeText captures the unmatched remainder after a todo/reminder
// trigger phrase. The entity span covers the captured remainder; the
// Body value has trailing temporal phrases and filler words removed.
func FreeText(norm string) []Entity {
	for _, p := range freeTextPatterns {
		m := p.FindStringSubmatchIndex(norm)
		if m == nil {
			continue
		}
		span := Span{Start: m[2], End: m[3]}
		body := norm[span.Start:span.End]
		body = temporalTailPattern.ReplaceAllString(body, "")
		body = message.TrimFillers(body)
		if body == "" {
			return nil
		}
		return []Entity{{
			Kind: KindFreeText,
			Span: span,
			Text: norm[span.Start:span.End],
			Free: &FreeTextValue{Body: body},
		}}
	}
	return nil
}
