package message

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
)

// DefaultMaxLen is the maximum accepted raw message length in bytes.
// Messages arrive over SMS-like transports; anything longer is abuse.
const DefaultMaxLen = 1000

// Message pairs the raw text as received with its normalized form.
// Both fields are immutable once created; all entity spans refer to
// byte offsets in Normalized.
type Message struct {
	Raw        string
	Normalized string
}

// Normalizer converts raw message text into a canonical lowercase form:
// markup and URLs stripped, a fixed set of contractions expanded,
// punctuation noise removed, whitespace collapsed.
//
// Normalization is deterministic and idempotent: normalizing an already
// normalized string yields the same string.
type Normalizer struct {
	maxLen       int
	contractions map[string]string
}

// NewNormalizer creates a normalizer with the given maximum raw length.
// maxLen <= 0 selects DefaultMaxLen.
func NewNormalizer(maxLen int) *Normalizer {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Normalizer{
		maxLen:       maxLen,
		contractions: defaultContractions(),
	}
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Normalize produces the canonical form of raw.
// Returns internalerr.ErrInvalidInput when raw is empty, whitespace-only,
// or exceeds the configured maximum length.
func (n *Normalizer) Normalize(raw string) (Message, error) {
	if strings.TrimSpace(raw) == "" {
		return Message{}, fmt.Errorf("empty message: %w", internalerr.ErrInvalidInput)
	}
	if len(raw) > n.maxLen {
		return Message{}, fmt.Errorf("message exceeds %d bytes: %w", n.maxLen, internalerr.ErrInvalidInput)
	}

	text := raw

	// Voice transcripts and forwarded messages carry anchor markup.
	if strings.ContainsRune(text, '<') && strings.ContainsRune(text, '>') {
		text = stripMarkup(text)
	}
	text = urlPattern.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	text = expandContractions(text, n.contractions)
	text = stripPunctuation(text)
	text = collapseWhitespace(text)

	if text == "" {
		return Message{}, fmt.Errorf("message is all noise: %w", internalerr.ErrInvalidInput)
	}

	return Message{Raw: raw, Normalized: text}, nil
}

// stripMarkup extracts the text content of any HTML in s.
// Falls back to the input when parsing fails.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

// expandContractions replaces known contracted words with their expansions.
// Operates on whole apostrophe-bearing tokens so that possessives and
// unknown contractions pass through untouched.
func expandContractions(s string, table map[string]string) string {
	if !strings.ContainsRune(s, '\'') {
		return s
	}
	fields := strings.Fields(s)
	for i, f := range fields {
		key := strings.Trim(f, ".,!?;:")
		if expanded, ok := table[key]; ok {
			fields[i] = expanded
		}
	}
	return strings.Join(fields, " ")
}

// stripPunctuation replaces punctuation with spaces, keeping characters
// that carry meaning inside entities: ':' (clock times), '/' (fractions,
// numeric dates), '-' (ranges, hyphenated words), '.' between digits
// (decimals), and 'x' (set notation like 225x5).
func stripPunctuation(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ':
			b.WriteRune(r)
		case r == ':' || r == '/' || r == '-':
			b.WriteRune(r)
		case r == '\'':
			// delete, so possessives join their stem ("john's" -> "johns")
		case r == '.':
			if i > 0 && i < len(runes)-1 && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func defaultContractions() map[string]string {
	return map[string]string{
		"don't":     "do not",
		"didn't":    "did not",
		"doesn't":   "does not",
		"can't":     "can not",
		"won't":     "will not",
		"isn't":     "is not",
		"aren't":    "are not",
		"wasn't":    "was not",
		"haven't":   "have not",
		"i'm":       "i am",
		"i've":      "i have",
		"i'll":      "i will",
		"it's":      "it is",
		"that's":    "that is",
		"what's":    "what is",
		"let's":     "let us",
		"there's":   "there is",
		"shouldn't": "should not",
		"couldn't":  "could not",
		"wouldn't":  "would not",
	}
}

// Token is a whitespace-delimited token with its byte span in the
// normalized text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokens splits normalized text into tokens with byte offsets.
func Tokens(normalized string) []Token {
	var tokens []Token
	start := -1
	for i, r := range normalized {
		if r == ' ' {
			if start >= 0 {
				tokens = append(tokens, Token{Text: normalized[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: normalized[start:], Start: start, End: len(normalized)})
	}
	return tokens
}

// fillers are low-content words trimmed from extracted free-text bodies
// (todo and reminder content), not from the message itself.
var fillers = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "some": {}, "my": {}, "please": {},
}

// TrimFillers removes leading and trailing filler words from a free-text
// fragment. Interior words are kept so the body stays readable.
func TrimFillers(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 {
		if _, ok := fillers[words[0]]; !ok {
			break
		}
		words = words[1:]
	}
	for len(words) > 0 {
		if _, ok := fillers[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
