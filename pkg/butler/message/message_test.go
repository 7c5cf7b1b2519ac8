package message

import (
	"errors"
	"strings"
	"testing"

	"github.com/alfredlabs/butler/pkg/butler/internalerr"
)

func TestNormalizeBasic(t *testing.T) {
	n := NewNormalizer(0)

	msg, err := n.Normalize("  Drank   a BOTTLE!! ")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if msg.Normalized != "drank a bottle" {
		t.Errorf("got %q", msg.Normalized)
	}
	if msg.Raw != "  Drank   a BOTTLE!! " {
		t.Error("raw text must be preserved as received")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(0)

	inputs := []string{
		"Don't forget to call Mom tomorrow!",
		"ate 2 cups of rice, half a quesadilla...",
		"Meeting with John tomorrow 2:30pm for 1 hour",
		"bench 225x5 then squats",
	}
	for _, in := range inputs {
		first, err := n.Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := n.Normalize(first.Normalized)
		if err != nil {
			t.Fatalf("re-Normalize(%q): %v", first.Normalized, err)
		}
		if second.Normalized != first.Normalized {
			t.Errorf("not idempotent: %q -> %q -> %q", in, first.Normalized, second.Normalized)
		}
	}
}

func TestNormalizeContractions(t *testing.T) {
	n := NewNormalizer(0)

	msg, err := n.Normalize("didn't go, don't forget")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Normalized != "did not go do not forget" {
		t.Errorf("got %q", msg.Normalized)
	}
}

func TestNormalizeStripsMarkupAndURLs(t *testing.T) {
	n := NewNormalizer(0)

	msg, err := n.Normalize(`drank water <a href="https://voice.example.com/x">link</a> https://t.co/abc`)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(msg.Normalized, "http") || strings.Contains(msg.Normalized, "href") {
		t.Errorf("markup survived: %q", msg.Normalized)
	}
	if !strings.HasPrefix(msg.Normalized, "drank water") {
		t.Errorf("content lost: %q", msg.Normalized)
	}
}

func TestNormalizeKeepsEntityPunctuation(t *testing.T) {
	n := NewNormalizer(0)

	msg, err := n.Normalize("at 2:30pm ate 1/2 of 2.5 servings, bench 225x5")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2:30pm", "1/2", "2.5", "225x5"} {
		if !strings.Contains(msg.Normalized, want) {
			t.Errorf("lost %q in %q", want, msg.Normalized)
		}
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	n := NewNormalizer(20)

	if _, err := n.Normalize(""); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty: got %v", err)
	}
	if _, err := n.Normalize("   "); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("whitespace: got %v", err)
	}
	if _, err := n.Normalize(strings.Repeat("x", 21)); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("oversized: got %v", err)
	}
}

func TestTokensSpans(t *testing.T) {
	norm := "drank a bottle"
	tokens := Tokens(norm)

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	for _, tok := range tokens {
		if norm[tok.Start:tok.End] != tok.Text {
			t.Errorf("span mismatch for %q: [%d,%d)", tok.Text, tok.Start, tok.End)
		}
	}
	if tokens[2].Text != "bottle" || tokens[2].Start != 8 {
		t.Errorf("got %+v", tokens[2])
	}
}

func TestTrimFillers(t *testing.T) {
	cases := map[string]string{
		"a haircut":            "haircut",
		"the some groceries":   "groceries",
		"call the dentist":     "call the dentist",
		"buy milk please":      "buy milk",
		"my laundry":           "laundry",
		"":                     "",
	}
	for in, want := range cases {
		if got := TrimFillers(in); got != want {
			t.Errorf("TrimFillers(%q) = %q, want %q", in, got, want)
		}
	}
}
