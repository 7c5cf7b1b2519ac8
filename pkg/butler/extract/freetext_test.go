package extract

import "testing"

func singleBody(t *testing.T, norm string) string {
	t.Helper()
	entities := FreeText(norm)
	if len(entities) != 1 {
		t.Fatalf("FreeText(%q) = %d entities, want 1", norm, len(entities))
	}
	if entities[0].Kind != KindFreeText {
		t.Fatalf("kind = %q", entities[0].Kind)
	}
	return entities[0].Free.Body
}

func TestFreeTextReminderBody(t *testing.T) {
	cases := []struct {
		norm string
		want string
	}{
		{"remind me to call the dentist tomorrow", "call the dentist"},
		{"remind me at 6 to take out the trash", "take out the trash"},
		{"remind me about the dry cleaning", "dry cleaning"},
		{"remember to water the plants", "water the plants"},
		{"do not forget to submit the report", "submit the report"},
		{"do not forget the milk", "milk"},
	}
	for _, c := range cases {
		if got := singleBody(t, c.norm); got != c.want {
			t.Errorf("FreeText(%q) body = %q, want %q", c.norm, got, c.want)
		}
	}
}

func TestFreeTextTodoBody(t *testing.T) {
	cases := []struct {
		norm string
		want string
	}{
		{"need to buy groceries", "buy groceries"},
		{"todo: finish the taxes", "finish the taxes"},
		{"todo book flights", "book flights"},
		{"add milk to my shopping list", "milk"},
		{"add task review the budget", "review the budget"},
	}
	for _, c := range cases {
		if got := singleBody(t, c.norm); got != c.want {
			t.Errorf("FreeText(%q) body = %q, want %q", c.norm, got, c.want)
		}
	}
}

func TestFreeTextCompletionBody(t *testing.T) {
	cases := []struct {
		norm string
		want string
	}{
		{"finished the laundry", "laundry"},
		{"done with the budget review", "budget review"},
		{"checked off groceries", "groceries"},
	}
	for _, c := range cases {
		if got := singleBody(t, c.norm); got != c.want {
			t.Errorf("FreeText(%q) body = %q, want %q", c.norm, got, c.want)
		}
	}
}

func TestFreeTextStripsTemporalTail(t *testing.T) {
	cases := []struct {
		norm string
		want string
	}{
		{"remind me to call the dentist tomorrow at 2pm", "call the dentist"},
		{"need to mow the lawn this saturday", "mow the lawn"},
		{"remember to pay rent on monday morning", "pay rent"},
	}
	for _, c := range cases {
		if got := singleBody(t, c.norm); got != c.want {
			t.Errorf("FreeText(%q) body = %q, want %q", c.norm, got, c.want)
		}
	}
}

func TestFreeTextFirstPatternWins(t *testing.T) {
	// "remind me to" outranks the bare "need to" inside the body.
	body := singleBody(t, "remind me to check if i need to renew the passport")
	if body != "check if i need to renew the passport" {
		t.Errorf("body = %q", body)
	}
}

func TestFreeTextNone(t *testing.T) {
	for _, norm := range []string{
		"drank a bottle of water",
		"meeting with john tomorrow",
		"remind me to",
	} {
		if entities := FreeText(norm); len(entities) != 0 {
			t.Errorf("FreeText(%q) = %+v, want none", norm, entities)
		}
	}
}
