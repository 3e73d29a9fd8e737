package tts

import "testing"

func TestNewDeepgram_RequiresKey(t *testing.T) {
	if _, err := NewDeepgram("", "aura-2-thalia-en"); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestNewDeepgram_DefaultModel(t *testing.T) {
	d, err := NewDeepgram("key", "")
	if err != nil {
		t.Fatalf("NewDeepgram: %v", err)
	}
	if d.model == "" {
		t.Fatalf("expected a default model")
	}
}

func TestCleanMarkup(t *testing.T) {
	cases := map[string]string{
		"**Hello** there":      "Hello there",
		"`code` and _italics_": "code and italics",
		"## Heading":           "Heading",
		"  plain text  ":       "plain text",
	}
	for in, want := range cases {
		if got := CleanMarkup(in); got != want {
			t.Errorf("CleanMarkup(%q) = %q, want %q", in, got, want)
		}
	}
}
