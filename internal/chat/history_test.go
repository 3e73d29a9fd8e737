package chat

import (
	"strings"
	"testing"
)

func TestHistory_AddDoesNotMutateReceiver(t *testing.T) {
	base := History{}.Add(RoleSystem, "be brief")
	a := base.Add(RoleUser, "hello")
	b := base.Add(RoleUser, "goodbye")

	if len(base) != 1 {
		t.Fatalf("base grew to %d turns", len(base))
	}
	if a[1].Text != "hello" || b[1].Text != "goodbye" {
		t.Fatalf("branches share storage: %q / %q", a[1].Text, b[1].Text)
	}
}

func TestHistory_LastAssistant(t *testing.T) {
	h := History{}
	if got := h.LastAssistant(); got != "" {
		t.Fatalf("empty history LastAssistant = %q", got)
	}
	h = h.Add(RoleUser, "hi").Add(RoleAssistant, "hello").Add(RoleUser, "bye").Add(RoleAssistant, "goodbye")
	if got := h.LastAssistant(); got != "goodbye" {
		t.Fatalf("LastAssistant = %q, want goodbye", got)
	}
}

func TestHistory_Transcript(t *testing.T) {
	h := History{}.Add(RoleUser, "hi").Add(RoleAssistant, "hello")
	got := h.Transcript()
	if !strings.Contains(got, "[USER] hi\n") || !strings.Contains(got, "[ASSISTANT] hello\n") {
		t.Fatalf("transcript = %q", got)
	}
}

func TestGreeting_UsesNames(t *testing.T) {
	for i := 0; i < 20; i++ {
		g := Greeting("Ava", "Acme")
		if !strings.Contains(g, "Ava") || !strings.Contains(g, "Acme") {
			t.Fatalf("greeting %q missing agent or organization name", g)
		}
	}
}

func TestIsFallback(t *testing.T) {
	if !IsFallback(Fallback()) {
		t.Fatalf("Fallback() not recognized by IsFallback")
	}
	if IsFallback("a perfectly normal reply") {
		t.Fatalf("normal text classified as fallback")
	}
}
