package chat

import "strings"

// Role identifies the speaker of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in the dialogue.
type Turn struct {
	Role Role
	Text string
}

// History is the ordered dialogue context handed to the generator. The
// orchestrator is its single owner: generators receive it as an input
// value and never append to it themselves, so a turn can never be
// recorded twice.
type History []Turn

// Add returns a new history with the turn appended. Value semantics
// keep concurrent readers (the generator goroutine) safe.
func (h History) Add(role Role, text string) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, Turn{Role: role, Text: text})
}

// LastAssistant returns the most recent assistant turn, or "".
func (h History) LastAssistant() string {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == RoleAssistant {
			return h[i].Text
		}
	}
	return ""
}

// Transcript renders the history with upper-case speaker labels, the
// format used for session logs.
func (h History) Transcript() string {
	var b strings.Builder
	for _, t := range h {
		b.WriteString("[")
		b.WriteString(strings.ToUpper(string(t.Role)))
		b.WriteString("] ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}
