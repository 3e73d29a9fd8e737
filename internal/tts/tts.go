package tts

import (
	"context"
	"regexp"
	"strings"
)

// Synthesizer streams 48kHz PCM16LE mono audio for the given text. The
// pcm channel closes when synthesis finishes; at most one error is sent
// on the error channel. Construction validates credentials; a per-call
// failure only loses that fragment.
type Synthesizer interface {
	StreamPCM48k(ctx context.Context, text string) (<-chan []byte, <-chan error)
}

var markupRe = regexp.MustCompile("[*_`#]+")

// CleanMarkup strips formatting markers that generators sometimes emit
// so they are never read aloud.
func CleanMarkup(text string) string {
	return strings.TrimSpace(markupRe.ReplaceAllString(text, ""))
}
