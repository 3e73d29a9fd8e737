package llm

import "strings"

// Splitter folds a stream of text deltas into sentence-like fragments
// so playback can start on the first sentence while the rest is still
// being generated. Fragments end on '.', '?' or '!' (punctuation
// retained) or on a newline; whatever is left when the stream ends
// comes out of Flush.
type Splitter struct {
	buf strings.Builder
}

// Feed appends a delta and returns any fragments it completed.
func (s *Splitter) Feed(delta string) []string {
	var frags []string
	for _, r := range delta {
		switch r {
		case '.', '!', '?':
			s.buf.WriteRune(r)
			if f := strings.TrimSpace(s.buf.String()); f != "" {
				frags = append(frags, f)
			}
			s.buf.Reset()
		case '\n', '\r':
			if f := strings.TrimSpace(s.buf.String()); f != "" {
				frags = append(frags, f)
			}
			s.buf.Reset()
		default:
			s.buf.WriteRune(r)
		}
	}
	return frags
}

// Flush returns the unterminated tail, if any, and resets the splitter.
func (s *Splitter) Flush() string {
	f := strings.TrimSpace(s.buf.String())
	s.buf.Reset()
	return f
}

// SplitSentences fragments a complete reply in one shot.
func SplitSentences(text string) []string {
	var s Splitter
	frags := s.Feed(text)
	if tail := s.Flush(); tail != "" {
		frags = append(frags, tail)
	}
	return frags
}
