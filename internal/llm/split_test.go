package llm

import (
	"reflect"
	"testing"
)

func TestSplitter_StreamingDeltas(t *testing.T) {
	var s Splitter
	var frags []string
	for _, delta := range []string{"Hel", "lo there", ". How ", "are you? I", "'m fine"} {
		frags = append(frags, s.Feed(delta)...)
	}
	if tail := s.Flush(); tail != "" {
		frags = append(frags, tail)
	}
	want := []string{"Hello there.", "How are you?", "I'm fine"}
	if !reflect.DeepEqual(frags, want) {
		t.Fatalf("fragments = %v, want %v", frags, want)
	}
}

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"No terminator", []string{"No terminator"}},
		{"One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"Line one\nLine two", []string{"Line one", "Line two"}},
		{"Trailing tail. rest", []string{"Trailing tail.", "rest"}},
	}
	for _, tc := range cases {
		if got := SplitSentences(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitSentences(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSplitter_FlushResets(t *testing.T) {
	var s Splitter
	s.Feed("partial")
	if tail := s.Flush(); tail != "partial" {
		t.Fatalf("tail = %q", tail)
	}
	if tail := s.Flush(); tail != "" {
		t.Fatalf("second flush = %q, want empty", tail)
	}
}
