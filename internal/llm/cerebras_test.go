package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SoberSalman/AutoEngageFYP/internal/chat"
)

func TestNewCerebras_Validation(t *testing.T) {
	if _, err := NewCerebras("", "model"); err == nil {
		t.Fatalf("expected error with missing key")
	}
	if _, err := NewCerebras("key", ""); err == nil {
		t.Fatalf("expected error with missing model")
	}
}

func TestCerebras_HTTPFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500); _, _ = w.Write([]byte("oops")) }},
		{"bad_json", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("not-json")) }},
		{"empty_choices", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c, err := NewCerebras("key", "model")
			if err != nil {
				t.Fatalf("NewCerebras: %v", err)
			}
			c.Endpoint = srv.URL

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			out := make(chan string, 8)
			if _, err := c.GenerateStream(ctx, chat.History{{Role: chat.RoleUser, Text: "hi"}}, out, chat.NewInterrupt()); err == nil {
				t.Fatalf("expected error; got nil")
			}
		})
	}
}

func TestCerebras_GenerateStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello there. How are you today?"}}]}`))
	}))
	defer srv.Close()

	c, err := NewCerebras("key", "model")
	if err != nil {
		t.Fatalf("NewCerebras: %v", err)
	}
	c.Endpoint = srv.URL

	out := make(chan string, 8)
	full, err := c.GenerateStream(context.Background(), chat.History{{Role: chat.RoleUser, Text: "hi"}}, out, chat.NewInterrupt())
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	close(out)

	var frags []string
	for f := range out {
		frags = append(frags, f)
	}
	want := []string{"Hello there.", "How are you today?"}
	if len(frags) != len(want) {
		t.Fatalf("fragments = %v, want %v", frags, want)
	}
	for i := range want {
		if frags[i] != want[i] {
			t.Fatalf("fragment %d = %q, want %q", i, frags[i], want[i])
		}
	}
	if full != "Hello there. How are you today?" {
		t.Fatalf("full text = %q", full)
	}
}

func TestEmitFragments_StopsOnInterrupt(t *testing.T) {
	intr := chat.NewInterrupt()
	out := make(chan string, 1)

	frags := []string{"One.", "Two.", "Three."}
	done := make(chan string, 1)
	go func() { done <- emitFragments(context.Background(), frags, out, intr) }()

	if got := <-out; got != "One." {
		t.Fatalf("first fragment = %q", got)
	}
	// the buffered slot holds "Two."; the emitter is now blocked on
	// "Three." when the interrupt lands
	for len(out) == 0 {
		time.Sleep(time.Millisecond)
	}
	intr.Trigger()

	select {
	case full := <-done:
		if full != "One. Two." {
			t.Fatalf("emitted = %q, want %q", full, "One. Two.")
		}
	case <-time.After(time.Second):
		t.Fatalf("emitter did not stop after interrupt")
	}
}
