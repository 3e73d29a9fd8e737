package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewElevenLabs_RequiresCredentials(t *testing.T) {
	if _, err := NewElevenLabs("", "voice"); err == nil {
		t.Fatalf("expected error when api key missing")
	}
	if _, err := NewElevenLabs("key", ""); err == nil {
		t.Fatalf("expected error when voice id missing")
	}
}

func TestElevenLabs_StreamPCM48k(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if got := r.URL.Query().Get("output_format"); got != "pcm_48000" {
			t.Errorf("output_format = %q, want pcm_48000", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer srv.Close()

	e, err := NewElevenLabs("test-key", "voice-1")
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	e.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pcmCh, errCh := e.StreamPCM48k(ctx, "hello")

	var got []byte
	for b := range pcmCh {
		got = append(got, b...)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("received %d bytes, want %d", len(got), len(payload))
	}
}

func TestElevenLabs_StreamPCM48k_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad voice", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	e, err := NewElevenLabs("test-key", "voice-1")
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	e.baseURL = srv.URL

	pcmCh, errCh := e.StreamPCM48k(context.Background(), "hello")
	for range pcmCh {
	}
	if err := <-errCh; err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}
