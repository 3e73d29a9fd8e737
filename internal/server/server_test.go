package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SoberSalman/AutoEngageFYP/internal/audio"
)

func TestHealthz(t *testing.T) {
	s := New(func(ctx context.Context, src audio.Source, sink audio.Sink) error { return nil })
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChatWS_RoundTrip(t *testing.T) {
	gotFrame := make(chan []int16, 1)
	runner := func(ctx context.Context, src audio.Source, sink audio.Sink) error {
		frame, err := src.ReadFrame()
		if err != nil {
			return err
		}
		gotFrame <- frame
		// one short burst of playback back at the client
		sink.WritePCM(make([]byte, 960))
		return nil
	}

	s := New(runner)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chatws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// enough wire-rate samples to fill one capture frame after
	// resampling (2048 @16kHz needs ~5645 @44.1kHz)
	wire := make([]float32, 6000)
	msg := audio.Message{Kind: audio.KindAudio, PCM: audio.Float32ToBytes(wire)}
	if err := conn.WriteMessage(websocket.BinaryMessage, msg.Encode()); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case frame := <-gotFrame:
		if len(frame) != audio.FrameSize {
			t.Fatalf("frame size = %d, want %d", len(frame), audio.FrameSize)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner never received a capture frame")
	}

	// the write pump should deliver the playback burst, then EOS
	sawAudio := false
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		m, err := audio.DecodeMessage(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m.Kind == audio.KindAudio && len(m.PCM) > 0 {
			sawAudio = true
		}
		if m.Kind == audio.KindEOS {
			break
		}
	}
	if !sawAudio {
		t.Fatalf("never received playback audio")
	}
}

func TestChatWS_ClientCloseEndsSession(t *testing.T) {
	done := make(chan error, 1)
	runner := func(ctx context.Context, src audio.Source, sink audio.Sink) error {
		_, err := src.ReadFrame()
		done <- err
		return err
	}

	s := New(runner)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chatws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	select {
	case err := <-done:
		if err != audio.ErrTransportClosed {
			t.Fatalf("ReadFrame error = %v, want ErrTransportClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not end after client close")
	}
}
