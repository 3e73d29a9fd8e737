package vad

import (
	"math"
	"testing"
)

func sinePCM(sr int, hz float64, durMs int, amp int16) []int16 {
	n := sr * durMs / 1000
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(float64(amp) * math.Sin(2*math.Pi*hz*float64(i)/float64(sr)))
	}
	return out
}

func TestEnergy_SilenceIsNotSpeech(t *testing.T) {
	e := NewEnergy()
	silence := make([]int16, 16000)
	got, err := e.ContainsSpeech(silence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Fatalf("expected no speech in silence")
	}
}

func TestEnergy_ToneIsSpeech(t *testing.T) {
	e := NewEnergy()
	got, err := e.ContainsSpeech(sinePCM(16000, 220, 1000, 8000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatalf("expected speech in loud tone")
	}
}

func TestEnergy_BurstInsideSilentWindow(t *testing.T) {
	// 1.8s silence then a 200ms burst: the trailing window must still
	// report speech even though the overall RMS is low.
	window := make([]int16, 0, 16000*2)
	window = append(window, make([]int16, 16000*9/5)...)
	window = append(window, sinePCM(16000, 220, 200, 8000)...)
	e := NewEnergy()
	got, err := e.ContainsSpeech(window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatalf("expected burst to be detected")
	}
}

func TestEnergy_EmptyWindow(t *testing.T) {
	e := NewEnergy()
	got, err := e.ContainsSpeech(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Fatalf("expected no speech in empty window")
	}
}

func TestNormalize_Range(t *testing.T) {
	in := []int16{-32768, 0, 16384, 32767}
	out := Normalize(in)
	if len(out) != len(in) {
		t.Fatalf("length mismatch")
	}
	if out[0] != -1.0 {
		t.Fatalf("expected -1.0, got %v", out[0])
	}
	if out[1] != 0 {
		t.Fatalf("expected 0, got %v", out[1])
	}
	if math.Abs(float64(out[2])-0.5) > 1e-6 {
		t.Fatalf("expected ~0.5, got %v", out[2])
	}
}
