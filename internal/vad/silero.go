package vad

import (
	"fmt"

	"github.com/streamer45/silero-vad-go/speech"
)

// Silero wraps the silero-vad ONNX model. A detector instance is not
// safe for concurrent use; the ear serializes all calls on its own
// goroutine.
type Silero struct {
	det *speech.Detector
}

// NewSilero loads the model from modelPath. sampleRate must be 8000 or
// 16000 per the model's contract.
func NewSilero(modelPath string, sampleRate int) (*Silero, error) {
	det, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:            modelPath,
		SampleRate:           sampleRate,
		Threshold:            0.5,
		MinSilenceDurationMs: 100,
		SpeechPadMs:          30,
	})
	if err != nil {
		return nil, fmt.Errorf("silero: create detector: %w", err)
	}
	return &Silero{det: det}, nil
}

func (s *Silero) ContainsSpeech(window []int16) (bool, error) {
	segments, err := s.det.Detect(Normalize(window))
	if err != nil {
		// Wrong window size or a broken model session is a caller bug,
		// not a runtime condition; propagate loudly.
		return false, fmt.Errorf("silero: detect: %w", err)
	}
	// Each call classifies an independent window.
	if err := s.det.Reset(); err != nil {
		return false, fmt.Errorf("silero: reset: %w", err)
	}
	return len(segments) > 0, nil
}

func (s *Silero) Close() error {
	return s.det.Destroy()
}
