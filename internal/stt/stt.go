package stt

import "context"

// Recognizer converts one finalized utterance into text. The input is
// the whole recorded buffer as normalized float32 mono at the capture
// rate; the output is a single trimmed string.
type Recognizer interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
}
