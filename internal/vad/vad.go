package vad

// Detector classifies a trailing window of capture audio as containing
// speech or not. The window is raw 16-bit PCM mono at 16kHz; detectors
// normalize to float32 in [-1, 1] before classification.
type Detector interface {
	// ContainsSpeech reports whether at least one speech segment is
	// present anywhere inside the window.
	ContainsSpeech(window []int16) (bool, error)
}

// Normalize converts 16-bit PCM samples to float32 in [-1, 1].
func Normalize(pcm []int16) []float32 {
	out := make([]float32, len(pcm))
	for i, s := range pcm {
		out[i] = float32(s) / (1 << 15)
	}
	return out
}
