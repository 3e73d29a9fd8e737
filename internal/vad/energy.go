package vad

import "math"

// Energy is an RMS-threshold detector. The window is sliced into
// sub-frames and speech is reported if any sub-frame crosses the
// threshold, so a short burst inside a long mostly-silent window still
// counts. It needs no model file and is the default when no ONNX model
// is configured.
type Energy struct {
	Threshold float64 // RMS over normalized samples
	SubFrame  int     // samples per evaluated sub-frame
}

func NewEnergy() *Energy {
	return &Energy{Threshold: 0.015, SubFrame: 512}
}

func (e *Energy) ContainsSpeech(window []int16) (bool, error) {
	if len(window) == 0 {
		return false, nil
	}
	samples := Normalize(window)
	sub := e.SubFrame
	if sub <= 0 || sub > len(samples) {
		sub = len(samples)
	}
	for off := 0; off+sub <= len(samples); off += sub {
		if rms(samples[off:off+sub]) >= e.Threshold {
			return true, nil
		}
	}
	return false, nil
}

func rms(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s / float64(len(f)))
}
