package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// DecodeFileToCapture reads a wav or mp3 file and returns mono
// capture-rate samples in [-1, 1]. Stereo input is downmixed, foreign
// sample rates are resampled.
func DecodeFileToCapture(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	default:
		return nil, fmt.Errorf("unsupported audio file %q (wav/mp3 only)", filepath.Base(path))
	}
}

func decodeWAV(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return nil, errors.New("empty wav file")
	}
	bits := int(dec.BitDepth)
	if bits == 0 {
		bits = 16
	}
	scale := 1.0 / float64(int64(1)<<(bits-1))
	x := make([]float32, len(pb.Data))
	for i, v := range pb.Data {
		x[i] = float32(float64(v) * scale)
	}
	ch, sr := 1, CaptureRate
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			ch = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			sr = pb.Format.SampleRate
		}
	}
	if ch > 1 {
		x = downmix(x, ch)
	}
	return ResampleLinear(x, sr, CaptureRate), nil
}

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return nil, err
	}
	// the decoder always outputs interleaved stereo
	x := downmix(Int16ToFloat32(ints), 2)
	sr := dec.SampleRate()
	if sr <= 0 {
		sr = WireRate
	}
	return ResampleLinear(x, sr, CaptureRate), nil
}

func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	n := len(in) / channels
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

// FileSource replays a decoded recording as capture frames, padded with
// trailing silence so silence-based end-of-turn detection fires. Used
// for offline runs and tests.
type FileSource struct {
	samples []int16
	pos     int
}

// NewFileSource loads path and appends tailSilence seconds of zeros.
func NewFileSource(path string, tailSilence int) (*FileSource, error) {
	f, err := DecodeFileToCapture(path)
	if err != nil {
		return nil, err
	}
	samples := Float32ToInt16(f)
	if tailSilence > 0 {
		samples = append(samples, make([]int16, tailSilence*CaptureRate)...)
	}
	return &FileSource{samples: samples}, nil
}

// NewFrameSource wraps raw capture samples directly; test fixtures use
// this to script exact audio timelines.
func NewFrameSource(samples []int16) *FileSource {
	return &FileSource{samples: samples}
}

func (s *FileSource) Start() error { return nil }

func (s *FileSource) ReadFrame() ([]int16, error) {
	if s.pos >= len(s.samples) {
		return nil, ErrTransportClosed
	}
	end := s.pos + FrameSize
	if end > len(s.samples) {
		end = len(s.samples)
	}
	frame := make([]int16, FrameSize)
	copy(frame, s.samples[s.pos:end])
	s.pos = end
	return frame, nil
}

func (s *FileSource) Close() error {
	s.pos = len(s.samples)
	return nil
}
