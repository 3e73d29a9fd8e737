package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// SpeakerSink plays 48kHz PCM16LE on the default output device through
// the beep speaker. It registers itself as a never-ending streamer that
// pulls from an internal queue; Reset empties the queue so barge-in
// cuts audio within one speaker buffer.
type SpeakerSink struct {
	mu    sync.Mutex
	queue []float64
	head  int
}

func NewSpeakerSink() (*SpeakerSink, error) {
	sr := beep.SampleRate(SynthRate)
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &SpeakerSink{}
	speaker.Play(s)
	return s, nil
}

// Stream implements beep.Streamer. It emits queued samples and silence
// when the queue is empty, so the speaker stays open for the session.
func (s *SpeakerSink) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	for i := range samples {
		var v float64
		if s.head < len(s.queue) {
			v = s.queue[s.head]
			s.head++
		}
		samples[i][0], samples[i][1] = v, v
	}
	if s.head == len(s.queue) && s.head > 0 {
		s.queue = s.queue[:0]
		s.head = 0
	}
	s.mu.Unlock()
	return len(samples), true
}

func (s *SpeakerSink) Err() error { return nil }

func (s *SpeakerSink) WritePCM(pcm []byte) {
	ints := BytesToInt16(pcm)
	s.mu.Lock()
	for _, v := range ints {
		s.queue = append(s.queue, float64(v)/(1<<15))
	}
	s.mu.Unlock()
}

// FlushTail blocks until the queue has drained through the speaker.
func (s *SpeakerSink) FlushTail() {
	for {
		s.mu.Lock()
		pending := len(s.queue) - s.head
		s.mu.Unlock()
		if pending <= 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func (s *SpeakerSink) Reset() {
	s.mu.Lock()
	s.queue = s.queue[:0]
	s.head = 0
	s.mu.Unlock()
}

func (s *SpeakerSink) Close() error {
	speaker.Clear()
	return nil
}
