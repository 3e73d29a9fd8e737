package stt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SoberSalman/AutoEngageFYP/internal/audio"
	"github.com/SoberSalman/AutoEngageFYP/internal/vad"
)

// Ear owns the session's audio input. Listen records one utterance
// using silence-window end-of-turn detection; the interrupt monitor
// reuses the same source while the mouth is playing to detect barge-in.
// The two never read concurrently: the watch is armed only between
// playback start and the join at the turn boundary.
type Ear struct {
	src     audio.Source
	det     vad.Detector
	rec     Recognizer
	silence time.Duration

	mu       sync.Mutex
	pending  []int16 // audio captured by the watch; seed of the next Listen
	started  bool    // pending already contains detected speech
	watchErr error

	fired     atomic.Bool
	armed     atomic.Bool
	monitorOn atomic.Bool
	gen       atomic.Uint64
	armCh     chan uint64
	disarmCh  chan uint64
	releaseCh chan uint64
}

// NewEar builds an ear over src. silence is the trailing no-speech
// window that ends a turn; zero means the 2-second default.
func NewEar(src audio.Source, det vad.Detector, rec Recognizer, silence time.Duration) *Ear {
	if silence <= 0 {
		silence = 2 * time.Second
	}
	return &Ear{
		src:       src,
		det:       det,
		rec:       rec,
		silence:   silence,
		armCh:     make(chan uint64, 1),
		disarmCh:  make(chan uint64, 1),
		releaseCh: make(chan uint64, 1),
	}
}

func (e *Ear) windowSamples() int {
	return int(e.silence.Seconds() * float64(audio.CaptureRate))
}

// Listen blocks until the user has spoken and then fallen silent for
// the configured window, and returns the transcription. Leading silence
// before the first speech-positive window is trimmed from the buffer.
// There is no timeout: silence is not an error, only a closed transport
// is.
func (e *Ear) Listen(ctx context.Context) (string, error) {
	frames, err := e.record(ctx)
	if err != nil {
		return "", err
	}
	start := time.Now()
	text, err := e.rec.Transcribe(ctx, vad.Normalize(frames))
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	slog.Debug("transcribed", "samples", len(frames), "took", time.Since(start))
	return strings.TrimSpace(text), nil
}

func (e *Ear) record(ctx context.Context) ([]int16, error) {
	e.mu.Lock()
	buf := e.pending
	started := e.started
	werr := e.watchErr
	e.pending, e.started, e.watchErr = nil, false, nil
	e.mu.Unlock()
	if werr != nil {
		return nil, werr
	}

	window := e.windowSamples()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := e.src.ReadFrame()
		if err != nil {
			return nil, err
		}
		buf = append(buf, frame...)
		if !started && len(buf) < window {
			// still absorbing leading silence; not enough audio for a
			// full window yet
			continue
		}
		tail := buf
		if len(tail) > window {
			tail = tail[len(tail)-window:]
		}
		speech, err := e.det.ContainsSpeech(tail)
		if err != nil {
			return nil, fmt.Errorf("vad: %w", err)
		}
		if !started && speech {
			started = true
			if len(buf) > window {
				buf = append([]int16(nil), buf[len(buf)-window:]...)
			}
			continue
		}
		if started && !speech {
			// a whole window of trailing silence ends the turn
			return buf, nil
		}
	}
}

// RunInterruptMonitor owns the barge-in watch for the whole session: it
// parks until armed, records while the mouth is playing, and fires as
// soon as a trailing window contains speech. The triggering frames are
// kept as the seed of the next Listen so the interrupting speech is
// never lost. Run it on its own goroutine; it returns when ctx ends.
//
// Every arm/disarm/release token carries the cycle's generation number.
// A turn can finish before the monitor wakes for its arm token, leaving
// the disarm already queued; the number tells a current disarm apart
// from one left behind by an earlier cycle that fired on its own.
func (e *Ear) RunInterruptMonitor(ctx context.Context) {
	e.monitorOn.Store(true)
	defer e.monitorOn.Store(false)
	for {
		var gen uint64
		select {
		case <-ctx.Done():
			return
		case gen = <-e.armCh:
		}
		disarmed := false
	drain:
		for {
			select {
			case d := <-e.disarmCh:
				if d >= gen {
					// this cycle was disarmed before the watch started
					disarmed = true
					break drain
				}
			default:
				break drain
			}
		}
		if !disarmed {
			e.watch(ctx, gen)
		}
		select {
		case e.releaseCh <- gen:
		default:
		}
	}
}

func (e *Ear) watch(ctx context.Context, gen uint64) {
	window := e.windowSamples()
	var buf []int16
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-e.disarmCh:
			if d >= gen {
				return
			}
			// token left behind by an earlier cycle; drop it
		default:
		}
		frame, err := e.src.ReadFrame()
		if err != nil {
			e.mu.Lock()
			e.watchErr = err
			e.mu.Unlock()
			return
		}
		buf = append(buf, frame...)
		tail := buf
		if len(tail) > window {
			tail = tail[len(tail)-window:]
		}
		speech, verr := e.det.ContainsSpeech(tail)
		if verr != nil {
			e.mu.Lock()
			e.watchErr = fmt.Errorf("vad: %w", verr)
			e.mu.Unlock()
			return
		}
		if speech {
			e.mu.Lock()
			e.pending = buf
			e.started = true
			e.mu.Unlock()
			e.fired.Store(true)
			slog.Info("barge-in detected", "buffered_samples", len(buf))
			return
		}
	}
}

// ArmInterruptWatch starts a watch for the upcoming playback. No-op if
// the monitor goroutine is not running.
func (e *Ear) ArmInterruptWatch() {
	if !e.monitorOn.Load() {
		return
	}
	e.fired.Store(false)
	gen := e.gen.Add(1)
	// drop a release token from a previous cycle that was never waited on
	select {
	case <-e.releaseCh:
	default:
	}
	select {
	case e.armCh <- gen:
		e.armed.Store(true)
	default:
	}
}

// DisarmInterruptWatch ends the current watch and blocks until the
// monitor has released the audio source, so the next Listen never races
// it.
func (e *Ear) DisarmInterruptWatch() {
	if !e.armed.Swap(false) {
		return
	}
	gen := e.gen.Load()
	for {
		select {
		case e.disarmCh <- gen:
		case <-e.disarmCh:
			// a stale token was still queued; drop it so the send
			// cannot be lost, then retry
			continue
		}
		break
	}
	for {
		select {
		case r := <-e.releaseCh:
			if r >= gen {
				return
			}
		case <-time.After(10 * time.Millisecond):
			if !e.monitorOn.Load() {
				return
			}
		}
	}
}

// Interrupted is the probe the mouth polls during playback.
func (e *Ear) Interrupted() bool {
	return e.fired.Load()
}
