package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SoberSalman/AutoEngageFYP/internal/audio"
	"github.com/SoberSalman/AutoEngageFYP/internal/chat"
)

// ErrPlaybackActive reports a caller bug: a second playback was started
// while one was still running. The playback device is a session-scoped
// singleton; the turn loop must join the previous say before starting a
// new one.
var ErrPlaybackActive = errors.New("tts: playback already active")

var errInterrupted = errors.New("tts: playback interrupted")

// Mouth synthesizes bot text and plays it through the sink, one
// fragment at a time so the first sentence is audible before the last
// is generated. Playback is interruptible: the probe is polled before
// each fragment and while its audio drains.
type Mouth struct {
	synth Synthesizer
	sink  audio.Sink

	mu     sync.Mutex
	active bool
}

func NewMouth(synth Synthesizer, sink audio.Sink) *Mouth {
	return &Mouth{synth: synth, sink: sink}
}

// SayText synthesizes and plays one utterance, blocking until playback
// finishes.
func (m *Mouth) SayText(ctx context.Context, text string) error {
	frags := make(chan string, 1)
	frags <- text
	close(frags)
	return m.SayStream(ctx, frags, nil, nil)
}

// SayStream consumes fragments in emission order. When the probe fires,
// playback stops immediately, the sink is reset, and the remaining
// unplayed fragments are recorded on intr as a single string; the
// fragment playing at that moment counts as spoken. A fragment whose
// synthesis fails is skipped with a log line; one bad sentence must not
// silence the rest of the turn.
func (m *Mouth) SayStream(ctx context.Context, frags <-chan string, probe func() bool, intr *chat.Interrupt) error {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return ErrPlaybackActive
	}
	m.active = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.active = false
		m.mu.Unlock()
	}()

	if probe == nil {
		probe = func() bool { return false }
	}

	for frag := range frags {
		text := CleanMarkup(frag)
		if text == "" {
			continue
		}
		if probe() {
			m.interrupt(frag, frags, intr)
			return nil
		}
		if err := m.playFragment(ctx, text, probe); err != nil {
			if errors.Is(err, errInterrupted) {
				m.interrupt("", frags, intr)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("fragment synthesis failed, skipping", "err", err)
			continue
		}
	}
	if probe() {
		// the user spoke just as playback finished; nothing is left
		// unspoken but the turn still ends interrupted
		m.interrupt("", nil, intr)
		return nil
	}
	m.sink.FlushTail()
	return nil
}

// interrupt stops the sink and parks the unspoken remainder: the
// fragment that never started playing plus everything still queued
// behind it. Draining frags also unblocks the generator, which notices
// the trigger and stops.
func (m *Mouth) interrupt(current string, frags <-chan string, intr *chat.Interrupt) {
	m.sink.Reset()
	if intr == nil {
		return
	}
	intr.Trigger()
	var rest []string
	if s := strings.TrimSpace(current); s != "" {
		rest = append(rest, s)
	}
	if frags != nil {
		for f := range frags {
			if s := strings.TrimSpace(f); s != "" {
				rest = append(rest, s)
			}
		}
	}
	intr.SetRemainder(strings.Join(rest, " "))
}

func (m *Mouth) playFragment(ctx context.Context, text string, probe func() bool) error {
	pcmCh, errCh := m.synth.StreamPCM48k(ctx, text)
	var synthErr error
	var queued int
	openPCM, openErr := true, true
	for openPCM || openErr {
		select {
		case b, ok := <-pcmCh:
			if !ok {
				openPCM = false
				continue
			}
			if probe() {
				return errInterrupted
			}
			m.sink.WritePCM(b)
			queued += len(b)
		case e, ok := <-errCh:
			if !ok {
				openErr = false
				continue
			}
			if e != nil {
				synthErr = e
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if synthErr != nil {
		if queued == 0 {
			return fmt.Errorf("synthesize: %w", synthErr)
		}
		// partial audio already queued; play what we have rather than
		// cut the fragment, but do not hide the failure
		slog.Warn("fragment synthesis ended early, playing partial audio",
			"err", synthErr, "queued_bytes", queued)
	}

	// wait out the fragment's playback, polling for barge-in; the sink
	// paces actual delivery
	dur := time.Duration(queued/2) * time.Second / time.Duration(audio.SynthRate)
	deadline := time.Now().Add(dur)
	for time.Now().Before(deadline) {
		if probe() {
			return errInterrupted
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	return nil
}
