package audio

import (
	"errors"
	"fmt"
)

// Sample-rate domains. Capture is fixed at 16kHz; synthesis backends
// emit 48kHz PCM16LE; the websocket wire carries float32 at 44.1kHz.
// Resampling happens only at the transport boundary, never inside the
// conversation logic.
const (
	CaptureRate = 16000
	SynthRate   = 48000
	WireRate    = 44100

	// FrameSize is the number of int16 samples per capture frame
	// (128ms at 16kHz).
	FrameSize = 2048
)

// ErrTransportClosed reports that the underlying audio device or socket
// is gone. It is fatal for the session, as opposed to silence, which is
// never an error.
var ErrTransportClosed = errors.New("audio: transport closed")

// Source delivers fixed-size capture-rate PCM frames. ReadFrame blocks
// until a full frame is available and returns ErrTransportClosed once
// the device or peer is gone.
type Source interface {
	Start() error
	ReadFrame() ([]int16, error)
	Close() error
}

// Sink consumes 48kHz PCM16LE and delivers it to the device or peer.
// WritePCM queues audio without blocking for its playback duration.
// Reset drops everything queued immediately (barge-in). FlushTail pads
// and drains at the end of an utterance.
type Sink interface {
	WritePCM(pcm []byte)
	FlushTail()
	Reset()
	Close() error
}

// MsgKind tags a wire frame. Control signals travel as their own kinds
// instead of magic payload values, so audio bytes can never be mistaken
// for a command.
type MsgKind byte

const (
	KindAudio MsgKind = 0x01
	KindStop  MsgKind = 0x02
	KindEOS   MsgKind = 0x03
)

// Message is one tagged binary frame on the websocket wire.
type Message struct {
	Kind MsgKind
	PCM  []byte
}

// Encode prefixes the payload with its kind tag.
func (m Message) Encode() []byte {
	out := make([]byte, 1+len(m.PCM))
	out[0] = byte(m.Kind)
	copy(out[1:], m.PCM)
	return out
}

// DecodeMessage parses a tagged wire frame.
func DecodeMessage(b []byte) (Message, error) {
	if len(b) == 0 {
		return Message{}, errors.New("audio: empty wire frame")
	}
	kind := MsgKind(b[0])
	switch kind {
	case KindAudio, KindStop, KindEOS:
	default:
		return Message{}, fmt.Errorf("audio: unknown wire frame kind 0x%02x", b[0])
	}
	msg := Message{Kind: kind}
	if len(b) > 1 {
		msg.PCM = b[1:]
	}
	return msg, nil
}
