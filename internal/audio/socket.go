package audio

import (
	"log/slog"
	"sync/atomic"
)

// Socket transport: a Source/Sink pair backed by message queues that a
// websocket handler pumps. Inbound frames carry float32 samples at the
// wire rate and are resampled to capture-rate int16 here; outbound
// synthesis audio is resampled from 48kHz to the wire rate. The
// conversation core never sees a wire-rate sample.

// SocketSource turns inbound wire messages into capture frames.
type SocketSource struct {
	in   <-chan Message
	pend []int16
}

func NewSocketSource(in <-chan Message) *SocketSource {
	return &SocketSource{in: in}
}

func (s *SocketSource) Start() error { return nil }

func (s *SocketSource) ReadFrame() ([]int16, error) {
	for len(s.pend) < FrameSize {
		msg, ok := <-s.in
		if !ok {
			return nil, ErrTransportClosed
		}
		switch msg.Kind {
		case KindAudio:
			f := BytesToFloat32(msg.PCM)
			f = ResampleLinear(f, WireRate, CaptureRate)
			s.pend = append(s.pend, Float32ToInt16(f)...)
		case KindEOS:
			return nil, ErrTransportClosed
		case KindStop:
			// control frame for the playback direction; nothing to do
		}
	}
	frame := make([]int16, FrameSize)
	copy(frame, s.pend[:FrameSize])
	s.pend = append(s.pend[:0], s.pend[FrameSize:]...)
	return frame, nil
}

func (s *SocketSource) Close() error { return nil }

// SocketSink queues outbound wire messages for the write pump. The out
// channel must be owned by the sink so Reset can drop queued frames.
type SocketSink struct {
	out     chan Message
	dropped atomic.Uint64
}

func NewSocketSink(buffer int) *SocketSink {
	if buffer <= 0 {
		buffer = 256
	}
	return &SocketSink{out: make(chan Message, buffer)}
}

// Out is consumed by the websocket write pump.
func (s *SocketSink) Out() <-chan Message { return s.out }

func (s *SocketSink) WritePCM(pcm []byte) {
	f := Int16ToFloat32(BytesToInt16(pcm))
	f = ResampleLinear(f, SynthRate, WireRate)
	msg := Message{Kind: KindAudio, PCM: Float32ToBytes(f)}
	select {
	case s.out <- msg:
	default:
		// drop rather than stall the playback path on a slow peer, but
		// keep the loss visible
		n := s.dropped.Add(1)
		slog.Warn("outbound audio frame dropped, peer not keeping up",
			"bytes", len(msg.PCM), "dropped_total", n)
	}
}

// Dropped reports how many outbound frames were discarded because the
// write pump could not keep up.
func (s *SocketSink) Dropped() uint64 { return s.dropped.Load() }

func (s *SocketSink) FlushTail() {}

// Reset drops every queued audio frame and tells the peer to flush its
// own playback buffer.
func (s *SocketSink) Reset() {
	for {
		select {
		case <-s.out:
		default:
			select {
			case s.out <- Message{Kind: KindStop}:
			default:
			}
			return
		}
	}
}

func (s *SocketSink) Close() error {
	select {
	case s.out <- Message{Kind: KindEOS}:
	default:
	}
	close(s.out)
	return nil
}
