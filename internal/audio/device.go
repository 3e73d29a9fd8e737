package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// DeviceSource captures microphone audio through PortAudio at the
// capture rate, one FrameSize int16 frame per ReadFrame.
type DeviceSource struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buf    []int16
	closed bool
}

func NewDeviceSource() *DeviceSource {
	return &DeviceSource{buf: make([]int16, FrameSize)}
}

func (d *DeviceSource) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(CaptureRate), len(d.buf), d.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}
	d.stream = stream
	return nil
}

func (d *DeviceSource) ReadFrame() ([]int16, error) {
	d.mu.Lock()
	closed := d.closed
	stream := d.stream
	d.mu.Unlock()
	if closed || stream == nil {
		return nil, ErrTransportClosed
	}
	if err := stream.Read(); err != nil {
		return nil, fmt.Errorf("%w: mic read: %v", ErrTransportClosed, err)
	}
	out := make([]int16, len(d.buf))
	copy(out, d.buf)
	return out, nil
}

func (d *DeviceSource) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.stream != nil {
		_ = d.stream.Stop()
		_ = d.stream.Close()
		d.stream = nil
	}
	return portaudio.Terminate()
}
