package chat

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"time"
)

// SessionLog appends timestamped conversation events to a text file and
// per-stage latencies to a CSV file. A nil *SessionLog is valid and
// records nothing, so callers never need to guard.
type SessionLog struct {
	mu      sync.Mutex
	events  *os.File
	timings *csv.Writer
	tf      *os.File
}

// NewSessionLog opens (appending) the event log at eventPath and
// creates the latency CSV at timingPath. Either path may be empty to
// disable that half.
func NewSessionLog(eventPath, timingPath string) (*SessionLog, error) {
	l := &SessionLog{}
	if eventPath != "" {
		f, err := os.OpenFile(eventPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		l.events = f
	}
	if timingPath != "" {
		f, err := os.Create(timingPath)
		if err != nil {
			if l.events != nil {
				_ = l.events.Close()
			}
			return nil, fmt.Errorf("create timing log: %w", err)
		}
		l.tf = f
		l.timings = csv.NewWriter(f)
		_ = l.timings.Write([]string{"Stage", "Time Taken"})
	}
	return l, nil
}

// Event records one speaker-labelled line, e.g. "USER: hello".
func (l *SessionLog) Event(speaker, text string) {
	if l == nil || l.events == nil {
		return
	}
	l.mu.Lock()
	fmt.Fprintf(l.events, "%s %s: %s\n", time.Now().Format(time.RFC3339Nano), speaker, text)
	l.mu.Unlock()
}

// Latency records how long a pipeline stage took.
func (l *SessionLog) Latency(stage string, d time.Duration) {
	if l == nil || l.timings == nil {
		return
	}
	l.mu.Lock()
	_ = l.timings.Write([]string{stage, fmt.Sprintf("%.4f", d.Seconds())})
	l.timings.Flush()
	l.mu.Unlock()
}

func (l *SessionLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timings != nil {
		l.timings.Flush()
	}
	if l.tf != nil {
		_ = l.tf.Close()
	}
	if l.events != nil {
		return l.events.Close()
	}
	return nil
}
