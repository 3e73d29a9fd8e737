package chat

import "sync"

// Interrupt is the single-slot barge-in hand-off shared by the mouth,
// the generator and the turn loop. The mouth triggers it when playback
// is cut short and records the unspoken remainder; the generator
// watches Fired to abandon streaming; the turn loop consumes the
// remainder exactly once at the turn boundary. It is not an error and
// never skips cleanup.
type Interrupt struct {
	once sync.Once
	ch   chan struct{}

	mu        sync.Mutex
	remainder string
	has       bool
}

func NewInterrupt() *Interrupt {
	return &Interrupt{ch: make(chan struct{})}
}

// Trigger marks the turn as interrupted. Idempotent.
func (i *Interrupt) Trigger() {
	i.once.Do(func() { close(i.ch) })
}

// Fired is closed once the turn has been interrupted.
func (i *Interrupt) Fired() <-chan struct{} { return i.ch }

// SetRemainder records the bot text that was never spoken. Empty is
// valid: playback may already have finished when the user spoke.
func (i *Interrupt) SetRemainder(text string) {
	i.mu.Lock()
	i.remainder = text
	i.has = true
	i.mu.Unlock()
}

// Remainder reports the carry-over text and whether the interrupt was
// raised at all.
func (i *Interrupt) Remainder() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.remainder, i.has
}
