package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Ear produces one finalized user utterance per Listen call and hosts
// the playback-time interruption watch. The watch is armed only while
// the mouth is speaking so the same audio is never counted both as new
// input and as a barge-in trigger.
type Ear interface {
	Listen(ctx context.Context) (string, error)
	ArmInterruptWatch()
	// DisarmInterruptWatch blocks until the watch has released the
	// audio source, so the next Listen never races it.
	DisarmInterruptWatch()
	// Interrupted is the probe polled by the mouth during playback.
	Interrupted() bool
}

// Mouth synthesizes and plays bot text. SayStream consumes fragments in
// emission order and honors the barge-in probe.
type Mouth interface {
	SayText(ctx context.Context, text string) error
	SayStream(ctx context.Context, frags <-chan string, probe func() bool, intr *Interrupt) error
}

// Brain generates the next assistant utterance as a stream of sentence
// fragments, returning the full emitted text. When intr fires
// mid-generation it must stop early; whatever was already emitted
// stands as the turn's result.
type Brain interface {
	GenerateStream(ctx context.Context, history History, out chan<- string, intr *Interrupt) (string, error)
}

// Options configures one conversation session.
type Options struct {
	AgentName        string
	OrganizationName string
	SystemPrompt     string
	Greeting         bool
	// Stop is evaluated against every completed bot utterance; the
	// session ends when it returns true. Nil means never stop (the
	// session ends only when the transport closes).
	Stop func(botText string) bool
	Log  *SessionLog
}

var greetings = []string{
	"Hello, I am %[1]s from %[2]s. How can I help you?",
	"Hello! This is %[1]s from %[2]s. How can I be of assistance?",
	"Hi! This is %[2]s's representative %[1]s. What can I do for you?",
	"Hi! You're speaking with %[1]s from %[2]s. What can I do for you?",
	"Hey, there! You're speaking with %[1]s from %[2]s. How can I assist you?",
}

var fallbacks = []string{
	"I'm sorry, I'm having trouble processing that. Could you say it again?",
	"I'm sorry, something went wrong on my end. Could you repeat that?",
	"Apologies, I didn't catch that. Could you try once more?",
}

// Greeting picks an opening line for the agent, uniformly at random.
func Greeting(agentName, organizationName string) string {
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], agentName, organizationName)
}

// Fallback picks a spoken apology for a failed generation.
func Fallback() string {
	return fallbacks[rand.Intn(len(fallbacks))]
}

// IsFallback reports whether text came from the fallback pool.
func IsFallback(text string) bool {
	for _, f := range fallbacks {
		if text == f {
			return true
		}
	}
	return false
}

// Run drives the turn loop for one session until the stopping predicate
// fires or the transport closes. Each turn spawns exactly two worker
// goroutines (generation and playback) sharing a fragment channel and a
// single Interrupt; both are joined before the next turn begins, so two
// turns' worth of generation or playback never overlap.
func Run(ctx context.Context, ear Ear, mouth Mouth, brain Brain, opts Options) error {
	history := History{}
	if opts.SystemPrompt != "" {
		history = history.Add(RoleSystem, opts.SystemPrompt)
	}

	if opts.Greeting {
		g := Greeting(opts.AgentName, opts.OrganizationName)
		if err := mouth.SayText(ctx, g); err != nil {
			return fmt.Errorf("greeting: %w", err)
		}
	}

	carry := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		listenStart := time.Now()
		utterance, err := ear.Listen(ctx)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		opts.Log.Latency("listen", time.Since(listenStart))

		// Legacy single-space concatenation: the carry is leftover
		// unspoken bot text or an undercaptured user fragment from the
		// previous turn's interruption.
		userText := strings.TrimSpace(carry + " " + utterance)
		history = history.Add(RoleUser, userText)
		slog.Info("user turn", "text", userText)
		opts.Log.Event("USER", userText)

		frags := make(chan string, 64)
		intr := NewInterrupt()
		turnStart := time.Now()

		var (
			wg      sync.WaitGroup
			botText string
			genErr  error
			sayErr  error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			defer close(frags)
			botText, genErr = brain.GenerateStream(ctx, history, frags, intr)
			if genErr != nil {
				// Backend failure degrades to a spoken apology; the
				// loop continues instead of crashing the session.
				slog.Error("generation failed", "err", genErr)
				fb := Fallback()
				select {
				case frags <- fb:
				case <-ctx.Done():
				}
				botText = fb
			}
		}()

		ear.ArmInterruptWatch()
		go func() {
			defer wg.Done()
			sayErr = mouth.SayStream(ctx, frags, ear.Interrupted, intr)
		}()

		// Deliberate serialization at the turn boundary: the next turn
		// never starts while either worker is alive.
		wg.Wait()
		ear.DisarmInterruptWatch()
		opts.Log.Latency("turn", time.Since(turnStart))

		if sayErr != nil {
			slog.Warn("playback ended with error", "err", sayErr)
		}

		carry = ""
		if rem, ok := intr.Remainder(); ok {
			carry = rem
			slog.Info("barge-in", "carry", carry)
		}

		history = history.Add(RoleAssistant, botText)
		slog.Info("bot turn", "text", botText)
		opts.Log.Event("BOT", botText)

		if opts.Stop != nil && opts.Stop(botText) {
			return nil
		}
	}
}
