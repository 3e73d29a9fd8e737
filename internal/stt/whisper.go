package stt

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Whisper transcribes utterances with a local whisper.cpp model. The
// model is loaded once at construction; each Transcribe runs in a fresh
// model context.
type Whisper struct {
	model whisper.Model
	lang  string
}

func NewWhisper(modelPath, language string) (*Whisper, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: model path missing")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model: %w", err)
	}
	if language == "" {
		language = "en"
	}
	return &Whisper{model: m, lang: language}, nil
}

func (w *Whisper) Close() error {
	return w.model.Close()
}

func (w *Whisper) Transcribe(_ context.Context, samples []float32) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whisper: new context: %w", err)
	}
	_ = wctx.SetLanguage(w.lang)
	wctx.SetThreads(uint(runtime.NumCPU()))
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper: process: %w", err)
	}
	// segments in temporal order, joined with single spaces
	var parts []string
	for {
		seg, err := wctx.NextSegment()
		if err != nil {
			break
		}
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}
