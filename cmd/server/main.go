package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	cli "github.com/spf13/pflag"

	"github.com/SoberSalman/AutoEngageFYP/internal/audio"
	"github.com/SoberSalman/AutoEngageFYP/internal/chat"
	"github.com/SoberSalman/AutoEngageFYP/internal/config"
	"github.com/SoberSalman/AutoEngageFYP/internal/llm"
	"github.com/SoberSalman/AutoEngageFYP/internal/server"
	"github.com/SoberSalman/AutoEngageFYP/internal/stt"
	"github.com/SoberSalman/AutoEngageFYP/internal/tts"
	"github.com/SoberSalman/AutoEngageFYP/internal/vad"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	cfg := config.Load()

	brain, err := buildBrain(cfg)
	if err != nil {
		slog.Error("generator setup failed", "err", err)
		os.Exit(1)
	}
	synth, err := buildSynth(cfg)
	if err != nil {
		slog.Error("synthesizer setup failed", "err", err)
		os.Exit(1)
	}
	rec, err := buildRecognizer(cfg)
	if err != nil {
		slog.Error("recognizer setup failed", "err", err)
		os.Exit(1)
	}

	silence := time.Duration(cfg.SilenceSeconds * float64(time.Second))
	runner := func(ctx context.Context, src audio.Source, sink audio.Sink) error {
		det, closeDet, err := buildDetector(cfg)
		if err != nil {
			return err
		}
		defer closeDet()

		ear := stt.NewEar(src, det, rec, silence)
		go ear.RunInterruptMonitor(ctx)
		mouth := tts.NewMouth(synth, sink)

		return chat.Run(ctx, ear, mouth, brain, chat.Options{
			AgentName:        cfg.AgentName,
			OrganizationName: cfg.OrganizationName,
			SystemPrompt:     cfg.SystemPrompt,
			Greeting:         true,
		})
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           server.New(runner).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddress)
		serverErrors <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		slog.Info("shutdown signal received", "sig", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("graceful shutdown failed", "err", err)
		_ = srv.Close()
	}
}

func buildBrain(cfg config.Config) (chat.Brain, error) {
	if cfg.CerebrasKey != "" {
		return llm.NewCerebras(cfg.CerebrasKey, cfg.CerebrasModelID)
	}
	if cfg.OpenAIKey != "" {
		return llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	return nil, fmt.Errorf("no generation backend configured (set CEREBRAS_API_KEY or OPENAI_API_KEY)")
}

func buildSynth(cfg config.Config) (tts.Synthesizer, error) {
	if cfg.DeepgramKey != "" {
		return tts.NewDeepgram(cfg.DeepgramKey, cfg.DeepgramVoice)
	}
	if cfg.ElevenLabsKey != "" {
		return tts.NewElevenLabs(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
	}
	return nil, fmt.Errorf("no synthesis backend configured (set DEEPGRAM_API_KEY or ELEVENLABS_API_KEY)")
}

func buildRecognizer(cfg config.Config) (stt.Recognizer, error) {
	if cfg.OpenAIKey != "" {
		return stt.NewOpenAIRecognizer(cfg.OpenAIKey, "")
	}
	if cfg.WhisperModelPath != "" {
		return stt.NewWhisper(cfg.WhisperModelPath, "en")
	}
	return nil, fmt.Errorf("no recognition backend configured (set OPENAI_API_KEY or WHISPER_MODEL_PATH)")
}

// buildDetector is per-session: the Silero detector keeps internal
// state across windows.
func buildDetector(cfg config.Config) (vad.Detector, func(), error) {
	if cfg.SileroModelPath != "" {
		s, err := vad.NewSilero(cfg.SileroModelPath, audio.CaptureRate)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return vad.NewEnergy(), func() {}, nil
}
