package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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

// voicechat runs a conversation against the local microphone and
// speakers instead of a websocket peer.
func main() {
	logLevel := cli.StringP("log", "l", "info", "Log level")
	inputWAV := cli.StringP("input", "i", "", "Read user audio from a WAV/MP3 file instead of the microphone")
	eventLog := cli.String("event-log", "", "Append conversation events to this file")
	timingLog := cli.String("timing-log", "", "Write per-stage latency CSV to this file")
	noGreeting := cli.Bool("no-greeting", false, "Skip the opening greeting")
	cli.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	cfg := config.Load()

	if err := run(cfg, *inputWAV, *eventLog, *timingLog, !*noGreeting); err != nil {
		slog.Error("session failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, inputPath, eventLog, timingLog string, greeting bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := buildSource(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	sink, err := audio.NewSpeakerSink()
	if err != nil {
		return fmt.Errorf("open speakers: %w", err)
	}
	defer sink.Close()

	det, closeDet, err := buildDetector(cfg)
	if err != nil {
		return err
	}
	defer closeDet()

	rec, err := buildRecognizer(cfg)
	if err != nil {
		return err
	}
	synth, err := buildSynth(cfg)
	if err != nil {
		return err
	}
	brain, err := buildBrain(cfg)
	if err != nil {
		return err
	}

	var sessionLog *chat.SessionLog
	if eventLog != "" || timingLog != "" {
		sessionLog, err = chat.NewSessionLog(eventLog, timingLog)
		if err != nil {
			return err
		}
		defer sessionLog.Close()
	}

	silence := time.Duration(cfg.SilenceSeconds * float64(time.Second))
	ear := stt.NewEar(src, det, rec, silence)
	go ear.RunInterruptMonitor(ctx)
	mouth := tts.NewMouth(synth, sink)

	err = chat.Run(ctx, ear, mouth, brain, chat.Options{
		AgentName:        cfg.AgentName,
		OrganizationName: cfg.OrganizationName,
		SystemPrompt:     cfg.SystemPrompt,
		Greeting:         greeting,
		Log:              sessionLog,
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, audio.ErrTransportClosed) {
		return nil
	}
	return err
}

func buildSource(inputPath string) (audio.Source, error) {
	if inputPath != "" {
		// pad the file with trailing silence so the end-of-turn window
		// can complete
		return audio.NewFileSource(inputPath, 3)
	}
	src := audio.NewDeviceSource()
	if err := src.Start(); err != nil {
		return nil, fmt.Errorf("open microphone: %w", err)
	}
	return src, nil
}

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

func buildRecognizer(cfg config.Config) (stt.Recognizer, error) {
	if cfg.WhisperModelPath != "" {
		return stt.NewWhisper(cfg.WhisperModelPath, "en")
	}
	if cfg.OpenAIKey != "" {
		return stt.NewOpenAIRecognizer(cfg.OpenAIKey, "")
	}
	return nil, fmt.Errorf("no recognition backend configured (set WHISPER_MODEL_PATH or OPENAI_API_KEY)")
}

func buildSynth(cfg config.Config) (tts.Synthesizer, error) {
	if cfg.ElevenLabsKey != "" {
		return tts.NewElevenLabs(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
	}
	if cfg.DeepgramKey != "" {
		return tts.NewDeepgram(cfg.DeepgramKey, cfg.DeepgramVoice)
	}
	return nil, fmt.Errorf("no synthesis backend configured (set ELEVENLABS_API_KEY or DEEPGRAM_API_KEY)")
}

func buildBrain(cfg config.Config) (chat.Brain, error) {
	if cfg.OpenAIKey != "" {
		return llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	if cfg.CerebrasKey != "" {
		return llm.NewCerebras(cfg.CerebrasKey, cfg.CerebrasModelID)
	}
	return nil, fmt.Errorf("no generation backend configured (set OPENAI_API_KEY or CEREBRAS_API_KEY)")
}
