package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress string

	// speech recognition
	OpenAIKey        string
	OpenAIModel      string
	WhisperModelPath string

	// generation
	CerebrasKey     string
	CerebrasModelID string

	// synthesis
	ElevenLabsKey     string
	ElevenLabsVoiceID string
	DeepgramKey       string
	DeepgramVoice     string

	// voice activity detection
	SileroModelPath string
	SilenceSeconds  float64

	// persona
	AgentName        string
	OrganizationName string
	SystemPrompt     string
}

// Load reads environment variables and returns Config with sane
// defaults. A missing provider key only disables that provider; which
// keys are actually required depends on the backends selected at
// startup, so hard validation happens at component construction.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "err", err)
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, OpenAI transcription and generation unavailable")
	}
	openAIModel := os.Getenv("OPENAI_MODEL_ID")
	if openAIModel == "" {
		openAIModel = "gpt-4o-mini"
	}

	cerebrasKey := os.Getenv("CEREBRAS_API_KEY")
	if cerebrasKey == "" {
		slog.Warn("CEREBRAS_API_KEY not set, Cerebras generation unavailable")
	}
	cerebrasModel := os.Getenv("CEREBRAS_MODEL_ID")
	if cerebrasModel == "" {
		cerebrasModel = "gpt-oss-120b"
	}

	elevenKey := os.Getenv("ELEVENLABS_API_KEY")
	if elevenKey == "" {
		slog.Warn("ELEVENLABS_API_KEY not set, ElevenLabs synthesis unavailable")
	}
	voiceID := os.Getenv("ELEVENLABS_VOICE_ID")

	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	deepgramVoice := os.Getenv("DEEPGRAM_VOICE_MODEL")

	silence := 2.0
	if s := os.Getenv("SILENCE_SECONDS"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			silence = v
		} else {
			slog.Warn("invalid SILENCE_SECONDS, using default", "value", s)
		}
	}

	agent := os.Getenv("AGENT_NAME")
	if agent == "" {
		agent = "Ava"
	}
	org := os.Getenv("ORGANIZATION_NAME")
	if org == "" {
		org = "AutoEngage"
	}

	return Config{
		HTTPAddress:       addr,
		OpenAIKey:         openAIKey,
		OpenAIModel:       openAIModel,
		WhisperModelPath:  os.Getenv("WHISPER_MODEL_PATH"),
		CerebrasKey:       cerebrasKey,
		CerebrasModelID:   cerebrasModel,
		ElevenLabsKey:     elevenKey,
		ElevenLabsVoiceID: voiceID,
		DeepgramKey:       deepgramKey,
		DeepgramVoice:     deepgramVoice,
		SileroModelPath:   os.Getenv("SILERO_MODEL_PATH"),
		SilenceSeconds:    silence,
		AgentName:         agent,
		OrganizationName:  org,
		SystemPrompt:      os.Getenv("SYSTEM_PROMPT"),
	}
}
