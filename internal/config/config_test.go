package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("CEREBRAS_MODEL_ID", "")
	t.Setenv("OPENAI_MODEL_ID", "")
	t.Setenv("SILENCE_SECONDS", "")
	t.Setenv("AGENT_NAME", "")
	t.Setenv("ORGANIZATION_NAME", "")

	cfg := Load()
	if cfg.HTTPAddress != ":8080" {
		t.Fatalf("HTTPAddress = %q", cfg.HTTPAddress)
	}
	if cfg.CerebrasModelID == "" {
		t.Fatalf("expected default cerebras model id")
	}
	if cfg.OpenAIModel == "" {
		t.Fatalf("expected default openai model id")
	}
	if cfg.SilenceSeconds != 2.0 {
		t.Fatalf("SilenceSeconds = %v, want 2.0", cfg.SilenceSeconds)
	}
	if cfg.AgentName == "" || cfg.OrganizationName == "" {
		t.Fatalf("expected default persona names")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("SILENCE_SECONDS", "1.5")
	t.Setenv("AGENT_NAME", "Marta")

	cfg := Load()
	if cfg.HTTPAddress != ":9999" {
		t.Fatalf("HTTPAddress = %q", cfg.HTTPAddress)
	}
	if cfg.SilenceSeconds != 1.5 {
		t.Fatalf("SilenceSeconds = %v", cfg.SilenceSeconds)
	}
	if cfg.AgentName != "Marta" {
		t.Fatalf("AgentName = %q", cfg.AgentName)
	}
}

func TestLoad_InvalidSilenceFallsBack(t *testing.T) {
	t.Setenv("SILENCE_SECONDS", "not-a-number")
	cfg := Load()
	if cfg.SilenceSeconds != 2.0 {
		t.Fatalf("SilenceSeconds = %v, want default 2.0", cfg.SilenceSeconds)
	}
}
