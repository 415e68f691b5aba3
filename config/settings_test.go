package config

import (
	"os"
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", settings.LLM.Provider)
	}
	if settings.Agent.MaxSteps != 8 {
		t.Errorf("expected default max steps 8, got %d", settings.Agent.MaxSteps)
	}
	if settings.LLM.KeySelection != "roundrobin" {
		t.Errorf("expected default key selection roundrobin, got %q", settings.LLM.KeySelection)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewInvalidKeySelection(t *testing.T) {
	t.Setenv("LLM_KEY_SELECTION", "fastest")

	if _, err := New("openai"); err == nil {
		t.Error("expected error for invalid LLM_KEY_SELECTION")
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")

	if _, err := New("openai"); err == nil {
		t.Error("expected error for invalid LLM_MAX_TOKENS")
	}
}

func TestAPIKeysForSingleKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	keys, err := APIKeysFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "test-key" {
		t.Errorf("expected [test-key], got %v", keys)
	}
}

func TestAPIKeysForCommaSeparated(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "key-a, key-b ,key-c,")

	keys, err := APIKeysFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", keys)
	}
	if keys[1] != "key-b" {
		t.Errorf("keys not trimmed: %v", keys)
	}
}

func TestAPIKeysForMissing(t *testing.T) {
	original := os.Getenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", original)

	if _, err := APIKeysFor("openai"); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeysForUnknownProvider(t *testing.T) {
	if _, err := APIKeysFor("unknown"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelForDefault(t *testing.T) {
	original := os.Getenv("OPENAI_MODEL")
	os.Unsetenv("OPENAI_MODEL")
	defer os.Setenv("OPENAI_MODEL", original)

	model, err := ModelFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "gpt-3.5-turbo-16k" {
		t.Errorf("expected default model, got %q", model)
	}
}

func TestModelForOverride(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-4")

	model, err := ModelFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "gpt-4" {
		t.Errorf("expected override, got %q", model)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew("unknown_provider")
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	if len(providers) == 0 {
		t.Error("expected at least one supported provider")
	}
}
