package config

import (
	"strings"
	"testing"
)

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

// mapBackend is an in-memory ConfigBackend.
type mapBackend struct {
	data map[string]any
}

func (b *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (b *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return 0, false, nil
	}
	return v.(int), true, nil
}

func (b *mapBackend) SetString(key, val string) error { b.data[key] = val; return nil }
func (b *mapBackend) SetInt(key string, val int) error { b.data[key] = val; return nil }
func (b *mapBackend) Delete(key string) error          { delete(b.data, key); return nil }

func emptyBackend() *mapBackend {
	return &mapBackend{data: map[string]any{}}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		if s.env != "" {
			t.Setenv(s.env, "")
		}
	}
}

// TestDefaults verifies all default values are applied when the backend is empty.
func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTHMIND_GEMINI_API_KEY", "test-key")

	cfg, err := loadWith(emptyBackend(), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.GenAI.BaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Errorf("GenAI.BaseURL = %q", cfg.GenAI.BaseURL)
	}
	if cfg.GenAI.ChatModel != "gemini-2.5-flash" {
		t.Errorf("GenAI.ChatModel = %q", cfg.GenAI.ChatModel)
	}
	if cfg.GenAI.TTSModel != "gemini-2.5-flash-preview-tts" {
		t.Errorf("GenAI.TTSModel = %q", cfg.GenAI.TTSModel)
	}
	if cfg.GenAI.TTSVoice != "Algenib" {
		t.Errorf("GenAI.TTSVoice = %q", cfg.GenAI.TTSVoice)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

// TestBackendValues verifies backend values override defaults.
func TestBackendValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTHMIND_GEMINI_API_KEY", "test-key")

	b := &mapBackend{data: map[string]any{
		"server.port":      5000,
		"genai.chat_model": "gemini-custom",
		"storage.data_dir": "/tmp/youthmind-test",
		"log.level":        "debug",
	}}

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.GenAI.ChatModel != "gemini-custom" {
		t.Errorf("GenAI.ChatModel = %q", cfg.GenAI.ChatModel)
	}
	if cfg.Storage.DataDir != "/tmp/youthmind-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

// TestEnvOverride verifies environment variables win over backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTHMIND_GEMINI_API_KEY", "env-key")
	t.Setenv("YOUTHMIND_SERVER_PORT", "6001")

	b := &mapBackend{data: map[string]any{"server.port": 5000}}

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 6001 {
		t.Errorf("Server.Port = %d, want 6001", cfg.Server.Port)
	}
	if cfg.GenAI.APIKey != "env-key" {
		t.Errorf("GenAI.APIKey = %q, want env-key", cfg.GenAI.APIKey)
	}
}

// TestMissingRequiredField verifies a clear error when the API key is missing everywhere.
func TestMissingRequiredField(t *testing.T) {
	clearEnv(t)

	_, err := loadWith(emptyBackend(), mockKeychain{})
	if err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
	if !strings.Contains(err.Error(), "missing required config") {
		t.Errorf("error = %q, want it to mention missing required config", err)
	}
}

// TestKeychainFallback verifies the Keychain is consulted when no API key is in backend or env.
func TestKeychainFallback(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(emptyBackend(), mockKeychain{value: "keychain-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GenAI.APIKey != "keychain-secret" {
		t.Errorf("GenAI.APIKey = %q, want keychain-secret", cfg.GenAI.APIKey)
	}
}

// TestShowAllExcludesSecrets verifies secrets never appear in the displayable list.
func TestShowAllExcludesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.GenAI.APIKey = "super-secret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "genai.api_key" {
			t.Errorf("secret key %q leaked into ShowAll", info.Key)
		}
		if strings.Contains(info.Value, "super-secret") {
			t.Errorf("secret value leaked via key %q", info.Key)
		}
	}
}

// TestSetKeyUnknown verifies writing an unknown key fails.
func TestSetKeyUnknown(t *testing.T) {
	if err := SetKey("nope.nothing", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}
