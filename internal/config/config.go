package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server  ServerConfig
	GenAI   GenAIConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type GenAIConfig struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	TTSModel  string
	TTSVoice  string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		GenAI: GenAIConfig{
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
			ChatModel: "gemini-2.5-flash",
			TTSModel:  "gemini-2.5-flash-preview-tts",
			TTSVoice:  "Algenib",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.youthmind.app) and
// secrets fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/youthmind/config.json
// and secrets must be provided via environment variables.
//
// Environment variables (YOUTHMIND_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try platform keychain for API key if still empty.
	if cfg.GenAI.APIKey == "" {
		if key, err := kc.Get("youthmind", "gemini_api_key"); err == nil && key != "" {
			cfg.GenAI.APIKey = key
		}
	}

	if cfg.GenAI.APIKey == "" {
		msg := "missing required config: Gemini API key. " +
			"Set it via environment variable YOUTHMIND_GEMINI_API_KEY" +
			apiKeyHint()
		return Config{}, fmt.Errorf("%s", msg)
	}

	return cfg, nil
}

// keychainReader reads from macOS Keychain via the security CLI.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
