package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type STTProvider string

const (
	STTCloud STTProvider = "cloud"
	// STTLocal is the offline-capable provider. It is the downgrade
	// target when the network goes away.
	STTLocal STTProvider = "local"
)

type TTSProvider string

const (
	TTSCloud  TTSProvider = "cloud"
	TTSEspeak TTSProvider = "espeak"
)

// Config is the static device configuration read from config.json at
// boot. Nothing here changes at runtime; mutable selections live in
// Session.
type Config struct {
	UsageMode        string            `json:"usage_mode"`
	LoginCredentials *LoginCredentials `json:"login_credentials,omitempty"`
	HotwordEngine    string            `json:"hotword_engine"`
	WakeButton       string            `json:"wake_button"`
	Device           string            `json:"device"`
	ServerURL        string            `json:"server_url"`
	DataBaseDir      string            `json:"data_base_dir"`

	DetectionBellSound    string `json:"detection_bell_sound"`
	RecognitionErrorSound string `json:"recognition_error_sound"`
	ProblemSound          string `json:"problem_sound"`

	DefaultSTT STTProvider `json:"default_stt"`
	DefaultTTS TTSProvider `json:"default_tts"`
	Language   string      `json:"language"`

	WhisperModel string `json:"whisper_model"`
}

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		UsageMode:             "anonymous",
		HotwordEngine:         "socket",
		WakeButton:            "disabled",
		ServerURL:             "https://127.0.0.1:4000",
		DataBaseDir:           "data",
		DetectionBellSound:    "detection-bell.mp3",
		RecognitionErrorSound: "recognition-error.mp3",
		ProblemSound:          "problem.mp3",
		DefaultSTT:            STTCloud,
		DefaultTTS:            TTSCloud,
		Language:              "en_US",
		WhisperModel:          "models/ggml-base.bin",
	}
}

// SoundPath resolves a configured sound file against the data dir.
func (c *Config) SoundPath(name string) string {
	p, err := filepath.Abs(filepath.Join(c.DataBaseDir, name))
	if err != nil {
		return filepath.Join(c.DataBaseDir, name)
	}
	return p
}

// Session is the mutable per-process state: active language and
// providers. It is read and written only on the control-loop goroutine,
// so it carries no lock. A ConnectionError downgrades the providers to
// the offline-capable pair for the rest of the process.
type Session struct {
	Language string
	STT      STTProvider
	TTS      TTSProvider
}

func NewSession(cfg *Config) *Session {
	return &Session{
		Language: cfg.Language,
		STT:      cfg.DefaultSTT,
		TTS:      cfg.DefaultTTS,
	}
}

// Downgrade switches to the offline-capable providers. Never reverted
// for the remainder of the session.
func (s *Session) Downgrade() {
	s.STT = STTLocal
	s.TTS = TTSEspeak
}
