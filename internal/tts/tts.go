// Package tts selects and drives the text-to-speech provider. Like the
// recognizer, the active provider is a session setting, downgraded to
// the offline synthesizer when the network goes away.
package tts

import (
	"context"
	log "log/slog"

	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/fault"
)

// Speaker voices one piece of text, blocking until playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text, language string) error
}

type Selector struct {
	cloud  Speaker
	espeak Speaker
}

func NewSelector(cloud, espeak Speaker) *Selector {
	return &Selector{cloud: cloud, espeak: espeak}
}

func (s *Selector) Speak(ctx context.Context, session *config.Session, text string) error {
	log.Debug("Speaking", "provider", session.TTS, "text", text)

	switch session.TTS {
	case config.TTSCloud:
		return s.cloud.Speak(ctx, text, session.Language)
	case config.TTSEspeak:
		return s.espeak.Speak(ctx, text, session.Language)
	default:
		return fault.Errorf(fault.Unclassified, "unknown tts provider %q", session.TTS)
	}
}
