// Package stt selects and drives the speech-to-text provider for a
// capture cycle. Which provider runs is a configuration choice held in
// the session, never auto-detected from the audio.
package stt

import (
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/fault"
)

// ErrUnreachable marks a transport-level provider failure. The selector
// translates it into a ConnectionError fault for every provider except
// the offline-capable one.
var ErrUnreachable = errors.New("speech service unreachable")

// Recognizer converts one utterance of mono 16 kHz PCM into text.
type Recognizer interface {
	Transcribe(ctx context.Context, pcm []float32, language string) (string, error)
}

// Selector routes recognition to the session's configured provider.
type Selector struct {
	cloud  Recognizer
	local  Recognizer
	online func() bool
}

func NewSelector(cloud, local Recognizer, online func() bool) *Selector {
	return &Selector{cloud: cloud, local: local, online: online}
}

// Recognize runs the active provider and translates its failures into
// fault kinds. The offline-capable local provider upgrades itself to
// the cloud path while the network is reachable; without network it
// reformats the language code and recognizes locally, so it can never
// produce a ConnectionError.
func (s *Selector) Recognize(ctx context.Context, session *config.Session, pcm []float32) (string, error) {
	log.Info("Recognizing audio", "provider", session.STT, "language", session.Language)

	switch session.STT {
	case config.STTCloud:
		text, err := s.cloud.Transcribe(ctx, pcm, session.Language)
		if err != nil {
			if errors.Is(err, ErrUnreachable) {
				return "", fault.New(fault.ConnectionError, err)
			}
			return "", fault.New(fault.RecognitionError, err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fault.Errorf(fault.RecognitionError, "empty transcript")
		}
		return text, nil

	case config.STTLocal:
		if s.online != nil && s.online() {
			session.STT = config.STTCloud
			log.Info("Network is back, switching to cloud recognition")
			return s.Recognize(ctx, session, pcm)
		}
		text, err := s.local.Transcribe(ctx, pcm, offlineLang(session.Language))
		if err != nil {
			return "", fault.New(fault.RecognitionError, err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fault.Errorf(fault.RecognitionError, "empty transcript")
		}
		return text, nil

	default:
		return "", fault.Errorf(fault.Unclassified, "unknown stt provider %q", session.STT)
	}
}

// offlineLang reformats a locale like "en_US" into the bare language
// code the local model expects.
func offlineLang(lang string) string {
	lang = strings.ReplaceAll(lang, "_", "-")
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}
