// Package capture orchestrates one wake-to-text cycle: acknowledge the
// trigger, suspend wake detection, record the utterance, and recognize
// it with the session's provider.
package capture

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/MuhammadWasif/susi-linux/internal/audio"
	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/fault"
	"github.com/MuhammadWasif/susi-linux/internal/hotword"
	"github.com/MuhammadWasif/susi-linux/internal/lights"
	"github.com/MuhammadWasif/susi-linux/internal/player"
	"github.com/MuhammadWasif/susi-linux/internal/renderer"
)

const (
	// WaitTimeout bounds how long we wait for speech to start.
	WaitTimeout = 10 * time.Second
	// PhraseLimit bounds the utterance itself.
	PhraseLimit = 5 * time.Second

	recognizeTimeout = 60 * time.Second
)

// Microphone captures one utterance. audio.Recorder is the production
// implementation.
type Microphone interface {
	Listen(waitTimeout, phraseLimit time.Duration) ([]float32, error)
}

// Recognizer turns captured PCM into text, translating provider
// failures into fault kinds. stt.Selector is the production
// implementation.
type Recognizer interface {
	Recognize(ctx context.Context, session *config.Session, pcm []float32) (string, error)
}

type Pipeline struct {
	mic        Microphone
	recognizer Recognizer
	detector   hotword.Detector
	player     player.Interface
	lights     lights.Interface
	pins       lights.Pins
	renderer   renderer.Interface
	cfg        *config.Config
}

func NewPipeline(
	mic Microphone,
	recognizer Recognizer,
	detector hotword.Detector,
	pl player.Interface,
	li lights.Interface,
	pins lights.Pins,
	rd renderer.Interface,
	cfg *config.Config,
) *Pipeline {
	return &Pipeline{
		mic:        mic,
		recognizer: recognizer,
		detector:   detector,
		player:     pl,
		lights:     li,
		pins:       pins,
		renderer:   rd,
		cfg:        cfg,
	}
}

// Run performs one capture cycle and returns the recognized text.
// Errors carry a fault kind for the error handler. Wake detection is
// suspended for the whole cycle; the control loop re-arms it on the
// next idle iteration.
func (p *Pipeline) Run(session *config.Session) (string, error) {
	if err := p.player.Beep(p.cfg.SoundPath(p.cfg.DetectionBellSound)); err != nil {
		log.Warn("Failed to play detection bell", "err", err)
	}

	log.Debug("stopping wake detection for capture")
	p.detector.Stop()

	p.pins.SetListening(true)
	p.renderer.ReceiveMessage("listening", nil)

	log.Debug("listening for voice command")
	pcm, err := p.mic.Listen(WaitTimeout, PhraseLimit)
	p.pins.SetListening(false)
	if err != nil {
		if errors.Is(err, audio.ErrListenTimeout) {
			log.Debug("timeout reached waiting for voice command")
			return "", fault.New(fault.ListenTimeout, err)
		}
		return "", fault.New(fault.Unclassified, err)
	}

	p.lights.Off()
	p.lights.Think()

	ctx, cancel := context.WithTimeout(context.Background(), recognizeTimeout)
	defer cancel()

	text, err := p.recognizer.Recognize(ctx, session, pcm)
	if err != nil {
		return "", err
	}

	log.Debug("recognized voice command", "text", text)
	p.renderer.ReceiveMessage("recognized", text)
	return text, nil
}
