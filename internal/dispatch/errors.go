package dispatch

import (
	log "log/slog"

	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/fault"
	"github.com/MuhammadWasif/susi-linux/internal/lights"
	"github.com/MuhammadWasif/susi-linux/internal/player"
	"github.com/MuhammadWasif/susi-linux/internal/renderer"
)

// ErrorHandler maps a fault kind to its user-facing feedback: visual
// state, sound, renderer notification. It never fails; feedback
// playback errors are logged and swallowed.
type ErrorHandler struct {
	player   player.Interface
	lights   lights.Interface
	renderer renderer.Interface
	cfg      *config.Config
}

func NewErrorHandler(pl player.Interface, li lights.Interface, rd renderer.Interface, cfg *config.Config) *ErrorHandler {
	return &ErrorHandler{player: pl, lights: li, renderer: rd, cfg: cfg}
}

// Handle runs the feedback sequence for kind. A ConnectionError also
// downgrades the session to the offline-capable providers for the rest
// of the process.
func (h *ErrorHandler) Handle(kind fault.Kind, session *config.Session) {
	switch kind {
	case fault.RecognitionError:
		log.Debug("recognition error feedback")
		h.renderer.ReceiveMessage("error", "recognition")
		h.lights.Speak()
		h.say(h.cfg.RecognitionErrorSound)
		h.lights.Off()

	case fault.ConnectionError:
		h.renderer.ReceiveMessage("error", "connection")
		session.Downgrade()
		h.lights.Speak()
		h.lights.Off()
		log.Info("Internet connection not available, changed to offline providers")

	case fault.ListenTimeout:
		// visual feedback only, no sound
		h.renderer.ReceiveMessage("error", "timeout")
		h.lights.Speak()
		h.lights.Off()

	default:
		log.Error("Unclassified cycle failure")
		h.renderer.ReceiveMessage("error", nil)
		h.lights.Speak()
		h.say(h.cfg.ProblemSound)
		h.lights.Off()
	}
}

func (h *ErrorHandler) say(sound string) {
	if err := h.player.Say(h.cfg.SoundPath(sound)); err != nil {
		log.Warn("Failed to play feedback sound", "sound", sound, "err", err)
	}
}
