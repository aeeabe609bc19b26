// Package dispatch interprets a dialogue reply into device side
// effects. Fields are processed in a fixed order, not by priority:
// later steps may override visual or audio state set by earlier ones.
package dispatch

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/lights"
	"github.com/MuhammadWasif/susi-linux/internal/player"
	"github.com/MuhammadWasif/susi-linux/internal/renderer"
	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

const fallbackAnswer = "I don't have an answer to this"

// Asker is the remote dialogue service. pkg/susi.Client is the
// production implementation.
type Asker interface {
	Ask(text, language string) (*reply.Reply, error)
}

// Speaker voices text with the session's TTS provider.
type Speaker interface {
	Speak(ctx context.Context, session *config.Session, text string) error
}

// Planner registers deferred replies. internal/scheduler is the
// production implementation.
type Planner interface {
	AddEvent(delay time.Duration, payload reply.Reply)
}

type Dispatcher struct {
	susi     Asker
	tts      Speaker
	planner  Planner
	player   player.Interface
	lights   lights.Interface
	pins     lights.Pins
	renderer renderer.Interface
	cfg      *config.Config
}

func New(
	susi Asker,
	tts Speaker,
	planner Planner,
	pl player.Interface,
	li lights.Interface,
	pins lights.Pins,
	rd renderer.Interface,
	cfg *config.Config,
) *Dispatcher {
	return &Dispatcher{
		susi:     susi,
		tts:      tts,
		planner:  planner,
		player:   pl,
		lights:   li,
		pins:     pins,
		renderer: rd,
		cfg:      cfg,
	}
}

// HandleQuestion asks the dialogue service and dispatches its reply.
// Recognized text and scheduled replies converge here: both end up in
// HandleReply under the same field-ordering rules.
func (d *Dispatcher) HandleQuestion(session *config.Session, text string) error {
	log.Debug("sending question to dialogue server", "q", text)
	r, err := d.susi.Ask(text, session.Language)
	if err != nil {
		return err
	}
	return d.HandleReply(session, r)
}

// HandleReply fires the side effects for every present field, in
// order. The first failing step aborts the rest; a connectivity
// failure keeps its fault kind so the loop can route it to the error
// handler.
func (d *Dispatcher) HandleReply(session *config.Session, r *reply.Reply) error {
	if r == nil {
		return fmt.Errorf("nil reply")
	}

	ctx := context.Background()

	d.pins.SetSpeaking(true)
	d.renderer.ReceiveMessage("speaking", r)

	noAnswerNeeded := false

	for _, plan := range r.PlannedActions {
		log.Debug("planning action", "delay_ms", plan.PlanDelayMS)
		d.planner.AddEvent(time.Duration(plan.PlanDelayMS)*time.Millisecond, plan.Payload)
	}

	if r.Volume != nil {
		noAnswerNeeded = true
		if err := d.player.Volume(int(*r.Volume)); err != nil {
			return err
		}
		if err := d.player.Say(d.cfg.SoundPath(d.cfg.DetectionBellSound)); err != nil {
			return err
		}
	}

	if r.MediaAction != nil {
		handled, err := d.mediaAction(*r.MediaAction)
		if err != nil {
			return err
		}
		if handled {
			noAnswerNeeded = true
		}
	}

	if r.Stop {
		noAnswerNeeded = true
		if err := d.player.Stop(); err != nil {
			return err
		}
	}

	if r.Answer != nil {
		log.Info("Susi answers", "answer", *r.Answer)
		if err := d.speak(ctx, session, *r.Answer); err != nil {
			return err
		}
	} else if !noAnswerNeeded && r.Identifier == nil {
		if err := d.speak(ctx, session, fallbackAnswer); err != nil {
			return err
		}
	}

	if r.Language != nil && *r.Language != session.Language {
		log.Info("Switching language", "language", *r.Language)
		session.Language = *r.Language
	}

	if r.Identifier != nil {
		if err := d.playIdentifier(*r.Identifier); err != nil {
			return err
		}
	}

	if r.Table != nil {
		if err := d.speakTable(ctx, session, r.Table); err != nil {
			return err
		}
	}

	if r.RSS != nil {
		if err := d.speakRSS(ctx, session, r.RSS); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatcher) mediaAction(action string) (handled bool, err error) {
	switch action {
	case "pause":
		if err := d.player.Pause(); err != nil {
			return false, err
		}
		d.lights.Off()
		d.lights.Wakeup()
		return true, nil
	case "resume":
		return true, d.player.Resume()
	case "restart":
		return true, d.player.Restart()
	case "next":
		return true, d.player.Next()
	case "previous":
		return true, d.player.Previous()
	case "shuffle":
		return true, d.player.Shuffle()
	default:
		log.Error("Unknown media action", "action", action)
		return false, nil
	}
}

// speak brackets the utterance with the speaking / idle visual
// transitions.
func (d *Dispatcher) speak(ctx context.Context, session *config.Session, text string) error {
	d.lights.Off()
	d.lights.Speak()
	err := d.tts.Speak(ctx, session, text)
	d.lights.Off()
	return err
}

// playIdentifier resolves a playable media reference: a reserved "ytd"
// tag routes to the streaming path with the 4-byte prefix stripped,
// anything else goes to the generic play path untouched.
func (d *Dispatcher) playIdentifier(id string) error {
	if strings.HasPrefix(id, "ytd") && len(id) > 4 {
		return d.player.PlayYtb(id[4:])
	}
	return d.player.Play(id)
}

// speakTable voices the header row once, then the cells of up to the
// first four data rows in row-major order.
func (d *Dispatcher) speakTable(ctx context.Context, session *config.Session, t *reply.Table) error {
	for _, h := range t.Head {
		if err := d.speak(ctx, session, h); err != nil {
			return err
		}
	}
	rows := t.Data
	if len(rows) > 4 {
		rows = rows[:4]
	}
	for _, row := range rows {
		for _, cell := range row {
			if err := d.speak(ctx, session, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

// speakRSS voices the first count entity titles.
func (d *Dispatcher) speakRSS(ctx context.Context, session *config.Session, rss *reply.RSS) error {
	entities := rss.Entities
	if rss.Count >= 0 && rss.Count < len(entities) {
		entities = entities[:rss.Count]
	}
	for _, e := range entities {
		log.Debug("rss entity", "title", e.Title)
		if err := d.speak(ctx, session, e.Title); err != nil {
			return err
		}
	}
	return nil
}
