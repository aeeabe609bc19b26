// Package loop is the top-level driver of the device: it alternates
// between awaiting a trigger and draining one event from the queue,
// and guarantees baseline state is restored after every cycle.
package loop

import (
	log "log/slog"

	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/fault"
	"github.com/MuhammadWasif/susi-linux/internal/hotword"
	"github.com/MuhammadWasif/susi-linux/internal/lights"
	"github.com/MuhammadWasif/susi-linux/internal/player"
	"github.com/MuhammadWasif/susi-linux/internal/queue"
	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

// Capturer runs one wake-to-text cycle. internal/capture is the
// production implementation.
type Capturer interface {
	Run(session *config.Session) (string, error)
}

// Dispatcher interprets replies. internal/dispatch is the production
// implementation.
type Dispatcher interface {
	HandleQuestion(session *config.Session, text string) error
	HandleReply(session *config.Session, r *reply.Reply) error
}

// ErrorFeedback maps fault kinds to user feedback.
type ErrorFeedback interface {
	Handle(kind fault.Kind, session *config.Session)
}

type Loop struct {
	queue      *queue.Queue
	detectors  []hotword.Detector
	capture    Capturer
	dispatcher Dispatcher
	errors     ErrorFeedback
	player     player.Interface
	pins       lights.Pins
	session    *config.Session
}

func New(
	q *queue.Queue,
	capture Capturer,
	dispatcher Dispatcher,
	errors ErrorFeedback,
	pl player.Interface,
	pins lights.Pins,
	session *config.Session,
) *Loop {
	return &Loop{
		queue:      q,
		capture:    capture,
		dispatcher: dispatcher,
		errors:     errors,
		player:     pl,
		pins:       pins,
		session:    session,
	}
}

// AddTrigger registers a wake-trigger source. Its callback does exactly
// one thing: push a bare wake event. All sources are symmetric; the
// queue is the sole fan-in point.
func (l *Loop) AddTrigger(d hotword.Detector) {
	d.OnTrigger(func() {
		l.queue.Push(queue.Event{})
	})
	l.detectors = append(l.detectors, d)
}

// EnqueueReply is the scheduler's fan-in: a fired planned action
// becomes a pre-built reply event.
func (l *Loop) EnqueueReply(r reply.Reply) {
	l.queue.Push(queue.Event{Reply: &r})
}

// EnqueueWake lets non-detector callers (the control socket, the UI)
// request a capture cycle directly.
func (l *Loop) EnqueueWake() {
	l.queue.Push(queue.Event{})
}

// EnqueueSay injects text straight into the dispatch path, bypassing
// capture. Used by the control socket for devices without a mic.
func (l *Loop) EnqueueSay(text string) {
	if text == "" {
		return
	}
	l.queue.Push(queue.Event{Text: text})
}

// Run drives the loop forever. Only construction failures are fatal;
// anything that goes wrong inside a cycle is absorbed at the cycle
// boundary and the loop keeps going.
func (l *Loop) Run() {
	for {
		if l.queue.Empty() {
			log.Debug("queue empty, arming wake detection")
			l.startDetectors()
		}
		ev := l.queue.Pop()
		l.runCycle(ev)
	}
}

func (l *Loop) startDetectors() {
	for _, d := range l.detectors {
		d.Start()
	}
}

// runCycle handles one event. The deferred restore is the loop's
// exit-path guarantee: soft volume and hardware lines come back to
// baseline whether the cycle succeeded, failed, or panicked.
func (l *Loop) runCycle(ev queue.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Cycle panicked", "panic", r)
		}
		l.restoreBaseline()
	}()

	if ev.Reply != nil {
		log.Debug("executing planned action reply")
		if err := l.dispatcher.HandleReply(l.session, ev.Reply); err != nil {
			l.dispatchFailure(err)
		}
		return
	}

	if ev.Text != "" {
		if err := l.dispatcher.HandleQuestion(l.session, ev.Text); err != nil {
			l.dispatchFailure(err)
		}
		return
	}

	text, err := l.capture.Run(l.session)
	if err != nil {
		l.errors.Handle(fault.KindOf(err), l.session)
		return
	}
	if err := l.dispatcher.HandleQuestion(l.session, text); err != nil {
		l.dispatchFailure(err)
	}
}

// dispatchFailure routes connectivity failures to the error handler;
// everything else is logged and absorbed.
func (l *Loop) dispatchFailure(err error) {
	if fault.KindOf(err) == fault.ConnectionError {
		l.errors.Handle(fault.ConnectionError, l.session)
		return
	}
	log.Error("Error dealing with answer", "err", err)
}

func (l *Loop) restoreBaseline() {
	if err := l.player.RestoreSoftVolume(); err != nil {
		log.Warn("Failed to restore soft volume", "err", err)
	}
	l.pins.Reset()
}
