package scheduler

import (
	log "log/slog"
	"sync"
	"time"

	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

// Scheduler fires deferred replies back into the event stream. Each
// AddEvent arms an independent timer; on expiry the registered callback
// runs on the timer goroutine and must only enqueue.
type Scheduler struct {
	mu      sync.Mutex
	onFire  func(reply.Reply)
	timers  []*time.Timer
	stopped bool
}

func New() *Scheduler {
	return &Scheduler{}
}

// OnFire registers the single callback invoked when a planned action
// comes due. Register before the first AddEvent.
func (s *Scheduler) OnFire(fn func(reply.Reply)) {
	s.mu.Lock()
	s.onFire = fn
	s.mu.Unlock()
}

// AddEvent schedules payload to fire after delay. Delay comes straight
// from the service; zero fires immediately.
func (s *Scheduler) AddEvent(delay time.Duration, payload reply.Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	log.Debug("scheduling planned action", "delay", delay)
	t := time.AfterFunc(delay, func() {
		s.mu.Lock()
		fn := s.onFire
		stopped := s.stopped
		s.mu.Unlock()
		if stopped || fn == nil {
			return
		}
		log.Debug("planned action due")
		fn(payload)
	})
	s.timers = append(s.timers, t)
}

// Stop cancels all pending actions. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
