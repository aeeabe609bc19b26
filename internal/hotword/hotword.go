// Package hotword defines the wake-trigger contract. Concrete hotword
// engines are external processes; the core only starts and stops
// listening and receives a single-shot callback per detection.
package hotword

import (
	log "log/slog"
	"sync"
)

// Detector is one wake-trigger source. OnTrigger registers the single
// callback; it must do nothing beyond enqueueing an event. Triggers
// arriving while the detector is stopped are dropped — capture and
// wake detection are never active at the same time.
type Detector interface {
	Start()
	Stop()
	OnTrigger(fn func())
}

// Gate is the shared start/stop gating embedded by detector
// implementations.
type Gate struct {
	mu      sync.Mutex
	armed   bool
	trigger func()
}

func (g *Gate) Start() {
	g.mu.Lock()
	g.armed = true
	g.mu.Unlock()
}

func (g *Gate) Stop() {
	g.mu.Lock()
	g.armed = false
	g.mu.Unlock()
}

func (g *Gate) OnTrigger(fn func()) {
	g.mu.Lock()
	g.trigger = fn
	g.mu.Unlock()
}

// Fire invokes the callback if the detector is armed.
func (g *Gate) Fire() {
	g.mu.Lock()
	fn := g.trigger
	armed := g.armed
	g.mu.Unlock()

	if !armed {
		log.Debug("trigger while detection suspended, dropping")
		return
	}
	if fn != nil {
		fn()
	}
}
