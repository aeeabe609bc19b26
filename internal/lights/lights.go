package lights

import log "log/slog"

// Interface is the visual indicator contract. Implementations live
// with the hardware bring-up; a logging fallback covers devices
// without an indicator.
type Interface interface {
	Off()
	Think()
	Speak()
	Wakeup()
}

// Pins drives the two raw output lines: one raised while the device is
// listening, one while it speaks. Reset drops both and must be safe to
// call at any time; the control loop invokes it after every cycle.
type Pins interface {
	SetListening(on bool)
	SetSpeaking(on bool)
	Reset()
}

// Logging is the fallback indicator for devices without lights.
type Logging struct{}

func (Logging) Off()    { log.Debug("lights off") }
func (Logging) Think()  { log.Debug("lights think") }
func (Logging) Speak()  { log.Debug("lights speak") }
func (Logging) Wakeup() { log.Debug("lights wakeup") }

// NoPins is the fallback for devices without GPIO lines.
type NoPins struct{}

func (NoPins) SetListening(bool) {}
func (NoPins) SetSpeaking(bool)  {}
func (NoPins) Reset()            {}
