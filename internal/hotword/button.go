package hotword

// WakeButton is the physical wake-button trigger source. The hardware
// edge detection lives with the device bring-up, which calls Press on
// each press; the Gate gives it the same suspend semantics as every
// other source.
type WakeButton struct {
	Gate
}

func NewWakeButton() *WakeButton {
	return &WakeButton{}
}

func (b *WakeButton) Press() {
	b.Fire()
}
