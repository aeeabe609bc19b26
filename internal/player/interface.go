package player

// Interface is the playback contract the dispatcher and control loop
// rely on. Transport controls act on the current media stream; Say and
// Beep voice short cue files and block until done.
type Interface interface {
	Volume(percent int) error
	Pause() error
	Resume() error
	Restart() error
	Next() error
	Previous() error
	Shuffle() error
	Stop() error

	// Play starts the referenced media: a local file is decoded and
	// rendered in-process, anything else is handed to the media engine.
	Play(ref string) error
	// PlayYtb streams a video by its key.
	PlayYtb(key string) error

	Say(path string) error
	Beep(path string) error

	// RestoreSoftVolume undoes ducking of foreign streams. The control
	// loop calls it unconditionally at the end of every cycle.
	RestoreSoftVolume() error
}
