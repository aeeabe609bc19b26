// Package player renders everything the device says or plays: cue
// sounds, synthesized speech files, and media streams.
package player

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/MuhammadWasif/susi-linux/internal/audio"
)

// duckFactor is how far foreign streams are scaled down while a cue or
// spoken answer plays.
const duckFactor = 0.25

// Local is the on-device player. Remote media goes through the media
// engine; local files are decoded in-process.
type Local struct {
	media *mpv
	soft  *audio.SoftVolume
}

func NewLocal(soft *audio.SoftVolume) *Local {
	return &Local{media: newMPV(), soft: soft}
}

// Volume sets the master output volume via the default sink.
func (l *Local) Volume(percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	log.Info("Setting volume", "percent", percent)
	cmd := exec.Command("pactl", "set-sink-volume", "@DEFAULT_SINK@",
		strconv.Itoa(percent)+"%")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("set sink volume: %w", err)
	}
	return nil
}

func (l *Local) Pause() error   { return l.media.setPause(true) }
func (l *Local) Resume() error  { return l.media.setPause(false) }
func (l *Local) Restart() error { return l.media.seekStart() }
func (l *Local) Next() error    { return l.media.playlistNext() }
func (l *Local) Previous() error {
	return l.media.playlistPrev()
}
func (l *Local) Shuffle() error { return l.media.playlistShuffle() }
func (l *Local) Stop() error    { return l.media.stop() }

func (l *Local) Play(ref string) error {
	log.Info("Playing", "ref", ref)
	if !strings.Contains(ref, "://") {
		if _, err := os.Stat(ref); err == nil {
			return playFile(ref)
		}
	}
	return l.media.playMedia(ref)
}

func (l *Local) PlayYtb(key string) error {
	log.Info("Playing stream", "key", key)
	return l.media.playMedia("https://www.youtube.com/watch?v=" + key)
}

// Say and Beep duck foreign streams first so the cue is audible over
// running media. The control loop restores the ducked streams at the
// end of the cycle.
func (l *Local) Say(path string) error {
	l.duck()
	return playCue(path)
}

func (l *Local) Beep(path string) error {
	l.duck()
	return playCue(path)
}

func (l *Local) duck() {
	if l.soft == nil {
		return
	}
	if err := l.soft.Duck(context.Background(), duckFactor); err != nil {
		log.Warn("Failed to duck playback streams", "err", err)
	}
}

func (l *Local) RestoreSoftVolume() error {
	if l.soft == nil {
		return nil
	}
	return l.soft.Restore(context.Background())
}
