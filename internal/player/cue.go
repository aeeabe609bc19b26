package player

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	beepmp3 "github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// playCue voices a short MP3 cue file (detection bell, error sounds)
// and blocks until it finishes.
func playCue(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue %s: %w", path, err)
	}

	streamer, format, err := beepmp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode cue %s: %w", path, err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
