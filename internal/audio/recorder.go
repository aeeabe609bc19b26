package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// ErrListenTimeout is returned when no speech starts within the wait
// window. The capture pipeline translates it into a ListenTimeout
// fault; recognition is never invoked in that case.
var ErrListenTimeout = errors.New("no speech within wait timeout")

const (
	sampleRate       = 16000
	frameSize        = 320 // 20ms
	silenceThreshRMS = 0.015
	silenceDuration  = 600 * time.Millisecond
)

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Listen opens the default input stream as a scoped resource and
// captures one utterance: speech must start within waitTimeout, then
// recording continues until a silence gap or phraseLimit. The stream is
// released on every exit path.
func (r *Recorder) Listen(waitTimeout, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	const frameDur = frameSize * time.Second / sampleRate
	waitFrames := int(waitTimeout / frameDur)
	phraseFrames := int(phraseLimit / frameDur)
	maxSilence := int(silenceDuration / frameDur)

	for i := 0; ; i++ {
		if !speaking && i >= waitFrames {
			return nil, ErrListenTimeout
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > silenceThreshRMS {
			if !speaking {
				speaking = true
				// phrase limit counts from speech start
				phraseFrames += i
			}
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if silenceFrames >= maxSilence {
				break
			}
			out = append(out, buf...)
		}

		if speaking && i >= phraseFrames {
			break
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
