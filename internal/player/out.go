package player

import (
	"github.com/gordonklaus/portaudio"

	"github.com/MuhammadWasif/susi-linux/pkg/audioconv"
)

// playFile decodes a local media file to PCM and renders it through the
// default output stream. Blocks until playback completes.
func playFile(path string) error {
	pcm, err := audioconv.DecodeFile(path)
	if err != nil {
		return err
	}
	return playPCM(pcm)
}

func playPCM(pcm []float32) error {
	const frameSize = 1024

	buf := make([]float32, frameSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, audioconv.TargetRate, len(buf), buf)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	for off := 0; off < len(pcm); off += frameSize {
		end := off + frameSize
		if end > len(pcm) {
			end = len(pcm)
		}
		n := copy(buf, pcm[off:end])
		for i := n; i < frameSize; i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			return err
		}
	}
	return nil
}
