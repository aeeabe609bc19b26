package audioconv

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV renders mono float32 PCM into a 16-bit WAV file in memory,
// the shape the cloud recognizer upload expects.
func EncodeWAV(pcm []float32, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		sampleRate = TargetRate
	}

	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(clamp(float64(v), -1, 1) * 32767)
	}

	var buf bytes.Buffer
	enc := wav.NewEncoder(&writeSeeker{buf: &buf}, sampleRate, 16, 1, 1)
	if err := enc.Write(&gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSeeker adapts a bytes.Buffer for the wav encoder, which seeks
// back to patch the RIFF header on Close.
type writeSeeker struct {
	buf *bytes.Buffer
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	if ws.pos == ws.buf.Len() {
		n, err := ws.buf.Write(p)
		ws.pos += n
		return n, err
	}
	b := ws.buf.Bytes()
	n := copy(b[ws.pos:], p)
	if n < len(p) {
		m, err := ws.buf.Write(p[n:])
		ws.pos += n + m
		return n + m, err
	}
	ws.pos += n
	return n, nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int
	switch whence {
	case io.SeekStart:
		abs = int(offset)
	case io.SeekCurrent:
		abs = ws.pos + int(offset)
	case io.SeekEnd:
		abs = ws.buf.Len() + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative seek position")
	}
	ws.pos = abs
	return int64(abs), nil
}

// toMono16k downmixes interleaved channels and resamples to the target
// rate in one pass over the helpers below.
func toMono16k(in []float32, channels, sampleRate int) []float32 {
	if channels > 1 {
		in = downmix(in, channels)
	}
	if sampleRate != TargetRate {
		in = resampleLinear(in, sampleRate, TargetRate)
	}
	return in
}

func downmix(in []float32, channels int) []float32 {
	nFrames := len(in) / channels
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		sum := 0.0
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, inSR, outSR int) []float32 {
	if inSR == outSR || len(in) == 0 {
		return in
	}
	ratio := float64(outSR) / float64(inSR)
	outN := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, outN)
	for i := 0; i < outN; i++ {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		i1 := i0 + 1
		if i0 >= len(in) {
			out[i] = in[len(in)-1]
			continue
		}
		if i1 >= len(in) {
			out[i] = in[i0]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i1]*a
	}
	return out
}

func intToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1, 1))
	}
	return out
}

func int16ToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	const scale = 1.0 / 32768.0
	for i, v := range data {
		out[i] = float32(float64(v) * scale)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
