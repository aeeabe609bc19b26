package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"

	"github.com/MuhammadWasif/susi-linux/pkg/audioconv"
)

// Cloud recognizes speech through the remote transcription API. It has
// no offline path: an unreachable service is a hard failure the caller
// must classify.
type Cloud struct {
	client openai.Client
}

func NewCloud(client openai.Client) *Cloud {
	return &Cloud{client: client}
}

// Transcribe uploads the utterance as WAV and returns the transcript.
// ErrUnreachable wraps transport-level failures so the selector can map
// them to a connection fault.
func (c *Cloud) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	wavData, err := audioconv.EncodeWAV(pcm, audioconv.TargetRate)
	if err != nil {
		return "", err
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wavData), "utterance.wav", "audio/wav"),
		Model: openai.AudioModelWhisper1,
	}
	if language != "" {
		// the API wants a bare ISO-639-1 code, not a locale
		params.Language = openai.String(offlineLang(language))
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			// the service answered; the audio itself was the problem
			return "", fmt.Errorf("transcription rejected: %w", err)
		}
		return "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	return resp.Text, nil
}
