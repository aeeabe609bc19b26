package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep"
	beepmp3 "github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	openai "github.com/openai/openai-go/v3"

	"github.com/MuhammadWasif/susi-linux/internal/fault"
)

// Cloud synthesizes through the remote speech API and plays the
// returned MP3 stream on the default output device.
type Cloud struct {
	client openai.Client
	voice  openai.AudioSpeechNewParamsVoice
}

func NewCloud(client openai.Client) *Cloud {
	return &Cloud{client: client, voice: openai.AudioSpeechNewParamsVoiceAlloy}
}

func (c *Cloud) Speak(ctx context.Context, text, _ string) error {
	if text == "" {
		return nil
	}

	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input: text,
		Model: openai.SpeechModelTTS1,
		Voice: c.voice,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return fmt.Errorf("speech synthesis rejected: %w", err)
		}
		return fault.Errorf(fault.ConnectionError, "speech service: %w", err)
	}
	defer resp.Body.Close()

	return playMP3(resp.Body)
}

func playMP3(r io.ReadCloser) error {
	streamer, format, err := beepmp3.Decode(r)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
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
