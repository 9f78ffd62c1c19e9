// Package miniaudio provides microphone capture and speaker playback through
// the malgo bindings. A single Duplex client owns the malgo context and both
// devices, and satisfies the session's audio input and output interfaces.
package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/vela-voice/vela-core/core/audio"
)

type Duplex struct {
	// audioContext is only held so it can be uninitialized on Close.
	audioContext *malgo.AllocatedContext

	playback playbackDevice
	capture  captureDevice
}

// NewDuplex initializes the malgo context and both devices. Playback starts
// immediately; capture starts when Stream is called.
func NewDuplex() (*Duplex, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Duplex{audioContext: audioCtx}

	if err := client.playback.init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	if err := client.playback.start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}
	if err := client.capture.init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return &client, nil
}

// Stream starts the capture device and blocks until the context is
// cancelled, delivering raw PCM16 frames to onAudio from the device thread.
func (c *Duplex) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.capture.start(onAudio); err != nil {
		return err
	}

	<-ctx.Done()
	return c.capture.stop()
}

func (c *Duplex) SendAudio(audio []byte) error {
	return c.playback.sendAudio(audio)
}

func (c *Duplex) ClearBuffer() {
	c.playback.clearBuffer()
}

func (c *Duplex) Close() {
	_ = c.capture.uninit()
	_ = c.playback.uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

func (c *Duplex) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
		Channels:   1,
	}
}
