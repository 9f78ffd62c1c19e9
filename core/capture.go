package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vela-voice/vela-core/core/audio"
	"github.com/vela-voice/vela-core/core/events"
)

const (
	// captureFrameSamples is the conventional frame size pulled from the
	// device per callback at the default 16 kHz rate.
	captureFrameSamples = 4096

	// levelPollInterval is how often the voice-activity estimate is
	// re-classified.
	levelPollInterval = 100 * time.Millisecond
)

// capturePipeline pulls fixed-size microphone frames from the configured
// input client, gates them on the mute flag, and emits the surviving frames
// as outbound audio events. A separate polling loop classifies the rolling
// volume estimate for UI feedback; that classification never decides what is
// transmitted.
type capturePipeline struct {
	// base stores the configured input client used for streaming frames.
	base AudioInput

	muted     atomic.Bool
	capturing atomic.Bool

	meter    levelMeter
	speaking atomic.Bool

	emitEvent eventEmitter

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newCapturePipeline(client AudioInput) *capturePipeline {
	return &capturePipeline{
		base:      client,
		emitEvent: noopEventEmitter,
		stopCh:    make(chan struct{}),
	}
}

func (c *capturePipeline) SetEventEmitter(emitEvent eventEmitter) {
	if c == nil {
		return
	}

	if emitEvent != nil {
		c.emitEvent = emitEvent
	} else {
		c.emitEvent = noopEventEmitter
	}
}

func (c *capturePipeline) IsConfigured() bool { return c != nil && c.base != nil }
func (c *capturePipeline) IsCapturing() bool  { return c != nil && c.capturing.Load() }
func (c *capturePipeline) IsMuted() bool      { return c != nil && c.muted.Load() }

// SetMuted gates frame forwarding. Muted frames are dropped entirely: no
// silent frame is synthesized in their place.
func (c *capturePipeline) SetMuted(muted bool) {
	if c == nil {
		return
	}

	c.muted.Store(muted)
}

// Start wires the device frame callback and the voice-activity poll loop.
// A device fault is reported but leaves the session usable in listen-only
// mode.
func (c *capturePipeline) Start(ctx context.Context) error {
	if !c.IsConfigured() {
		return nil
	}

	if !c.capturing.CompareAndSwap(false, true) {
		return nil
	}

	go func() {
		if err := c.base.Stream(ctx, c.onFrame); err != nil {
			c.capturing.Store(false)
			logger.Warn("microphone capture unavailable, continuing listen-only", "error", err)
		}
	}()
	go c.pollLevel(ctx)

	return nil
}

func (c *capturePipeline) onFrame(pcm []byte) {
	c.meter.Observe(pcm)

	if c.muted.Load() {
		return
	}

	c.emitEvent(events.NewUserAudioFrame(pcm))
}

func (c *capturePipeline) pollLevel(ctx context.Context) {
	ticker := time.NewTicker(levelPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			speaking := c.meter.Speaking()
			if c.speaking.CompareAndSwap(!speaking, speaking) {
				c.emitEvent(events.NewUserSpeakingChanged(speaking))
			}
		}
	}
}

// Stop disconnects the frame callback and releases the capture device.
// Idempotent.
func (c *capturePipeline) Stop() error {
	if c == nil {
		return nil
	}

	var err error
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.capturing.Store(false)
		c.meter.Reset()

		if c.base == nil {
			return
		}
		switch client := c.base.(type) {
		case interface{ Close() error }:
			err = client.Close()
		case interface{ Close() }:
			client.Close()
		}
	})

	return err
}

// EncodingInfo reports the input client's encoding, falling back to the
// project default when unconfigured.
func (c *capturePipeline) EncodingInfo() audio.EncodingInfo {
	if c == nil || c.base == nil {
		return audio.GetDefaultEncodingInfo()
	}

	return c.base.EncodingInfo()
}
