package session

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/vela-voice/vela-core/core/audio"
	"github.com/vela-voice/vela-core/core/events"
)

type audioInputStub struct {
	frames    chan []byte
	closed    int
	streamErr error
}

func (s *audioInputStub) Stream(ctx context.Context, onFrame func([]byte)) error {
	if s.streamErr != nil {
		return s.streamErr
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-s.frames:
			if !ok {
				return nil
			}
			onFrame(frame)
		}
	}
}

func (s *audioInputStub) Close() error {
	s.closed++
	return nil
}

func (s *audioInputStub) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func loudFrame(samples int) []byte {
	pcm := make([]byte, samples*2)
	for i := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(16000)))
	}
	return pcm
}

func TestCaptureForwardsFramesWhenUnmuted(t *testing.T) {
	input := &audioInputStub{frames: make(chan []byte, 4)}
	pipeline := newCapturePipeline(input)

	forwarded := make(chan []byte, 4)
	pipeline.SetEventEmitter(func(event events.Event) {
		if frame, ok := event.(events.UserAudioFrame); ok {
			forwarded <- frame.Audio
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pipeline.Start(ctx); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	input.frames <- loudFrame(captureFrameSamples)

	select {
	case frame := <-forwarded:
		if len(frame) != captureFrameSamples*2 {
			t.Fatalf("expected %d-byte frame, got %d", captureFrameSamples*2, len(frame))
		}
	case <-time.After(time.Second):
		t.Fatalf("expected frame to be forwarded")
	}
}

func TestMutedFramesAreDroppedNotSilenced(t *testing.T) {
	input := &audioInputStub{frames: make(chan []byte, 4)}
	pipeline := newCapturePipeline(input)

	forwarded := make(chan []byte, 4)
	pipeline.SetEventEmitter(func(event events.Event) {
		if frame, ok := event.(events.UserAudioFrame); ok {
			forwarded <- frame.Audio
		}
	})
	pipeline.SetMuted(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pipeline.Start(ctx); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	input.frames <- loudFrame(captureFrameSamples)

	select {
	case <-forwarded:
		t.Fatalf("expected muted frame to be dropped, not forwarded")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMutedFramesStillFeedTheLevelMeter(t *testing.T) {
	pipeline := newCapturePipeline(nil)
	pipeline.SetMuted(true)

	pipeline.onFrame(loudFrame(1024))

	if pipeline.meter.Level() <= speakingThreshold {
		t.Fatalf("expected loud muted frame to raise the level estimate, got %f", pipeline.meter.Level())
	}
}

func TestStopIsIdempotentAndReleasesDevice(t *testing.T) {
	input := &audioInputStub{frames: make(chan []byte)}
	pipeline := newCapturePipeline(input)

	if err := pipeline.Stop(); err != nil {
		t.Fatalf("expected stop to succeed, got %v", err)
	}
	if err := pipeline.Stop(); err != nil {
		t.Fatalf("expected repeated stop to succeed, got %v", err)
	}

	if input.closed != 1 {
		t.Fatalf("expected device released exactly once, got %d", input.closed)
	}
}

func TestStartWithoutInputIsListenOnly(t *testing.T) {
	pipeline := newCapturePipeline(nil)

	if err := pipeline.Start(context.Background()); err != nil {
		t.Fatalf("expected unconfigured start to be a no-op, got %v", err)
	}
	if pipeline.IsCapturing() {
		t.Fatalf("expected pipeline to report not capturing without a device")
	}
}

func TestLevelMeterClassifiesSpeakingAgainstThreshold(t *testing.T) {
	meter := levelMeter{}

	quiet := make([]byte, 2048)
	meter.Observe(quiet)
	if meter.Speaking() {
		t.Fatalf("expected silence to classify as not speaking, level %f", meter.Level())
	}

	meter.Observe(loudFrame(1024))
	if !meter.Speaking() {
		t.Fatalf("expected loud frame to classify as speaking, level %f", meter.Level())
	}
}
