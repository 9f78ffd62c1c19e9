package session

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/vela-voice/vela-core/core/audio"
)

type audioOutputStub struct {
	mu      sync.Mutex
	sent    [][]byte
	cleared int
	closed  int
}

func (o *audioOutputStub) SendAudio(pcm []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, pcm)
	return nil
}

func (o *audioOutputStub) ClearBuffer() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleared++
}

func (o *audioOutputStub) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed++
	return nil
}

func (o *audioOutputStub) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

// chunkOfDuration builds a framed linear16 chunk whose payload lasts the
// given duration at 16 kHz mono.
func chunkOfDuration(duration time.Duration) audio.Chunk {
	samples := int(float64(duration) / float64(time.Second) * audio.DefaultSampleRate)
	return audio.MarshalChunk(make([]byte, samples*2), audio.GetDefaultEncodingInfo())
}

func TestEnqueueSchedulesBackToBackWithoutGapOrOverlap(t *testing.T) {
	scheduler := newPlaybackScheduler(&audioOutputStub{})
	base := time.Now().Add(time.Hour)
	scheduler.now = func() time.Time { return base }

	durations := []time.Duration{100 * time.Millisecond, 40 * time.Millisecond, 250 * time.Millisecond}
	for _, duration := range durations {
		got, err := scheduler.Enqueue(chunkOfDuration(duration))
		if err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
		if got != duration {
			t.Fatalf("expected reported duration %s, got %s", duration, got)
		}
	}

	scheduler.mu.Lock()
	starts := make([]time.Time, 0, len(scheduler.live))
	for _, source := range scheduler.live {
		starts = append(starts, source.start)
	}
	scheduler.mu.Unlock()
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	if len(starts) != 3 {
		t.Fatalf("expected 3 live sources, got %d", len(starts))
	}
	if !starts[0].Equal(base) {
		t.Fatalf("expected first segment to start at now, got offset %s", starts[0].Sub(base))
	}
	if !starts[1].Equal(base.Add(durations[0])) {
		t.Fatalf("expected second start at %s after base, got %s", durations[0], starts[1].Sub(base))
	}
	if !starts[2].Equal(base.Add(durations[0] + durations[1])) {
		t.Fatalf("expected third start at %s after base, got %s", durations[0]+durations[1], starts[2].Sub(base))
	}

	expectedCursor := base.Add(durations[0] + durations[1] + durations[2])
	if !scheduler.cursorSnapshot().Equal(expectedCursor) {
		t.Fatalf("expected cursor at %s after base, got %s", expectedCursor.Sub(base), scheduler.cursorSnapshot().Sub(base))
	}
}

func TestEnqueueNeverSchedulesBeforeNow(t *testing.T) {
	scheduler := newPlaybackScheduler(&audioOutputStub{})
	base := time.Now().Add(time.Hour)
	scheduler.now = func() time.Time { return base }

	// A stale cursor in the past must not pull the start before now.
	scheduler.mu.Lock()
	scheduler.cursor = base.Add(-time.Second)
	scheduler.mu.Unlock()

	if _, err := scheduler.Enqueue(chunkOfDuration(50 * time.Millisecond)); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	for _, source := range scheduler.live {
		if source.start.Before(base) {
			t.Fatalf("expected start at or after now, got %s before", base.Sub(source.start))
		}
	}
}

func TestInterruptEmptiesLiveSetAndResetsCursor(t *testing.T) {
	output := &audioOutputStub{}
	scheduler := newPlaybackScheduler(output)
	base := time.Now().Add(time.Hour)
	scheduler.now = func() time.Time { return base }

	for range 4 {
		if _, err := scheduler.Enqueue(chunkOfDuration(200 * time.Millisecond)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if scheduler.LiveCount() != 4 {
		t.Fatalf("expected 4 live sources before interrupt, got %d", scheduler.LiveCount())
	}

	scheduler.Interrupt()

	if scheduler.LiveCount() != 0 {
		t.Fatalf("expected zero live sources after interrupt, got %d", scheduler.LiveCount())
	}
	if !scheduler.cursorSnapshot().IsZero() {
		t.Fatalf("expected cursor reset after interrupt, got %s", scheduler.cursorSnapshot())
	}
	if output.cleared != 1 {
		t.Fatalf("expected output buffer cleared once, got %d", output.cleared)
	}

	// The next enqueue starts at now rather than behind the old queue.
	if _, err := scheduler.Enqueue(chunkOfDuration(30 * time.Millisecond)); err != nil {
		t.Fatalf("expected enqueue after interrupt to succeed, got %v", err)
	}
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	for _, source := range scheduler.live {
		if !source.start.Equal(base) {
			t.Fatalf("expected post-interrupt start at now, got offset %s", source.start.Sub(base))
		}
	}
}

func TestInterruptIsSafeRepeatedlyAndWithNoSources(t *testing.T) {
	scheduler := newPlaybackScheduler(&audioOutputStub{})

	scheduler.Interrupt()
	scheduler.Interrupt()

	if scheduler.LiveCount() != 0 {
		t.Fatalf("expected no live sources, got %d", scheduler.LiveCount())
	}
}

func TestStaleEpochSegmentNeverReachesOutput(t *testing.T) {
	output := &audioOutputStub{}
	scheduler := newPlaybackScheduler(output)

	// Segment scheduled comfortably in the future, then interrupted before
	// its start time: the playout worker must drop it.
	scheduler.now = func() time.Time { return time.Now().Add(50 * time.Millisecond) }
	if _, err := scheduler.Enqueue(chunkOfDuration(20 * time.Millisecond)); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	scheduler.Interrupt()

	time.Sleep(120 * time.Millisecond)

	output.mu.Lock()
	defer output.mu.Unlock()
	if len(output.sent) != 0 {
		t.Fatalf("expected no audio handed to output after interrupt, got %d segments", len(output.sent))
	}
}

// gatedAudioOutput blocks inside SendAudio until released so a test can
// pin a playout worker mid hand-off.
type gatedAudioOutput struct {
	mu      sync.Mutex
	calls   []string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (o *gatedAudioOutput) SendAudio([]byte) error {
	o.once.Do(func() { close(o.entered) })
	<-o.release
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, "send")
	return nil
}

func (o *gatedAudioOutput) ClearBuffer() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, "clear")
}

func (o *gatedAudioOutput) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (o *gatedAudioOutput) callOrder() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string{}, o.calls...)
}

func TestInterruptWaitsForInFlightHandOff(t *testing.T) {
	output := &gatedAudioOutput{entered: make(chan struct{}), release: make(chan struct{})}
	scheduler := newPlaybackScheduler(output)

	if _, err := scheduler.Enqueue(chunkOfDuration(200 * time.Millisecond)); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	select {
	case <-output.entered:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the hand-off to begin")
	}

	// Interrupt while the segment is being handed to the device: the clear
	// must not run before the segment is in the buffer, or the audio would
	// survive the interrupt and play in full.
	interrupted := make(chan struct{})
	go func() {
		scheduler.Interrupt()
		close(interrupted)
	}()
	time.Sleep(20 * time.Millisecond)
	close(output.release)

	select {
	case <-interrupted:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interrupt to return")
	}

	order := output.callOrder()
	if len(order) != 2 || order[0] != "send" || order[1] != "clear" {
		t.Fatalf("expected the delivered segment cleared after hand-off, got %v", order)
	}
}

func TestMalformedChunkIsAHardError(t *testing.T) {
	scheduler := newPlaybackScheduler(&audioOutputStub{})

	if _, err := scheduler.Enqueue(audio.Chunk{Data: "!!definitely not base64!!"}); err == nil {
		t.Fatalf("expected malformed chunk to surface an error")
	}
	if scheduler.LiveCount() != 0 {
		t.Fatalf("expected nothing scheduled for a malformed chunk")
	}
}

func TestTeardownReleasesOutputOnce(t *testing.T) {
	output := &audioOutputStub{}
	scheduler := newPlaybackScheduler(output)

	if err := scheduler.Teardown(); err != nil {
		t.Fatalf("expected teardown to succeed, got %v", err)
	}
	if err := scheduler.Teardown(); err != nil {
		t.Fatalf("expected repeated teardown to succeed, got %v", err)
	}

	if output.closed != 1 {
		t.Fatalf("expected output closed exactly once, got %d", output.closed)
	}
	if _, err := scheduler.Enqueue(chunkOfDuration(10 * time.Millisecond)); err != ErrSchedulerClosed {
		t.Fatalf("expected ErrSchedulerClosed after teardown, got %v", err)
	}
}
