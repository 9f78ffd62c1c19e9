package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vela-voice/vela-core/core/audio"
)

var ErrSchedulerClosed = errors.New("playback scheduler closed")

// audioSegment is one decoded span of synthesized speech: normalized float
// samples owned exclusively by the scheduler between decode and playback
// completion.
type audioSegment struct {
	samples    []float32
	sampleRate int
	channels   int
}

func (s audioSegment) duration() time.Duration {
	return pcmDuration(len(s.samples)*2, s.sampleRate, s.channels)
}

func pcmDuration(pcmBytes, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	if channels == 0 {
		channels = 1
	}

	frames := pcmBytes / 2 / channels
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

// scheduledSource is a live handle to a segment queued or playing. It exists
// from hand-off until natural completion or forced stop.
type scheduledSource struct {
	id       string
	start    time.Time
	duration time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

// stop force-stops the source. Stopping an already-stopped or already
// finished source is a no-op.
func (s *scheduledSource) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// playbackScheduler owns the monotonically advancing "next play time" cursor
// and schedules decoded segments back-to-back with no gap or overlap.
//
// The cursor and the live-source set are mutated only through Enqueue,
// Interrupt, and source completion, all under one mutex: that is the sole
// synchronization boundary between the control-event context and the
// playback-completion context. Cursor arithmetic happens synchronously in
// Enqueue so enqueue order defines schedule order; only the sample
// conversion and the playout wait run in the background, tagged with an
// epoch so results arriving after an interrupt are discarded.
type playbackScheduler struct {
	mu sync.Mutex

	output AudioOutput

	// cursor is the earliest time the next segment may start. Zero means
	// unset, so the next segment starts immediately.
	cursor time.Time
	// epoch invalidates in-flight decodes; bumped on every interrupt.
	epoch uint64

	live map[string]*scheduledSource

	closed bool

	now func() time.Time
}

func newPlaybackScheduler(output AudioOutput) *playbackScheduler {
	return &playbackScheduler{
		output: output,
		live:   map[string]*scheduledSource{},
		now:    time.Now,
	}
}

// Enqueue unwraps the chunk framing, reserves a slot at max(cursor, now),
// advances the cursor by the segment duration, and hands the segment to a
// background playout worker. Malformed base64 is a hard error; nothing is
// scheduled and the caller decides what to drop.
//
// Duplicate chunks are not deduplicated: the remote stream is trusted, and
// a duplicate enqueue produces duplicate audible audio.
func (s *playbackScheduler) Enqueue(chunk audio.Chunk) (time.Duration, error) {
	pcm, err := chunk.UnmarshalChunk()
	if err != nil {
		return 0, err
	}

	info := audio.ParseMIMEType(chunk.MIMEType)
	channels := info.Channels
	if channels == 0 {
		channels = 1
	}
	duration := pcmDuration(len(pcm), info.SampleRate, channels)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrSchedulerClosed
	}

	now := s.now()
	start := now
	if s.cursor.After(now) {
		start = s.cursor
	}
	s.cursor = start.Add(duration)

	source := &scheduledSource{
		id:       uuid.NewString(),
		start:    start,
		duration: duration,
		stopCh:   make(chan struct{}),
	}
	s.live[source.id] = source
	epoch := s.epoch
	s.mu.Unlock()

	go s.playout(source, audioSegment{samples: audio.DecodeFrames(pcm), sampleRate: info.SampleRate, channels: channels}, epoch)

	return duration, nil
}

// playout waits for the source's start time, hands the re-encoded samples to
// the output device, then waits out the segment duration before retiring the
// source. A stop or a stale epoch at any point means the segment never
// starts, or is already being cut off at the device by ClearBuffer.
func (s *playbackScheduler) playout(source *scheduledSource, segment audioSegment, epoch uint64) {
	defer s.completeSource(source.id)

	startTimer := time.NewTimer(time.Until(source.start))
	defer startTimer.Stop()
	select {
	case <-source.stopCh:
		return
	case <-startTimer.C:
	}

	s.mu.Lock()
	output := s.output
	if s.closed || epoch != s.epoch || output == nil {
		s.mu.Unlock()
		return
	}
	// The hand-off shares the lock with the epoch check, so an interrupt
	// either lands before the check or runs ClearBuffer only after the
	// segment is in the device buffer where it can be cut.
	err := output.SendAudio(audio.EncodeFrames(segment.samples))
	s.mu.Unlock()
	if err != nil {
		logger.Warn("failed to hand segment to audio output", "error", err)
		return
	}

	doneTimer := time.NewTimer(source.duration)
	defer doneTimer.Stop()
	select {
	case <-source.stopCh:
	case <-doneTimer.C:
	}
}

func (s *playbackScheduler) completeSource(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
}

// Interrupt force-stops every live source, clears the live set, and resets
// the cursor so the next enqueue starts immediately. Safe to call repeatedly
// and with zero live sources.
func (s *playbackScheduler) Interrupt() {
	s.mu.Lock()
	s.epoch++
	for id, source := range s.live {
		source.stop()
		delete(s.live, id)
	}
	s.cursor = time.Time{}
	output := s.output
	s.mu.Unlock()

	if output != nil {
		output.ClearBuffer()
	}
}

// Teardown interrupts playback and releases the output device. Idempotent.
func (s *playbackScheduler) Teardown() error {
	s.Interrupt()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	output := s.output
	s.mu.Unlock()

	if output == nil {
		return nil
	}

	switch c := output.(type) {
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to release audio output: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}

// LiveCount reports the number of currently queued or playing sources.
func (s *playbackScheduler) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *playbackScheduler) cursorSnapshot() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}
