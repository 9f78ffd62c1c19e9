package session

import (
	"encoding/binary"
	"sync"
)

const (
	// speakingThreshold is the average magnitude, on a 0-255 scale, above
	// which the user is classified as speaking. UI feedback only.
	speakingThreshold = 15.0
)

// levelMeter keeps a rolling volume estimate of the captured signal on a
// 0-255 scale, mirroring an analyser snapshot's average bin magnitude. The
// classification never gates what audio is actually transmitted.
type levelMeter struct {
	mu    sync.Mutex
	level float64
}

// Observe folds one linear16 frame into the rolling estimate.
func (m *levelMeter) Observe(pcm []byte) {
	if len(pcm) < 2 {
		return
	}

	var total float64
	samples := len(pcm) / 2
	for i := range samples {
		sample := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		if sample < 0 {
			sample = -sample
		}
		total += float64(sample)
	}
	// Mean absolute amplitude scaled from int16 range down to 0-255.
	frameLevel := total / float64(samples) / 128

	m.mu.Lock()
	// Light exponential smoothing so brief glitches don't flicker the
	// speaking indicator between polls.
	m.level = m.level*0.3 + frameLevel*0.7
	m.mu.Unlock()
}

// Level returns the current rolling estimate.
func (m *levelMeter) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Speaking classifies the current estimate against the fixed threshold.
func (m *levelMeter) Speaking() bool {
	return m.Level() > speakingThreshold
}

// Reset clears the estimate, used when capture stops.
func (m *levelMeter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = 0
}
