package session

import (
	"context"

	"github.com/vela-voice/vela-core/core/audio"
	"github.com/vela-voice/vela-core/core/events"
	"github.com/vela-voice/vela-core/core/scoring"
	"github.com/vela-voice/vela-core/core/transcript"
	"github.com/vela-voice/vela-core/core/transport"
)

type SessionOption func(*Session)

// AudioInput captures microphone frames. Stream blocks until the context is
// cancelled or the device fails, delivering raw PCM16 frames to onAudio.
type AudioInput interface {
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	EncodingInfo() audio.EncodingInfo
}

func WithAudioInput(client AudioInput) SessionOption {
	return func(s *Session) { s.capture = newCapturePipeline(client) }
}

// AudioOutput renders PCM16 audio on the local playback device.
type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
}

func WithAudioOutput(client AudioOutput) SessionOption {
	return func(s *Session) { s.scheduler = newPlaybackScheduler(client) }
}

// Transport is the live duplex connection to the remote voice model.
type Transport interface {
	SendAudio(pcm []byte, encoding audio.EncodingInfo) error
	SendToolResponse(response events.ToolCallResponded) error
	Close() error
}

// TransportDialer opens the remote connection at Connect time. The default
// dialer opens a realtime websocket; tests substitute in-memory transports.
type TransportDialer func(ctx context.Context, opts ...transport.Option) (Transport, error)

func WithTransportDialer(dial TransportDialer) SessionOption {
	return func(s *Session) {
		if dial != nil {
			s.dialTransport = dial
		}
	}
}

func WithScene(scene Scene) SessionOption {
	return func(s *Session) { s.initialScene = scene }
}

func WithPersona(persona Persona) SessionOption {
	return func(s *Session) { s.initialPersona = persona }
}

func WithInstructions(instructions string) SessionOption {
	return func(s *Session) { s.instructions = instructions }
}

// WithAnalyzer configures post-session scoring. Without one the session
// reports a placeholder scorecard after disconnect.
func WithAnalyzer(analyzer scoring.Analyzer) SessionOption {
	return func(s *Session) { s.analyzer = analyzer }
}

// RunOptions carries the per-connection callbacks. Callbacks are invoked
// from session goroutines and should not block.
type RunOptions struct {
	onOutboundAudio        func(audio []byte)
	onUserPartial          func(text string)
	onAgentPartial         func(text string)
	onSpeakingStateChanged func(speaking bool)
	onTurnFlushed          func(turn transcript.Turn)
	onInterruption         func()
	onToolApplied          func(name string, result map[string]any)
	onStateChanged         func(state State)
	onScorecardReady       func(scorecard scoring.Scorecard)
}

type RunOption func(*RunOptions)

// WithOutboundAudioCallback registers a callback observing every microphone
// frame forwarded to the remote model. Muted frames never reach it.
func WithOutboundAudioCallback(callback func(audio []byte)) RunOption {
	return func(o *RunOptions) {
		o.onOutboundAudio = callback
	}
}

// WithUserPartialCallback registers a callback for the user's in-progress
// utterance. It fires on every fragment and with an empty string on flush.
func WithUserPartialCallback(callback func(text string)) RunOption {
	return func(o *RunOptions) {
		o.onUserPartial = callback
	}
}

// WithAgentPartialCallback registers a callback for the agent's in-progress
// utterance. It fires on every fragment and with an empty string on flush.
func WithAgentPartialCallback(callback func(text string)) RunOption {
	return func(o *RunOptions) {
		o.onAgentPartial = callback
	}
}

func WithSpeakingStateChangedCallback(callback func(speaking bool)) RunOption {
	return func(o *RunOptions) {
		o.onSpeakingStateChanged = callback
	}
}

// WithTurnFlushedCallback registers a callback for every finalized turn
// appended to the transcript, in transcript order.
func WithTurnFlushedCallback(callback func(turn transcript.Turn)) RunOption {
	return func(o *RunOptions) {
		o.onTurnFlushed = callback
	}
}

// WithInterruptionCallback registers a callback fired when the remote model
// reports the user barged in over agent playback.
func WithInterruptionCallback(callback func()) RunOption {
	return func(o *RunOptions) {
		o.onInterruption = callback
	}
}

// WithToolAppliedCallback registers a callback fired after a control tool
// call was validated and applied.
func WithToolAppliedCallback(callback func(name string, result map[string]any)) RunOption {
	return func(o *RunOptions) {
		o.onToolApplied = callback
	}
}

func WithStateChangedCallback(callback func(state State)) RunOption {
	return func(o *RunOptions) {
		o.onStateChanged = callback
	}
}

// WithScorecardCallback registers a callback for the post-session scorecard,
// fired exactly once per connection after disconnect.
func WithScorecardCallback(callback func(scorecard scoring.Scorecard)) RunOption {
	return func(o *RunOptions) {
		o.onScorecardReady = callback
	}
}
