// Package session implements the core of a realtime duplex voice session:
// microphone capture feeding the remote voice model, gapless scheduling of
// returned agent audio, turn aggregation into a transcript, control tool
// routing, and post-session scoring.
//
// A Session carries one connection from Connect through Disconnect. Create a
// new Session to start another conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vela-voice/vela-core/core/events"
	"github.com/vela-voice/vela-core/core/scoring"
	"github.com/vela-voice/vela-core/core/transcript"
	"github.com/vela-voice/vela-core/core/transport"
	"github.com/vela-voice/vela-core/core/transport/realtime"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State names a phase of the session lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosing    State = "closing"
	StateAnalyzing  State = "analyzing"
)

var (
	// ErrSessionActive is returned by Connect when a connection is already
	// underway.
	ErrSessionActive = errors.New("session already connected")
	// ErrSessionFinished is returned by Connect on a session that already
	// ran a full connect/disconnect cycle. Disconnect releases the audio
	// devices, so a finished session cannot be reopened; create a new one.
	ErrSessionFinished = errors.New("session already finished")
	// ErrSessionNotActive is returned by Disconnect without an open
	// connection.
	ErrSessionNotActive = errors.New("session is not connected")
)

type Session struct {
	mu    sync.Mutex
	state State
	// connected guards single-use: a session that has been through a full
	// connect/disconnect cycle refuses to connect again.
	connected bool

	capture    *capturePipeline
	scheduler  *playbackScheduler
	aggregator *transcriptAggregator
	router     *controlRouter

	dialTransport TransportDialer
	transport     Transport
	analyzer      scoring.Analyzer

	initialScene   Scene
	initialPersona Persona
	instructions   string

	inbound    *inboundQueue
	emitEvent  eventEmitter
	runOptions RunOptions

	baseContext context.Context
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		state:          StateIdle,
		initialScene:   DefaultScene,
		initialPersona: DefaultPersona,
		dialTransport:  dialRealtime,
		emitEvent:      noopEventEmitter,
		capture:        newCapturePipeline(nil),
		scheduler:      newPlaybackScheduler(nil),
		aggregator:     newTranscriptAggregator(nil),
		baseContext:    context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = newControlRouter(s.initialScene, s.initialPersona)
	s.inbound = newInboundQueue(s.processRemoteEvent)

	return s
}

func dialRealtime(ctx context.Context, opts ...transport.Option) (Transport, error) {
	return realtime.NewClient(ctx, opts...)
}

// Connect opens the remote connection, starts capture and begins processing
// remote events. It returns once the connection is live.
func (s *Session) Connect(ctx context.Context, opts ...RunOption) error {
	ctx, span := tracer.Start(ctx, "session.Connect")
	defer span.End()

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrSessionActive
	}
	if s.connected {
		s.mu.Unlock()
		return ErrSessionFinished
	}
	s.connected = true
	s.state = StateConnecting

	options := RunOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	s.runOptions = options
	s.emitEvent = newCallbackEventEmitter(options)
	s.baseContext = ctx
	emit := s.emitEvent
	s.mu.Unlock()

	emit(events.NewSessionStateChanged(string(StateConnecting)))

	s.aggregator.SetEventEmitter(emit)
	s.router.SetEventEmitter(emit)
	s.capture.SetEventEmitter(s.forwardCaptureEvent)

	s.inbound.start()

	setup := transport.Setup{
		Voice:           s.router.Persona().Voice(),
		Scene:           string(s.router.Scene()),
		Instructions:    s.instructions,
		Tools:           controlToolDefinitions(),
		InputSampleRate: s.capture.EncodingInfo().SampleRate,
	}

	remote, err := s.dialTransport(ctx,
		transport.WithSetup(setup),
		transport.WithEventCallback(func(event events.Event) {
			s.inbound.enqueue(event)
		}),
		transport.WithCloseCallback(func(closeErr error) {
			if closeErr != nil {
				span := trace.SpanFromContext(s.baseContext)
				span.RecordError(closeErr)
				logger.Warn("remote connection lost", "error", closeErr)
			}
			go func() {
				_ = s.Disconnect(s.baseContext)
			}()
		}),
	)
	if err != nil {
		s.inbound.end()
		s.setState(StateIdle)
		recordedErr := fmt.Errorf("failed to open transport: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	s.mu.Lock()
	s.transport = remote
	s.mu.Unlock()
	s.router.SetResponseSender(remote.SendToolResponse)

	if err := s.capture.Start(ctx); err != nil {
		logger.Warn("capture did not start, continuing listen-only", "error", err)
	}

	s.setState(StateOpen)
	return nil
}

// Disconnect tears the connection down in order: close the transport, stop
// playback and capture, drain remote events, flush pending utterances, then
// run post-session analysis. It returns after the scorecard was emitted.
func (s *Session) Disconnect(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.Disconnect")
	defer span.End()

	s.mu.Lock()
	if s.state != StateOpen && s.state != StateConnecting {
		s.mu.Unlock()
		return ErrSessionNotActive
	}
	s.state = StateClosing
	remote := s.transport
	s.transport = nil
	emit := s.emitEvent
	s.mu.Unlock()

	emit(events.NewSessionStateChanged(string(StateClosing)))

	if remote != nil {
		if err := remote.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close transport: %w", err)
			span.RecordError(recordedErr)
			logger.Warn("transport close failed", "error", err)
		}
	}

	if err := s.scheduler.Teardown(); err != nil {
		span.RecordError(err)
		logger.Warn("playback teardown failed", "error", err)
	}

	if err := s.capture.Stop(); err != nil {
		span.RecordError(err)
		logger.Warn("capture stop failed", "error", err)
	}

	s.inbound.end()
	s.inbound.awaitCompletion()

	s.aggregator.FinalFlush()

	s.setState(StateAnalyzing)
	scorecard := s.analyze(ctx)
	emit(events.NewScorecardReady(*scorecard))

	s.setState(StateIdle)
	return nil
}

func (s *Session) analyze(ctx context.Context) *scoring.Scorecard {
	if s.analyzer == nil {
		return scoring.PlaceholderScorecard()
	}

	scorecard, err := s.analyzer.Analyze(ctx, s.aggregator.Log().Render())
	if err != nil {
		logger.Warn("post-session analysis failed, substituting placeholder", "error", err)
		return scoring.PlaceholderScorecard()
	}
	return scorecard
}

// forwardCaptureEvent relays microphone events: audio frames go to the
// remote model first, then every event reaches the registered callbacks.
func (s *Session) forwardCaptureEvent(event events.Event) {
	if frame, ok := event.(events.UserAudioFrame); ok {
		s.mu.Lock()
		remote := s.transport
		emit := s.emitEvent
		s.mu.Unlock()

		if remote != nil {
			if err := remote.SendAudio(frame.Audio, s.capture.EncodingInfo()); err != nil {
				logger.Warn("failed to forward audio frame", "error", err)
			}
		}
		emit(event)
		return
	}

	s.mu.Lock()
	emit := s.emitEvent
	s.mu.Unlock()
	emit(event)
}

// processRemoteEvent runs on the inbound queue worker, so remote events are
// applied strictly in arrival order.
func (s *Session) processRemoteEvent(event events.Event) {
	switch typedEvent := event.(type) {
	case events.UserTranscriptFragment:
		s.aggregator.RecordUserFragment(typedEvent.Text)

	case events.AgentTranscriptFragment:
		s.aggregator.RecordAgentFragment(typedEvent.Text)

	case events.TurnCompleted:
		s.aggregator.CompleteTurn()

	case events.TurnInterrupted:
		s.scheduler.Interrupt()
		s.aggregator.Interrupt()
		s.mu.Lock()
		emit := s.emitEvent
		s.mu.Unlock()
		emit(event)

	case events.AgentAudioChunk:
		if _, err := s.scheduler.Enqueue(typedEvent.Chunk); err != nil {
			logger.Warn("failed to schedule agent audio", "error", err)
		}

	case events.ToolCallRequested:
		s.router.Dispatch(typedEvent)

	default:
		logger.Debug("ignoring unhandled remote event", "kind", event.Kind())
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	emit := s.emitEvent
	s.mu.Unlock()

	emit(events.NewSessionStateChanged(string(state)))
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetMuted pauses or resumes forwarding of microphone frames. Muted frames
// are dropped, not replaced with silence; the input level meter keeps
// running either way.
func (s *Session) SetMuted(muted bool) {
	s.capture.SetMuted(muted)
}

func (s *Session) IsMuted() bool {
	return s.capture.IsMuted()
}

// IsSpeaking reports whether the input level meter currently classifies the
// microphone signal as speech.
func (s *Session) IsSpeaking() bool {
	return s.capture.meter.Speaking()
}

// InputLevel reports the smoothed microphone level on a 0-255 scale.
func (s *Session) InputLevel() float64 {
	return s.capture.meter.Level()
}

// SwitchScene applies a locally requested scene change.
func (s *Session) SwitchScene(scene Scene) error {
	if !s.router.SetScene(scene) {
		return fmt.Errorf("unknown scene %q", scene)
	}
	return nil
}

// SwitchPersona applies a locally requested persona change.
func (s *Session) SwitchPersona(persona Persona) error {
	if !s.router.SetPersona(persona) {
		return fmt.Errorf("unknown persona %q", persona)
	}
	return nil
}

func (s *Session) Scene() Scene {
	return s.router.Scene()
}

func (s *Session) Persona() Persona {
	return s.router.Persona()
}

// Turns returns the finalized transcript so far, in order.
func (s *Session) Turns() []transcript.Turn {
	return s.aggregator.Turns()
}

// PendingUser returns the user's in-progress utterance.
func (s *Session) PendingUser() string {
	return s.aggregator.PendingUser()
}

// PendingAgent returns the agent's in-progress utterance.
func (s *Session) PendingAgent() string {
	return s.aggregator.PendingAgent()
}

// TranscriptText renders the finalized transcript as labeled lines.
func (s *Session) TranscriptText() string {
	return s.aggregator.Log().Render()
}

// QueuedPlayback reports the number of agent audio segments queued or
// playing.
func (s *Session) QueuedPlayback() int {
	return s.scheduler.LiveCount()
}
