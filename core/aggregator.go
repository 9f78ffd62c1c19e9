package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vela-voice/vela-core/core/events"
	"github.com/vela-voice/vela-core/core/transcript"
)

// transcriptAggregator reconciles the unordered, independently-arriving
// user and agent fragment streams into an ordered transcript of finalized
// turns.
//
// At most one role's pending buffer is "active" at a time: a fragment for
// the other role forces the active buffer to flush first. Flush order,
// not fragment arrival order, defines transcript order.
type transcriptAggregator struct {
	mu sync.Mutex

	userPending  string
	agentPending string

	turns []transcript.Turn
	log   *transcript.Log

	emitEvent eventEmitter
	now       func() time.Time
}

func newTranscriptAggregator(log *transcript.Log) *transcriptAggregator {
	if log == nil {
		log = transcript.NewLog()
	}

	return &transcriptAggregator{
		log:       log,
		emitEvent: noopEventEmitter,
		now:       time.Now,
	}
}

func (a *transcriptAggregator) SetEventEmitter(emitEvent eventEmitter) {
	if a == nil {
		return
	}

	if emitEvent != nil {
		a.emitEvent = emitEvent
	} else {
		a.emitEvent = noopEventEmitter
	}
}

// RecordUserFragment appends a user fragment, flushing the agent's pending
// buffer first if it is non-empty. The fragment also lands as one prefixed
// line in the flat log.
func (a *transcriptAggregator) RecordUserFragment(text string) {
	a.mu.Lock()
	flushed := a.flushLocked(transcript.RoleAgent)
	a.userPending += text
	pending := a.userPending
	a.log.Append(transcript.RoleUser, text)
	a.mu.Unlock()

	a.emitFlushed(flushed)
	a.emitEvent(events.NewUserPartialUpdated(pending))
}

// RecordAgentFragment appends an agent fragment, flushing the user's pending
// buffer first if it is non-empty. The fragment also lands as one prefixed
// line in the flat log.
func (a *transcriptAggregator) RecordAgentFragment(text string) {
	a.mu.Lock()
	flushed := a.flushLocked(transcript.RoleUser)
	a.agentPending += text
	pending := a.agentPending
	a.log.Append(transcript.RoleAgent, text)
	a.mu.Unlock()

	a.emitFlushed(flushed)
	a.emitEvent(events.NewAgentPartialUpdated(pending))
}

// CompleteTurn flushes both pending buffers unconditionally, user first.
func (a *transcriptAggregator) CompleteTurn() {
	a.mu.Lock()
	flushed := append(a.flushLocked(transcript.RoleUser), a.flushLocked(transcript.RoleAgent)...)
	a.mu.Unlock()

	a.emitFlushed(flushed)
}

// Interrupt flushes the agent's pending buffer only. Whatever the agent
// produced before being cut off is still a committed turn; the user's buffer
// is untouched because interruption means the user just started talking.
func (a *transcriptAggregator) Interrupt() {
	a.mu.Lock()
	flushed := a.flushLocked(transcript.RoleAgent)
	a.mu.Unlock()

	a.emitFlushed(flushed)
}

// FinalFlush commits both pending buffers at session end, user first. It is
// safe to call repeatedly; empty buffers flush to nothing.
func (a *transcriptAggregator) FinalFlush() {
	a.CompleteTurn()
}

// flushLocked finalizes the given role's pending buffer into a turn. It
// returns the emissions to perform once the lock is released; an empty
// (trimmed) buffer flushes to nothing and clears silently.
func (a *transcriptAggregator) flushLocked(role transcript.Role) []events.Event {
	var pending *string
	switch role {
	case transcript.RoleUser:
		pending = &a.userPending
	case transcript.RoleAgent:
		pending = &a.agentPending
	default:
		return nil
	}

	if *pending == "" {
		return nil
	}

	turn := transcript.Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      *pending,
		Timestamp: a.now(),
	}
	*pending = ""

	cleared := events.Event(events.NewUserPartialUpdated(""))
	if role == transcript.RoleAgent {
		cleared = events.NewAgentPartialUpdated("")
	}

	if turn.IsZero() {
		return []events.Event{cleared}
	}

	a.turns = append(a.turns, turn)
	return []events.Event{events.NewTurnFlushed(turn), cleared}
}

func (a *transcriptAggregator) emitFlushed(emissions []events.Event) {
	for _, event := range emissions {
		a.emitEvent(event)
	}
}

// Turns returns a point-in-time copy of the finalized transcript.
func (a *transcriptAggregator) Turns() []transcript.Turn {
	a.mu.Lock()
	defer a.mu.Unlock()

	turns := make([]transcript.Turn, len(a.turns))
	copy(turns, a.turns)
	return turns
}

// PendingUser returns the user's uncommitted text.
func (a *transcriptAggregator) PendingUser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userPending
}

// PendingAgent returns the agent's uncommitted text.
func (a *transcriptAggregator) PendingAgent() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.agentPending
}

// Log exposes the flat transcript log backing this aggregator.
func (a *transcriptAggregator) Log() *transcript.Log {
	return a.log
}
