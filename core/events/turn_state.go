package events

import "github.com/vela-voice/vela-core/core/transcript"

const (
	// KindTurnCompleted identifies remote commitment of the current exchange.
	KindTurnCompleted Kind = "turn_state.completed"
	// KindTurnInterrupted identifies a user barge-in cutting off agent speech.
	KindTurnInterrupted Kind = "turn_state.interrupted"
	// KindTurnFlushed identifies a finalized turn appended to the transcript.
	KindTurnFlushed Kind = "turn_state.flushed"
)

// TurnCompleted marks the remote model committing the current exchange.
type TurnCompleted struct{ Base }

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted() TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted)}
}

// TurnInterrupted marks the user starting to speak over the agent.
type TurnInterrupted struct{ Base }

// NewTurnInterrupted creates a turn interrupted event.
func NewTurnInterrupted() TurnInterrupted {
	return TurnInterrupted{Base: NewBase(KindTurnInterrupted)}
}

// TurnFlushed carries a turn that was just committed to the transcript.
type TurnFlushed struct {
	Base
	Turn transcript.Turn
}

// NewTurnFlushed creates a turn flushed event.
func NewTurnFlushed(turn transcript.Turn) TurnFlushed {
	return TurnFlushed{Base: NewBase(KindTurnFlushed), Turn: turn}
}
