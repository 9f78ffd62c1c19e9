package session

import "github.com/vela-voice/vela-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts RunOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.UserAudioFrame:
			if opts.onOutboundAudio != nil {
				opts.onOutboundAudio(typedEvent.Audio)
			}
		case events.UserPartialUpdated:
			if opts.onUserPartial != nil {
				opts.onUserPartial(typedEvent.Text)
			}
		case events.AgentPartialUpdated:
			if opts.onAgentPartial != nil {
				opts.onAgentPartial(typedEvent.Text)
			}
		case events.UserSpeakingChanged:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(typedEvent.Speaking)
			}
		case events.TurnFlushed:
			if opts.onTurnFlushed != nil {
				opts.onTurnFlushed(typedEvent.Turn)
			}
		case events.TurnInterrupted:
			if opts.onInterruption != nil {
				opts.onInterruption()
			}
		case events.ToolCallResponded:
			if opts.onToolApplied != nil {
				opts.onToolApplied(typedEvent.Name, typedEvent.Result)
			}
		case events.SessionStateChanged:
			if opts.onStateChanged != nil {
				opts.onStateChanged(State(typedEvent.State))
			}
		case events.ScorecardReady:
			if opts.onScorecardReady != nil {
				opts.onScorecardReady(typedEvent.Scorecard)
			}
		}
	}
}
