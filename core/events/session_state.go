package events

import "github.com/vela-voice/vela-core/core/scoring"

const (
	// KindSessionStateChanged identifies a session lifecycle transition.
	KindSessionStateChanged Kind = "session.state_changed"
	// KindScorecardReady identifies completion of post-session analysis.
	KindScorecardReady Kind = "session.scorecard_ready"
)

// SessionStateChanged marks a lifecycle transition of the session manager.
type SessionStateChanged struct {
	Base
	State string
}

// NewSessionStateChanged creates a session state changed event.
func NewSessionStateChanged(state string) SessionStateChanged {
	return SessionStateChanged{Base: NewBase(KindSessionStateChanged), State: state}
}

// ScorecardReady marks completion of the post-session transcript analysis.
// The scorecard's Placeholder field reports whether analysis failed and a
// zero scorecard was substituted.
type ScorecardReady struct {
	Base
	Scorecard scoring.Scorecard
}

// NewScorecardReady creates a scorecard ready event.
func NewScorecardReady(scorecard scoring.Scorecard) ScorecardReady {
	return ScorecardReady{Base: NewBase(KindScorecardReady), Scorecard: scorecard}
}
