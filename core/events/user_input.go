package events

const (
	// KindUserAudioFrame identifies an encoded microphone frame bound for the remote model.
	KindUserAudioFrame Kind = "user_input.audio_frame"
	// KindUserTranscriptFragment identifies incremental user speech transcription.
	KindUserTranscriptFragment Kind = "user_input.transcript_fragment"
	// KindUserPartialUpdated identifies mutable snapshots of the uncommitted user buffer.
	KindUserPartialUpdated Kind = "user_input.partial_updated"
	// KindUserSpeakingChanged identifies a local voice-activity estimate change.
	KindUserSpeakingChanged Kind = "user_input.speaking_changed"
)

// UserAudioFrame carries one captured and encoded microphone frame.
type UserAudioFrame struct {
	Base
	Audio []byte
}

// NewUserAudioFrame creates a user audio frame event.
func NewUserAudioFrame(audio []byte) UserAudioFrame {
	return UserAudioFrame{Base: NewBase(KindUserAudioFrame), Audio: audio}
}

// UserTranscriptFragment carries an incremental piece of the user's
// transcribed speech.
type UserTranscriptFragment struct {
	Base
	Text string
}

// NewUserTranscriptFragment creates a user transcript fragment event.
func NewUserTranscriptFragment(text string) UserTranscriptFragment {
	return UserTranscriptFragment{Base: NewBase(KindUserTranscriptFragment), Text: text}
}

// UserPartialUpdated carries a point-in-time snapshot of the user's pending
// (uncommitted) turn text. An empty snapshot means the buffer was flushed.
type UserPartialUpdated struct {
	Base
	Text string
}

// NewUserPartialUpdated creates a user partial updated event.
func NewUserPartialUpdated(text string) UserPartialUpdated {
	return UserPartialUpdated{Base: NewBase(KindUserPartialUpdated), Text: text}
}

// UserSpeakingChanged reports the local voice-activity estimate. UI feedback
// only; it never gates what audio is transmitted.
type UserSpeakingChanged struct {
	Base
	Speaking bool
}

// NewUserSpeakingChanged creates a user speaking changed event.
func NewUserSpeakingChanged(speaking bool) UserSpeakingChanged {
	return UserSpeakingChanged{Base: NewBase(KindUserSpeakingChanged), Speaking: speaking}
}
