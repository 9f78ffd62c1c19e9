package events

import "github.com/vela-voice/vela-core/core/audio"

const (
	// KindAgentTranscriptFragment identifies incremental agent speech transcription.
	KindAgentTranscriptFragment Kind = "agent_output.transcript_fragment"
	// KindAgentPartialUpdated identifies mutable snapshots of the uncommitted agent buffer.
	KindAgentPartialUpdated Kind = "agent_output.partial_updated"
	// KindAgentAudioChunk identifies base64-framed synthesized speech to schedule.
	KindAgentAudioChunk Kind = "agent_output.audio_chunk"
)

// AgentTranscriptFragment carries an incremental piece of the agent's
// synthesized speech transcription.
type AgentTranscriptFragment struct {
	Base
	Text string
}

// NewAgentTranscriptFragment creates an agent transcript fragment event.
func NewAgentTranscriptFragment(text string) AgentTranscriptFragment {
	return AgentTranscriptFragment{Base: NewBase(KindAgentTranscriptFragment), Text: text}
}

// AgentPartialUpdated carries a point-in-time snapshot of the agent's pending
// (uncommitted) turn text. An empty snapshot means the buffer was flushed.
type AgentPartialUpdated struct {
	Base
	Text string
}

// NewAgentPartialUpdated creates an agent partial updated event.
func NewAgentPartialUpdated(text string) AgentPartialUpdated {
	return AgentPartialUpdated{Base: NewBase(KindAgentPartialUpdated), Text: text}
}

// AgentAudioChunk carries one base64-framed PCM chunk of synthesized speech.
type AgentAudioChunk struct {
	Base
	Chunk audio.Chunk
}

// NewAgentAudioChunk creates an agent audio chunk event.
func NewAgentAudioChunk(chunk audio.Chunk) AgentAudioChunk {
	return AgentAudioChunk{Base: NewBase(KindAgentAudioChunk), Chunk: chunk}
}
