// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - agent_output.*
//   - turn_state.*
//   - tool_call.*
//   - session.*
//
// Semantics used across the package:
//
//   - Frame: binary audio payload captured locally, sent outbound.
//   - Chunk: base64-framed audio payload received from the remote model.
//   - Fragment: incremental, not-yet-finalized transcript text for one role.
//   - Flushed: a pending fragment buffer was committed into a finalized turn.
//
// user_input events
//
//   - UserAudioFrame (user_input.audio_frame): encoded microphone frame
//     bound for the remote model.
//   - UserTranscriptFragment (user_input.transcript_fragment): incremental
//     transcription of the user's speech, as recognized remotely.
//   - UserPartialUpdated (user_input.partial_updated): mutable snapshot of
//     the uncommitted user buffer; empty means flushed.
//   - UserSpeakingChanged (user_input.speaking_changed): local voice-activity
//     estimate flipped; UI feedback only, never gates transmission.
//
// agent_output events
//
//   - AgentTranscriptFragment (agent_output.transcript_fragment): incremental
//     transcription of the agent's synthesized speech.
//   - AgentPartialUpdated (agent_output.partial_updated): mutable snapshot of
//     the uncommitted agent buffer; empty means flushed.
//   - AgentAudioChunk (agent_output.audio_chunk): base64-framed PCM to be
//     scheduled for playback.
//
// turn_state events
//
//   - TurnCompleted (turn_state.completed): the remote model committed the
//     current exchange; both pending buffers flush.
//   - TurnInterrupted (turn_state.interrupted): the user barged in; the
//     agent's pending buffer flushes and playback is cut off.
//   - TurnFlushed (turn_state.flushed): a finalized turn was appended to the
//     transcript.
//
// tool_call events
//
//   - ToolCallRequested (tool_call.requested): the remote model invoked a
//     registered control tool.
//   - ToolCallResponded (tool_call.responded): acknowledgement sent back for
//     a validated tool call.
//
// session events
//
//   - SessionStateChanged (session.state_changed): lifecycle transition.
//   - ScorecardReady (session.scorecard_ready): post-session analysis
//     finished, possibly with a placeholder result.
package events
