package events

import (
	"testing"

	"github.com/vela-voice/vela-core/core/audio"
	"github.com/vela-voice/vela-core/core/scoring"
	"github.com/vela-voice/vela-core/core/transcript"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "user audio frame", event: NewUserAudioFrame([]byte{1}), expected: KindUserAudioFrame},
		{name: "user transcript fragment", event: NewUserTranscriptFragment("frag"), expected: KindUserTranscriptFragment},
		{name: "user partial updated", event: NewUserPartialUpdated("par"), expected: KindUserPartialUpdated},
		{name: "user speaking changed", event: NewUserSpeakingChanged(true), expected: KindUserSpeakingChanged},
		{name: "agent transcript fragment", event: NewAgentTranscriptFragment("frag"), expected: KindAgentTranscriptFragment},
		{name: "agent partial updated", event: NewAgentPartialUpdated("par"), expected: KindAgentPartialUpdated},
		{name: "agent audio chunk", event: NewAgentAudioChunk(audio.Chunk{Data: "AA=="}), expected: KindAgentAudioChunk},
		{name: "turn completed", event: NewTurnCompleted(), expected: KindTurnCompleted},
		{name: "turn interrupted", event: NewTurnInterrupted(), expected: KindTurnInterrupted},
		{name: "turn flushed", event: NewTurnFlushed(transcript.Turn{Role: transcript.RoleUser, Text: "hi"}), expected: KindTurnFlushed},
		{name: "tool call requested", event: NewToolCallRequested("call-1", "switch_scene", nil), expected: KindToolCallRequested},
		{name: "tool call responded", event: NewToolCallResponded("call-1", "switch_scene", nil), expected: KindToolCallResponded},
		{name: "session state changed", event: NewSessionStateChanged("open"), expected: KindSessionStateChanged},
		{name: "scorecard ready", event: NewScorecardReady(scoring.Scorecard{}), expected: KindScorecardReady},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestCompletedAndInterruptedKindsAreDistinct(t *testing.T) {
	completed := NewTurnCompleted()
	interrupted := NewTurnInterrupted()

	if completed.Kind() == interrupted.Kind() {
		t.Fatalf("expected completed and interrupted kinds to differ, both were %q", completed.Kind())
	}
}
