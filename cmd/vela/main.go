// Command vela runs an interactive voice session in the terminal: live
// transcript, speaking indicator, mute toggle, and scene/persona switching,
// with a scorecard shown after the session ends.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	session "github.com/vela-voice/vela-core/core"
	"github.com/vela-voice/vela-core/core/audio/miniaudio"
	"github.com/vela-voice/vela-core/core/scoring"
	"github.com/vela-voice/vela-core/core/scoring/llmjudge"
	"github.com/vela-voice/vela-core/core/transcript"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	devices, err := miniaudio.NewDuplex()
	if err != nil {
		return fmt.Errorf("failed to open audio devices: %w", err)
	}
	defer devices.Close()

	sessionOpts := []session.SessionOption{
		session.WithAudioInput(devices),
		session.WithAudioOutput(devices),
	}
	if _, ok := os.LookupEnv("GROQ_API_KEY"); ok {
		judge, err := llmjudge.NewJudge()
		if err != nil {
			return fmt.Errorf("failed to build judge: %w", err)
		}
		sessionOpts = append(sessionOpts, session.WithAnalyzer(judge))
	}

	voiceSession := session.NewSession(sessionOpts...)
	program := tea.NewProgram(newModel(voiceSession), tea.WithAltScreen())

	err = voiceSession.Connect(context.Background(),
		session.WithTurnFlushedCallback(func(turn transcript.Turn) {
			program.Send(turnFlushedMsg{turn: turn})
		}),
		session.WithUserPartialCallback(func(text string) {
			program.Send(partialMsg{role: transcript.RoleUser, text: text})
		}),
		session.WithAgentPartialCallback(func(text string) {
			program.Send(partialMsg{role: transcript.RoleAgent, text: text})
		}),
		session.WithSpeakingStateChangedCallback(func(speaking bool) {
			program.Send(speakingMsg{speaking: speaking})
		}),
		session.WithInterruptionCallback(func() {
			program.Send(interruptionMsg{})
		}),
		session.WithStateChangedCallback(func(state session.State) {
			program.Send(stateMsg{state: state})
		}),
		session.WithScorecardCallback(func(scorecard scoring.Scorecard) {
			program.Send(scorecardMsg{scorecard: scorecard})
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect session: %w", err)
	}

	_, err = program.Run()

	_ = voiceSession.Disconnect(context.Background())
	return err
}
