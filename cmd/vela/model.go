package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	session "github.com/vela-voice/vela-core/core"
	"github.com/vela-voice/vela-core/core/scoring"
	"github.com/vela-voice/vela-core/core/transcript"
)

type turnFlushedMsg struct{ turn transcript.Turn }

type partialMsg struct {
	role transcript.Role
	text string
}

type speakingMsg struct{ speaking bool }

type interruptionMsg struct{}

type stateMsg struct{ state session.State }

type scorecardMsg struct{ scorecard scoring.Scorecard }

var (
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	agentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

type model struct {
	session *session.Session

	transcriptView viewport.Model
	viewReady      bool
	thinking       spinner.Model

	width  int
	height int

	turns        []transcript.Turn
	userPartial  string
	agentPartial string

	state     session.State
	speaking  bool
	scorecard *scoring.Scorecard
}

func newModel(voiceSession *session.Session) *model {
	thinking := spinner.New()
	thinking.Spinner = spinner.Dot

	return &model{
		session:  voiceSession,
		thinking: thinking,
		state:    voiceSession.State(),
	}
}

func (m *model) Init() tea.Cmd {
	return m.thinking.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.viewReady {
			m.transcriptView = viewport.New(msg.Width, max(msg.Height-6, 4))
			m.viewReady = true
		} else {
			m.transcriptView.Width = msg.Width
			m.transcriptView.Height = max(msg.Height-6, 4)
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnFlushedMsg:
		m.turns = append(m.turns, msg.turn)
		m.refreshTranscript()
		return m, nil

	case partialMsg:
		if msg.role == transcript.RoleUser {
			m.userPartial = msg.text
		} else {
			m.agentPartial = msg.text
		}
		m.refreshTranscript()
		return m, nil

	case speakingMsg:
		m.speaking = msg.speaking
		return m, nil

	case interruptionMsg:
		m.agentPartial = ""
		m.refreshTranscript()
		return m, nil

	case stateMsg:
		m.state = msg.state
		if msg.state == session.StateIdle && m.scorecard != nil {
			return m, tea.Quit
		}
		return m, nil

	case scorecardMsg:
		scorecard := msg.scorecard
		m.scorecard = &scorecard
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		return m, cmd
	}

	if m.viewReady {
		var cmd tea.Cmd
		m.transcriptView, cmd = m.transcriptView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		go func() {
			_ = m.session.Disconnect(context.Background())
		}()
		if m.state != session.StateOpen {
			return m, tea.Quit
		}
		return m, nil

	case "m":
		m.session.SetMuted(!m.session.IsMuted())
		return m, nil

	case "s":
		scenes := session.Scenes()
		for i, scene := range scenes {
			if scene == m.session.Scene() {
				_ = m.session.SwitchScene(scenes[(i+1)%len(scenes)])
				break
			}
		}
		return m, nil

	case "p":
		personas := session.Personas()
		for i, persona := range personas {
			if persona == m.session.Persona() {
				_ = m.session.SwitchPersona(personas[(i+1)%len(personas)])
				break
			}
		}
		return m, nil
	}

	if m.viewReady {
		var cmd tea.Cmd
		m.transcriptView, cmd = m.transcriptView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) refreshTranscript() {
	if !m.viewReady {
		return
	}

	width := max(m.transcriptView.Width-2, 20)
	var lines []string
	for _, turn := range m.turns {
		style := userStyle
		if turn.Role == transcript.RoleAgent {
			style = agentStyle
		}
		line := style.Render(turn.Role.Label()+":") + " " + turn.Text
		lines = append(lines, wordwrap.String(line, width))
	}
	if m.userPartial != "" {
		lines = append(lines, partialStyle.Render(
			wordwrap.String("User… "+m.userPartial, width)))
	}
	if m.agentPartial != "" {
		lines = append(lines, partialStyle.Render(
			wordwrap.String("Agent… "+m.agentPartial, width)))
	}

	m.transcriptView.SetContent(strings.Join(lines, "\n"))
	m.transcriptView.GotoBottom()
}

func (m *model) View() string {
	if !m.viewReady {
		return "starting session..."
	}

	if m.scorecard != nil {
		return m.scoreView()
	}

	var status strings.Builder
	status.WriteString(statusStyle.Render(fmt.Sprintf("state: %s", m.state)))
	status.WriteString("  ")
	status.WriteString(statusStyle.Render(fmt.Sprintf("scene: %s", m.session.Scene().DisplayName())))
	status.WriteString("  ")
	status.WriteString(statusStyle.Render(fmt.Sprintf("persona: %s", m.session.Persona().DisplayName())))
	if m.session.IsMuted() {
		status.WriteString("  " + mutedStyle.Render("MUTED"))
	} else if m.speaking {
		status.WriteString("  " + m.thinking.View() + "speaking")
	}

	help := helpStyle.Render("m mute · s scene · p persona · q end session")

	return status.String() + "\n\n" + m.transcriptView.View() + "\n\n" + help
}

func (m *model) scoreView() string {
	scorecard := m.scorecard

	var body strings.Builder
	if scorecard.Placeholder {
		body.WriteString("Session ended. " + scorecard.Commentary)
	} else {
		body.WriteString(fmt.Sprintf("Overall %d · Fluency %d · Vocabulary %d · Engagement %d\n\n",
			scorecard.Overall, scorecard.Fluency, scorecard.Vocabulary, scorecard.Engagement))
		body.WriteString(wordwrap.String(scorecard.Commentary, max(m.width-8, 30)))
	}
	body.WriteString("\n\n" + helpStyle.Render("q quit"))

	return scoreStyle.Render(body.String())
}
