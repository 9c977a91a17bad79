package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	loginFieldCount
)

var loginLabels = [loginFieldCount]string{
	"username",
	"password",
}

// shake timing: 10 frames over half a second
const (
	shakeFrames   = 10
	shakeInterval = 50 * time.Millisecond
)

// loginSubmitMsg carries the raw field values to the root model.
type loginSubmitMsg struct {
	username string
	password string
}

// shakeMsg advances the attention animation.
type shakeMsg struct {
	seq   int
	frame int
}

// loginModel is the gate panel.
type loginModel struct {
	inputs []textinput.Model
	focus  int

	shakeSeq   int
	shakeFrame int // 0 when idle
}

func newLoginModel() loginModel {
	inputs := make([]textinput.Model, loginFieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 30
		ti.Placeholder = loginLabels[i]
		inputs[i] = ti
	}

	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '*'
	inputs[fieldUsername].Focus()

	return loginModel{inputs: inputs}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m, m.submit()
		}

		if key.Matches(msg, zstyle.KeyTab) || msg.Type == tea.KeyDown {
			return m.nextField(), nil
		}

		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			return m.prevField(), nil
		}

	case shakeMsg:
		if msg.seq != m.shakeSeq {
			return m, nil
		}
		m.shakeFrame = msg.frame
		if msg.frame >= shakeFrames {
			m.shakeFrame = 0
			return m, nil
		}
		return m, shakeTick(m.shakeSeq, msg.frame+1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) submit() tea.Cmd {
	user := m.inputs[fieldUsername].Value()
	pass := m.inputs[fieldPassword].Value()
	return func() tea.Msg {
		return loginSubmitMsg{username: user, password: pass}
	}
}

// shake starts the attention animation, restarting it if already running.
func (m loginModel) shake() (loginModel, tea.Cmd) {
	m.shakeSeq++
	m.shakeFrame = 1
	return m, shakeTick(m.shakeSeq, 2)
}

func (m loginModel) shaking() bool { return m.shakeFrame != 0 }

// reset clears both fields and puts the cursor back on the username.
func (m loginModel) reset() loginModel {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = int(fieldUsername)
	m.inputs[m.focus].Focus()
	return m
}

func (m loginModel) nextField() loginModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % int(loginFieldCount)
	m.inputs[m.focus].Focus()
	return m
}

func (m loginModel) prevField() loginModel {
	m.inputs[m.focus].Blur()
	m.focus--
	if m.focus < 0 {
		m.focus = int(loginFieldCount) - 1
	}
	m.inputs[m.focus].Focus()
	return m
}

// shakeOffset alternates left and right while the animation runs.
func (m loginModel) shakeOffset() int {
	if m.shakeFrame == 0 || m.shakeFrame >= shakeFrames {
		return 0
	}
	if m.shakeFrame%2 == 1 {
		return -1
	}
	return 1
}

func (m loginModel) View() string {
	indent := lipgloss.NewStyle().MarginLeft(2)
	logo := indent.Render(zstyle.StyledLogo(lipgloss.NewStyle().Foreground(accent)))
	title := indent.Render(zstyle.MutedText.Render("temporary email generator"))

	accentStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	var b strings.Builder
	for i, input := range m.inputs {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-10s", loginLabels[i]))
		if i == m.focus {
			b.WriteString(accentStyle.Render("▸") + " " + label + input.View() + "\n")
		} else {
			b.WriteString("  " + label + input.View() + "\n")
		}
	}

	panel := lipgloss.NewStyle().MarginLeft(2 + m.shakeOffset()).Render(b.String())

	return fmt.Sprintf("\n%s\n%s\n\n%s\n", logo, title, panel)
}

func shakeTick(seq, frame int) tea.Cmd {
	return tea.Tick(shakeInterval, func(time.Time) tea.Msg {
		return shakeMsg{seq: seq, frame: frame}
	})
}
