package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
)

const (
	pulseDuration  = 200 * time.Millisecond
	copiedDuration = 500 * time.Millisecond
)

// requests from the generator panel to the root model
type (
	generateMsg struct{}
	copyMsg     struct{}
	verifyMsg   struct{}
	logoutMsg   struct{}
)

// pulseDoneMsg ends the "new email" emphasis.
type pulseDoneMsg struct{ seq int }

// copiedDoneMsg ends the "copied" highlight.
type copiedDoneMsg struct{ seq int }

// generatorModel is the generator panel.
type generatorModel struct {
	email string

	pulseSeq  int
	pulsing   bool
	copiedSeq int
	copied    bool
}

func newGeneratorModel() generatorModel {
	return generatorModel{}
}

func (m generatorModel) Init() tea.Cmd {
	return nil
}

func (m generatorModel) Update(msg tea.Msg) (generatorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case pulseDoneMsg:
		if msg.seq == m.pulseSeq {
			m.pulsing = false
		}
		return m, nil

	case copiedDoneMsg:
		if msg.seq == m.copiedSeq {
			m.copied = false
		}
		return m, nil
	}

	return m, nil
}

func (m generatorModel) handleKey(msg tea.KeyMsg) (generatorModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	switch msg.String() {
	case "g", "n":
		return m, func() tea.Msg { return generateMsg{} }
	case "c", "enter":
		return m, func() tea.Msg { return copyMsg{} }
	case "v":
		return m, func() tea.Msg { return verifyMsg{} }
	case "l":
		return m, func() tea.Msg { return logoutMsg{} }
	}

	return m, nil
}

// setEmail replaces the displayed address and starts the pulse.
func (m generatorModel) setEmail(email string) (generatorModel, tea.Cmd) {
	m.email = email
	m.pulseSeq++
	m.pulsing = true
	seq := m.pulseSeq
	return m, tea.Tick(pulseDuration, func(time.Time) tea.Msg {
		return pulseDoneMsg{seq: seq}
	})
}

// markCopied starts the copied highlight.
func (m generatorModel) markCopied() (generatorModel, tea.Cmd) {
	m.copiedSeq++
	m.copied = true
	seq := m.copiedSeq
	return m, tea.Tick(copiedDuration, func(time.Time) tea.Msg {
		return copiedDoneMsg{seq: seq}
	})
}

var fieldStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#8ab4f8")).
	Padding(0, 2).
	Width(36)

var pulseStyle = fieldStyle.BorderForeground(accent).Bold(true)

var copiedStyle = fieldStyle.
	BorderForeground(lipgloss.Color("#28a745")).
	Foreground(lipgloss.Color("#28a745"))

func (m generatorModel) View() string {
	value := m.email
	if value == "" {
		value = zstyle.MutedText.Render("no email yet")
	}

	style := fieldStyle
	switch {
	case m.copied:
		style = copiedStyle
	case m.pulsing:
		style = pulseStyle
	}

	field := lipgloss.NewStyle().MarginLeft(2).Render(style.Render(value))
	title := zstyle.Title.Render("your temporary email")

	return fmt.Sprintf("\n  %s\n\n%s\n", title, field)
}
