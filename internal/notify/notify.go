// Package notify implements the transient banner shown at the top of the
// screen. At most one notice is visible; showing a new one replaces it.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Kind selects the banner color.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// DismissAfter is how long a notice stays visible.
const DismissAfter = 3 * time.Second

var colors = map[Kind]lipgloss.Color{
	Success: lipgloss.Color("#28a745"),
	Error:   lipgloss.Color("#dc3545"),
	Warning: lipgloss.Color("#ffc107"),
	Info:    lipgloss.Color("#17a2b8"),
}

// Color returns the background color for a kind. Unknown kinds render as info.
func Color(k Kind) lipgloss.Color {
	if c, ok := colors[k]; ok {
		return c
	}
	return colors[Info]
}

// Notice is a single message for the banner.
type Notice struct {
	Text string
	Kind Kind
}

// IsZero reports whether the notice carries no text.
func (n Notice) IsZero() bool { return n.Text == "" }

// DismissMsg expires the notice it was scheduled for.
type DismissMsg struct {
	seq uint64
}

// Banner holds the currently visible notice.
type Banner struct {
	notice  Notice
	visible bool
	seq     uint64
}

// Show replaces the current notice and schedules its dismissal.
func (b Banner) Show(n Notice) (Banner, tea.Cmd) {
	if n.IsZero() {
		return b, nil
	}
	b.seq++
	b.notice = n
	b.visible = true
	return b, dismissAfter(b.seq, DismissAfter)
}

// Update handles dismissal. A timer scheduled for an earlier notice is
// ignored so it cannot remove its replacement.
func (b Banner) Update(msg tea.Msg) Banner {
	if m, ok := msg.(DismissMsg); ok && m.seq == b.seq {
		b.visible = false
		b.notice = Notice{}
	}
	return b
}

// Current returns the visible notice, if any.
func (b Banner) Current() (Notice, bool) {
	return b.notice, b.visible
}

// View renders the banner, or an empty line to keep the layout stable.
func (b Banner) View() string {
	if !b.visible {
		return ""
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(Color(b.notice.Kind)).
		Bold(true).
		Padding(0, 2)
	if b.notice.Kind == Warning {
		style = style.Foreground(lipgloss.Color("#212529"))
	}
	return style.Render(b.notice.Text)
}

func dismissAfter(seq uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
