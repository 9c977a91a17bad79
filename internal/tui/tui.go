// Package tui implements the root Bubble Tea model for zmail.
//
// The model is an adapter: the gate and the generator decide, and this
// package applies their results to the two panels, the banner and the
// session store.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zmail/internal/browser"
	"github.com/zarlcorp/zmail/internal/clipboard"
	"github.com/zarlcorp/zmail/internal/gate"
	"github.com/zarlcorp/zmail/internal/mailgen"
	"github.com/zarlcorp/zmail/internal/notify"
)

var accent = lipgloss.Color("#17a2b8")

// user-facing messages
const (
	msgGenerated    = "email generated"
	msgCopied       = "email copied to clipboard"
	msgCopiedLegacy = "email copied"
	msgNoEmail      = "generate an email first"
	msgVerifying    = "checking email..."
)

// FlagStore persists the session flag.
type FlagStore interface {
	Set() error
	Clear() error
}

// Services holds the boundaries the model drives.
type Services struct {
	Flags     FlagStore
	Copy      func(text string) clipboard.Result
	Open      browser.Opener
	VerifyURL string
}

// copiedMsg reports a finished clipboard write.
type copiedMsg struct {
	result clipboard.Result
}

// openedMsg reports a finished browser launch.
type openedMsg struct {
	err error
}

// Model is the root TUI model.
type Model struct {
	version string
	gate    *gate.Gate
	gen     *mailgen.Generator
	svc     Services

	active    gate.View
	login     loginModel
	generator generatorModel
	banner    notify.Banner

	// pending work from a restored session, returned by Init
	initCmd tea.Cmd

	width int
}

// New creates the root model. If the gate was built from a set session
// flag the generator panel is shown straight away.
func New(version string, g *gate.Gate, gen *mailgen.Generator, svc Services) Model {
	if svc.VerifyURL == "" {
		svc.VerifyURL = browser.VerifyURL
	}

	m := Model{
		version:   version,
		gate:      g,
		gen:       gen,
		svc:       svc,
		active:    gate.ViewGate,
		login:     newLoginModel(),
		generator: newGeneratorModel(),
	}

	if g.Restore() {
		var cmd tea.Cmd
		m, cmd = m.showGenerator()
		m.initCmd = cmd
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.login.Init(), m.initCmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case notify.DismissMsg:
		m.banner = m.banner.Update(msg)
		return m, nil

	case loginSubmitMsg:
		return m.handleLogin(msg.username, msg.password)

	case shakeMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case generateMsg:
		return m.generateEmail()

	case copyMsg:
		return m.handleCopy()

	case copiedMsg:
		return m.handleCopied(msg.result)

	case verifyMsg:
		return m.handleVerify()

	case openedMsg:
		return m.handleOpened(msg.err)

	case logoutMsg:
		return m.handleLogout()

	case pulseDoneMsg, copiedDoneMsg:
		var cmd tea.Cmd
		m.generator, cmd = m.generator.Update(msg)
		return m, cmd
	}

	return m.updateActive(msg)
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case gate.ViewGate:
		m.login, cmd = m.login.Update(msg)
	case gate.ViewGenerator:
		m.generator, cmd = m.generator.Update(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	var content string
	switch m.active {
	case gate.ViewGate:
		content = m.login.View()
	case gate.ViewGenerator:
		content = m.generator.View()
	}

	header := zstyle.RenderHeader("zmail", viewTitle(m.active), accent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	// always reserve a line for the banner to prevent layout shift
	banner := "  " + m.banner.View()

	return "\n" + header + "\n" + sep + "\n" + banner + "\n" + content + "\n" + footer + "\n"
}

// viewTitle returns the display title for each panel.
func viewTitle(v gate.View) string {
	switch v {
	case gate.ViewGate:
		return "Login"
	case gate.ViewGenerator:
		return "Email Generator"
	}
	return ""
}

// helpFor returns keybinding pairs for each panel's footer.
func helpFor(v gate.View) []zstyle.HelpPair {
	switch v {
	case gate.ViewGate:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next"},
			{Key: "enter", Desc: "login"},
			{Key: "esc", Desc: "quit"},
		}
	case gate.ViewGenerator:
		return []zstyle.HelpPair{
			{Key: "g", Desc: "generate"},
			{Key: "c", Desc: "copy"},
			{Key: "v", Desc: "verify"},
			{Key: "l", Desc: "logout"},
			{Key: "q", Desc: "quit"},
		}
	}
	return nil
}

func (m Model) handleLogin(user, pass string) (tea.Model, tea.Cmd) {
	r := m.gate.Login(user, pass)
	if !r.Granted {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.banner, cmd = m.banner.Show(r.Notice)
		cmds = append(cmds, cmd)
		if r.Shake {
			m.login, cmd = m.login.shake()
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if r.Persist && m.svc.Flags != nil {
		if err := m.svc.Flags.Set(); err != nil {
			slog.Warn("persist session", "err", err)
		}
	}

	m.login = m.login.reset()
	var bannerCmd tea.Cmd
	m.banner, bannerCmd = m.banner.Show(r.Notice)

	m, showCmd := m.showGenerator()
	return m, tea.Batch(bannerCmd, showCmd, tea.ClearScreen)
}

// showGenerator makes the generator panel visible and runs the on-shown
// hook, which generates exactly one email.
func (m Model) showGenerator() (Model, tea.Cmd) {
	m.active = gate.ViewGenerator
	return m.onGeneratorShown()
}

func (m Model) onGeneratorShown() (Model, tea.Cmd) {
	return m.generate()
}

func (m Model) generateEmail() (tea.Model, tea.Cmd) {
	return m.generate()
}

func (m Model) generate() (Model, tea.Cmd) {
	email := m.gen.Generate()
	slog.Debug("generated", "email", email)

	var pulseCmd, bannerCmd tea.Cmd
	m.generator, pulseCmd = m.generator.setEmail(email)
	m.banner, bannerCmd = m.banner.Show(notify.Notice{Text: msgGenerated, Kind: notify.Success})
	return m, tea.Batch(pulseCmd, bannerCmd)
}

func (m Model) handleCopy() (tea.Model, tea.Cmd) {
	email := m.generator.email
	if email == "" {
		return m.warnNoEmail()
	}
	if m.svc.Copy == nil {
		return m, nil
	}

	copyFn := m.svc.Copy
	return m, func() tea.Msg {
		return copiedMsg{result: copyFn(email)}
	}
}

func (m Model) handleCopied(r clipboard.Result) (tea.Model, tea.Cmd) {
	text := msgCopied
	if r.Fallback {
		text = msgCopiedLegacy
	}

	var hlCmd, bannerCmd tea.Cmd
	if !r.Fallback {
		m.generator, hlCmd = m.generator.markCopied()
	}
	m.banner, bannerCmd = m.banner.Show(notify.Notice{Text: text, Kind: notify.Success})
	return m, tea.Batch(hlCmd, bannerCmd)
}

func (m Model) handleVerify() (tea.Model, tea.Cmd) {
	if m.generator.email == "" {
		return m.warnNoEmail()
	}
	if m.svc.Open == nil {
		return m, nil
	}

	open, url := m.svc.Open, m.svc.VerifyURL
	return m, func() tea.Msg {
		return openedMsg{err: open(url)}
	}
}

func (m Model) handleOpened(err error) (tea.Model, tea.Cmd) {
	n := notify.Notice{Text: msgVerifying, Kind: notify.Info}
	if err != nil {
		slog.Warn("open verify url", "err", err)
		n = notify.Notice{Text: "open browser: " + err.Error(), Kind: notify.Error}
	}

	var cmd tea.Cmd
	m.banner, cmd = m.banner.Show(n)
	return m, cmd
}

func (m Model) handleLogout() (tea.Model, tea.Cmd) {
	r := m.gate.Logout()
	if r.Clear && m.svc.Flags != nil {
		if err := m.svc.Flags.Clear(); err != nil {
			slog.Warn("clear session", "err", err)
		}
	}

	m.active = r.Show
	m.login = m.login.reset()

	var cmd tea.Cmd
	m.banner, cmd = m.banner.Show(r.Notice)
	return m, tea.Batch(cmd, m.login.Init(), tea.ClearScreen)
}

func (m Model) warnNoEmail() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.banner, cmd = m.banner.Show(notify.Notice{Text: msgNoEmail, Kind: notify.Warning})
	return m, cmd
}

// Active returns the visible panel.
func (m Model) Active() gate.View { return m.active }

// Email returns the address currently shown, or "".
func (m Model) Email() string { return m.generator.email }
