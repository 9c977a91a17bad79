package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/zmail/internal/clipboard"
	"github.com/zarlcorp/zmail/internal/gate"
	"github.com/zarlcorp/zmail/internal/mailgen"
	"github.com/zarlcorp/zmail/internal/notify"
)

// helpers

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func specialKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

type fakeFlags struct {
	sets   int
	clears int
	err    error
}

func (f *fakeFlags) Set() error   { f.sets++; return f.err }
func (f *fakeFlags) Clear() error { f.clears++; return f.err }

type harness struct {
	flags   *fakeFlags
	copied  []string
	opened  []string
	copyFB  bool
	openErr error
}

func (h *harness) services() Services {
	return Services{
		Flags: h.flags,
		Copy: func(text string) clipboard.Result {
			h.copied = append(h.copied, text)
			return clipboard.Result{Fallback: h.copyFB}
		},
		Open: func(url string) error {
			h.opened = append(h.opened, url)
			return h.openErr
		},
	}
}

func newTestModel(t *testing.T, restored bool) (Model, *harness) {
	t.Helper()
	h := &harness{flags: &fakeFlags{}}
	g := gate.New(gate.Default(), restored)
	m := New("1.0", g, mailgen.New("", 0), h.services())
	return m, h
}

// send feeds msg to the model and returns the updated root model.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return mm, cmd
}

// run executes a command that is expected to yield a single message and
// feeds it back to the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return send(t, m, cmd())
}

func login(t *testing.T, m Model, user, pass string) (Model, tea.Cmd) {
	t.Helper()
	m.login.inputs[fieldUsername].SetValue(user)
	m.login.inputs[fieldPassword].SetValue(pass)
	m, cmd := send(t, m, enterKey())
	return run(t, m, cmd)
}

func bannerText(m Model) string {
	n, ok := m.banner.Current()
	if !ok {
		return ""
	}
	return n.Text
}

// startup

func TestNewStartsOnGate(t *testing.T) {
	m, _ := newTestModel(t, false)
	if m.Active() != gate.ViewGate {
		t.Errorf("active = %v, want gate", m.Active())
	}
	if m.Email() != "" {
		t.Errorf("email = %q, want empty before login", m.Email())
	}
	if !strings.Contains(m.View(), "Login") {
		t.Error("view should show the login title")
	}
}

func TestRestoredSessionShowsGenerator(t *testing.T) {
	m, h := newTestModel(t, true)

	if m.Active() != gate.ViewGenerator {
		t.Fatalf("active = %v, want generator", m.Active())
	}
	if !mailgen.New("", 0).Valid(m.Email()) {
		t.Errorf("restored session should auto-generate, got %q", m.Email())
	}
	if m.initCmd == nil {
		t.Error("restored session should schedule pulse and banner timers")
	}
	if h.flags.sets != 0 {
		t.Error("restoring should not rewrite the flag")
	}
	if !strings.Contains(m.View(), "Email Generator") {
		t.Error("view should show the generator title")
	}
}

// login

func TestLoginSuccess(t *testing.T) {
	m, h := newTestModel(t, false)
	m, cmd := login(t, m, "admin", "1234")

	if cmd == nil {
		t.Error("login should schedule follow-up commands")
	}
	if m.Active() != gate.ViewGenerator {
		t.Fatalf("active = %v, want generator", m.Active())
	}
	if h.flags.sets != 1 {
		t.Errorf("flag sets = %d, want 1", h.flags.sets)
	}
	if !mailgen.New("", 0).Valid(m.Email()) {
		t.Errorf("email %q should be generated on view shown", m.Email())
	}
	if got := bannerText(m); got != msgGenerated {
		t.Errorf("banner = %q, want %q", got, msgGenerated)
	}
	if m.login.inputs[fieldUsername].Value() != "" || m.login.inputs[fieldPassword].Value() != "" {
		t.Error("login fields should be cleared")
	}
}

func TestLoginWrongPasswordShakes(t *testing.T) {
	m, h := newTestModel(t, false)
	m, cmd := login(t, m, "admin", "nope")

	if m.Active() != gate.ViewGate {
		t.Errorf("active = %v, want gate", m.Active())
	}
	if !m.login.shaking() {
		t.Error("gate panel should shake")
	}
	if cmd == nil {
		t.Error("expected banner and shake timers")
	}
	if got := bannerText(m); got != gate.MsgBadLogin {
		t.Errorf("banner = %q, want %q", got, gate.MsgBadLogin)
	}
	if h.flags.sets != 0 {
		t.Error("failed login should not persist the flag")
	}
}

func TestLoginEmptyFields(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = login(t, m, "  ", "1234")

	if got := bannerText(m); got != gate.MsgEmptyFields {
		t.Errorf("banner = %q, want %q", got, gate.MsgEmptyFields)
	}
	if m.login.shaking() {
		t.Error("empty input should not shake")
	}
	n, _ := m.banner.Current()
	if n.Kind != notify.Error {
		t.Errorf("kind = %q, want error", n.Kind)
	}
}

func TestLoginFlagErrorStillGrants(t *testing.T) {
	m, h := newTestModel(t, false)
	h.flags.err = errors.New("disk full")
	m, _ = login(t, m, "admin", "1234")

	if m.Active() != gate.ViewGenerator {
		t.Error("a store failure should not block login")
	}
}

func TestLoginTabSwitchesField(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = send(t, m, specialKey(tea.KeyTab))
	if m.login.focus != int(fieldPassword) {
		t.Errorf("focus = %d, want password", m.login.focus)
	}
	m, _ = send(t, m, specialKey(tea.KeyShiftTab))
	if m.login.focus != int(fieldUsername) {
		t.Errorf("focus = %d, want username", m.login.focus)
	}
}

func TestLoginTypingQDoesNotQuit(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = send(t, m, keyMsg('q'))
	if m.login.inputs[fieldUsername].Value() != "q" {
		t.Errorf("username = %q, want q", m.login.inputs[fieldUsername].Value())
	}
}

func TestShakeRunsToCompletion(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = login(t, m, "admin", "bad")

	seq := m.login.shakeSeq
	for frame := 2; frame <= shakeFrames; frame++ {
		m, _ = send(t, m, shakeMsg{seq: seq, frame: frame})
	}
	if m.login.shaking() {
		t.Error("shake should stop after the last frame")
	}
}

func TestStaleShakeIgnored(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = login(t, m, "admin", "bad")
	m, _ = login(t, m, "admin", "bad")

	m, cmd := send(t, m, shakeMsg{seq: m.login.shakeSeq - 1, frame: shakeFrames})
	if cmd != nil {
		t.Error("stale shake should not schedule more frames")
	}
	if !m.login.shaking() {
		t.Error("stale shake should not stop the current one")
	}
}

// generator

func loggedIn(t *testing.T) (Model, *harness) {
	t.Helper()
	m, h := newTestModel(t, true)
	return m, h
}

func TestGenerateKeyReplacesEmail(t *testing.T) {
	m, _ := loggedIn(t)
	first := m.Email()

	m, cmd := send(t, m, keyMsg('g'))
	m, _ = run(t, m, cmd)

	if !mailgen.New("", 0).Valid(m.Email()) {
		t.Errorf("email %q should be valid", m.Email())
	}
	if m.Email() == first {
		t.Errorf("new email should replace %q", first)
	}
	if !m.generator.pulsing {
		t.Error("field should pulse after generation")
	}
}

func TestPulseEnds(t *testing.T) {
	m, _ := loggedIn(t)
	m, _ = send(t, m, pulseDoneMsg{seq: m.generator.pulseSeq})
	if m.generator.pulsing {
		t.Error("pulse should end")
	}
}

func TestCopy(t *testing.T) {
	m, h := loggedIn(t)
	email := m.Email()

	m, cmd := send(t, m, keyMsg('c'))
	m, cmd = run(t, m, cmd) // copyMsg
	m, _ = run(t, m, cmd)   // copiedMsg

	if len(h.copied) != 1 || h.copied[0] != email {
		t.Fatalf("copied = %v, want [%s]", h.copied, email)
	}
	if got := bannerText(m); got != msgCopied {
		t.Errorf("banner = %q, want %q", got, msgCopied)
	}
	if !m.generator.copied {
		t.Error("field should highlight after copy")
	}
}

func TestCopyFallbackStillSucceeds(t *testing.T) {
	m, h := loggedIn(t)
	h.copyFB = true

	m, cmd := send(t, m, copyMsg{})
	m, _ = run(t, m, cmd)

	if got := bannerText(m); got != msgCopiedLegacy {
		t.Errorf("banner = %q, want %q", got, msgCopiedLegacy)
	}
	n, _ := m.banner.Current()
	if n.Kind != notify.Success {
		t.Errorf("kind = %q, want success", n.Kind)
	}
}

func TestCopyWithoutEmailWarns(t *testing.T) {
	m, h := loggedIn(t)
	m.generator.email = ""

	m, _ = send(t, m, copyMsg{})
	if got := bannerText(m); got != msgNoEmail {
		t.Errorf("banner = %q, want %q", got, msgNoEmail)
	}
	if len(h.copied) != 0 {
		t.Error("nothing should be copied")
	}
}

func TestVerify(t *testing.T) {
	m, h := loggedIn(t)

	m, cmd := send(t, m, keyMsg('v'))
	m, cmd = run(t, m, cmd) // verifyMsg
	m, _ = run(t, m, cmd)   // openedMsg

	if len(h.opened) != 1 || h.opened[0] != "https://temp-mail.asia/" {
		t.Errorf("opened = %v", h.opened)
	}
	n, _ := m.banner.Current()
	if n.Text != msgVerifying || n.Kind != notify.Info {
		t.Errorf("banner = %+v", n)
	}
}

func TestVerifyOpenError(t *testing.T) {
	m, h := loggedIn(t)
	h.openErr = errors.New("no launcher")

	m, cmd := send(t, m, verifyMsg{})
	m, _ = run(t, m, cmd)

	n, _ := m.banner.Current()
	if n.Kind != notify.Error || !strings.Contains(n.Text, "no launcher") {
		t.Errorf("banner = %+v", n)
	}
}

func TestVerifyWithoutEmailWarns(t *testing.T) {
	m, h := loggedIn(t)
	m.generator.email = ""

	m, _ = send(t, m, verifyMsg{})
	if got := bannerText(m); got != msgNoEmail {
		t.Errorf("banner = %q, want %q", got, msgNoEmail)
	}
	if len(h.opened) != 0 {
		t.Error("browser should not open")
	}
}

func TestLogout(t *testing.T) {
	m, h := loggedIn(t)

	m, cmd := send(t, m, keyMsg('l'))
	m, _ = run(t, m, cmd)

	if m.Active() != gate.ViewGate {
		t.Errorf("active = %v, want gate", m.Active())
	}
	if h.flags.clears != 1 {
		t.Errorf("flag clears = %d, want 1", h.flags.clears)
	}
	if got := bannerText(m); got != gate.MsgLoggedOut {
		t.Errorf("banner = %q, want %q", got, gate.MsgLoggedOut)
	}
	if m.gate.Restore() {
		t.Error("restore after logout should be false")
	}
}

func TestLogoutThenLoginGeneratesOnce(t *testing.T) {
	m, _ := loggedIn(t)
	m, _ = send(t, m, logoutMsg{})
	before := m.generator.pulseSeq

	m, _ = login(t, m, "admin", "1234")
	if got := m.generator.pulseSeq - before; got != 1 {
		t.Errorf("generated %d emails on view shown, want 1", got)
	}
}

func TestGeneratorQuit(t *testing.T) {
	m, _ := loggedIn(t)
	_, cmd := send(t, m, keyMsg('q'))
	if cmd == nil {
		t.Fatal("q should quit on the generator panel")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit message")
	}
}

func TestGateQuit(t *testing.T) {
	m, _ := newTestModel(t, false)
	_, cmd := send(t, m, specialKey(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
}

// banner

func TestUnrelatedDismissIgnored(t *testing.T) {
	m, _ := loggedIn(t)
	if _, ok := m.banner.Current(); !ok {
		t.Fatal("restored session should show a banner")
	}

	// a zero-seq dismissal belongs to no notice
	m, _ = send(t, m, notify.DismissMsg{})
	if _, ok := m.banner.Current(); !ok {
		t.Error("unrelated dismissal should not clear the banner")
	}
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.width != 80 {
		t.Errorf("width = %d, want 80", m.width)
	}
}
